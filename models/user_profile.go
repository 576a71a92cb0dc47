package models

import "time"

// Activity levels accepted by the calorie-goal formula.
const (
	ActivitySedentary     = "Sedentary"
	ActivityLightlyActive = "Lightly Active"
	ActivityActive        = "Active"
	ActivityVeryActive    = "Very Active"
)

type UserProfile struct {
	ID                 string    `json:"id,omitempty"`
	UserID             string    `json:"userId"`
	FullName           string    `json:"fullName"`
	Birthdate          Date      `json:"birthdate"`
	Gender             string    `json:"gender"`
	CurrentWeight      float64   `json:"currentWeight"`
	Height             float64   `json:"height"`
	GoalWeight         *float64  `json:"goalWeight,omitempty"`
	ActivityLevel      string    `json:"activityLevel"`
	DietaryPreferences []string  `json:"dietaryPreferences,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
