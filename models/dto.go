package models

import "time"

// LogMealRequest is the POST /api/meals body.
type LogMealRequest struct {
	MealName    *string    `json:"mealName"`
	MealTime    *time.Time `json:"mealTime"`
	Description string     `json:"description" binding:"required,max=1000"`
	ImageBase64 string     `json:"imageBase64"`
}

// MealAnalysisResult is the synchronous response to a meal log. The
// recommendation produced by the background task is not part of it.
type MealAnalysisResult struct {
	MealID         string         `json:"mealId"`
	MealName       string         `json:"mealName"`
	TotalCalories  float64        `json:"totalCalories"`
	Protein        float64        `json:"protein"`
	Carbs          float64        `json:"carbs"`
	Fats           float64        `json:"fats"`
	Ingredients    IngredientList `json:"ingredients,omitempty"`
	VisionAnalysis *string        `json:"visionAnalysis,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// DailySummaryResponse is the GET /api/meals/daily-summary payload.
type DailySummaryResponse struct {
	Summary        DailySummary    `json:"summary"`
	Recommendation *Recommendation `json:"recommendation"`
	Meals          []Meal          `json:"meals"`
}

type CreateProfileRequest struct {
	FullName           string   `json:"fullName" binding:"required"`
	Birthdate          Date     `json:"birthdate" binding:"required"`
	Gender             string   `json:"gender" binding:"required"`
	CurrentWeight      float64  `json:"currentWeight" binding:"required,gt=0"`
	Height             float64  `json:"height" binding:"required,gt=0"`
	GoalWeight         *float64 `json:"goalWeight"`
	ActivityLevel      string   `json:"activityLevel" binding:"required"`
	DietaryPreferences []string `json:"dietaryPreferences"`
}

// UpdateProfileRequest is a partial patch; nil fields are left untouched.
type UpdateProfileRequest struct {
	FullName           *string   `json:"fullName"`
	Birthdate          *Date     `json:"birthdate"`
	Gender             *string   `json:"gender"`
	CurrentWeight      *float64  `json:"currentWeight"`
	Height             *float64  `json:"height"`
	GoalWeight         *float64  `json:"goalWeight"`
	ActivityLevel      *string   `json:"activityLevel"`
	DietaryPreferences *[]string `json:"dietaryPreferences"`
}
