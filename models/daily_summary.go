package models

import "time"

// DailySummary is a materialized aggregate over one user's meals for one
// calendar date. Totals are recomputed in full on every meal create/delete.
type DailySummary struct {
	ID            string    `json:"id,omitempty"`
	UserID        string    `json:"userId"`
	Date          Date      `json:"date"`
	TotalCalories float64   `json:"totalCalories"`
	TotalProtein  float64   `json:"totalProtein"`
	TotalCarbs    float64   `json:"totalCarbs"`
	TotalFats     float64   `json:"totalFats"`
	CalorieGoal   float64   `json:"calorieGoal"`
	MealsCount    int       `json:"mealsCount"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EmptyDailySummary is what callers see for a day with no logged meals.
func EmptyDailySummary(userID string, date Date) DailySummary {
	return DailySummary{
		UserID:      userID,
		Date:        date,
		CalorieGoal: 2000,
	}
}
