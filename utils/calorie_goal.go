package utils

import (
	"strings"
	"time"

	"backend/models"
)

// DefaultCalorieGoal applies when the user has no profile yet.
const DefaultCalorieGoal = 2000

// CalculateCalorieGoal derives a daily calorie goal from a profile using the
// Mifflin-St Jeor BMR equation scaled by an activity multiplier. Age is the
// calendar-year difference; birth month and day are ignored.
func CalculateCalorieGoal(profile *models.UserProfile) float64 {
	if profile == nil {
		return DefaultCalorieGoal
	}

	weight := profile.CurrentWeight
	height := profile.Height
	age := float64(time.Now().Year() - profile.Birthdate.Year())

	var bmr float64
	switch strings.ToLower(profile.Gender) {
	case "male":
		bmr = 10*weight + 6.25*height - 5*age + 5
	case "female":
		bmr = 10*weight + 6.25*height - 5*age - 161
	default:
		// Mean of the male/female offsets.
		bmr = 10*weight + 6.25*height - 5*age - 78
	}

	var multiplier float64
	switch profile.ActivityLevel {
	case models.ActivitySedentary:
		multiplier = 1.2
	case models.ActivityLightlyActive:
		multiplier = 1.375
	case models.ActivityActive:
		multiplier = 1.55
	case models.ActivityVeryActive:
		multiplier = 1.725
	default:
		multiplier = 1.2
	}

	return bmr * multiplier
}
