package models

import "time"

// Recommendation is advisory text generated from a daily-summary snapshot.
// Several may exist per user-day; readers take the most recent.
type Recommendation struct {
	ID                 string    `json:"id,omitempty"`
	UserID             string    `json:"userId"`
	Date               Date      `json:"date"`
	RecommendationText string    `json:"recommendationText"`
	Reason             string    `json:"reason"`
	Priority           int       `json:"priority"`
	CreatedAt          time.Time `json:"createdAt"`
}
