package models

import "time"

// ChatMessage is one append-only chat-thread entry. Writes are best-effort;
// the meal-logging workflow never fails because of chat history.
type ChatMessage struct {
	UserID    string    `json:"userId"`
	Message   string    `json:"message"`
	Role      string    `json:"role"` // "user" | "assistant"
	MealID    *string   `json:"mealId,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
