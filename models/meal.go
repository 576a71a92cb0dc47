package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// One logged eating event with its computed macros. Meals are immutable once
// created; the only mutation is deletion.
type Meal struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	MealName      string         `json:"mealName"`
	MealTime      time.Time      `json:"mealTime"`
	PhotoURL      *string        `json:"photoUrl,omitempty"`
	TotalCalories float64        `json:"totalCalories"`
	Protein       float64        `json:"protein"`
	Carbs         float64        `json:"carbs"`
	Fats          float64        `json:"fats"`
	Ingredients   IngredientList `json:"ingredients,omitempty"`
	AIAnalysis    *AIAnalysis    `json:"aiAnalysis,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type Ingredient struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// AIAnalysis is the provenance block stored alongside a meal when vision
// analysis ran.
type AIAnalysis struct {
	VisionOutput    string   `json:"visionOutput,omitempty"`
	Confidence      float64  `json:"confidence,omitempty"`
	IdentifiedItems []string `json:"identifiedItems,omitempty"`
}

// IngredientList decodes the `ingredients` jsonb column. The upstream store
// sometimes hands the array back as a JSON-encoded string (double-encoded),
// so the structured decode is attempted first with a string-then-decode
// fallback.
type IngredientList []Ingredient

func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var direct []Ingredient
	if err := json.Unmarshal(data, &direct); err == nil {
		*l = direct
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("ingredients is neither an array nor a string: %s", data)
	}
	if encoded == "" {
		*l = nil
		return nil
	}
	var nested []Ingredient
	if err := json.Unmarshal([]byte(encoded), &nested); err != nil {
		return fmt.Errorf("decode double-encoded ingredients: %w", err)
	}
	*l = nested
	return nil
}

// StoredAIAnalysis mirrors the snake_case shape of the `ai_analysis` jsonb
// column and tolerates the same double encoding as IngredientList.
type StoredAIAnalysis struct {
	VisionOutput    string   `json:"vision_output"`
	Confidence      float64  `json:"confidence"`
	IdentifiedItems []string `json:"identified_items"`
}

func (a *StoredAIAnalysis) UnmarshalJSON(data []byte) error {
	type plain StoredAIAnalysis

	var direct plain
	if err := json.Unmarshal(data, &direct); err == nil {
		*a = StoredAIAnalysis(direct)
		return nil
	}

	var encoded string
	if err := json.Unmarshal(data, &encoded); err != nil {
		return fmt.Errorf("ai_analysis is neither an object nor a string: %s", data)
	}
	if encoded == "" {
		*a = StoredAIAnalysis{}
		return nil
	}
	var nested plain
	if err := json.Unmarshal([]byte(encoded), &nested); err != nil {
		return fmt.Errorf("decode double-encoded ai_analysis: %w", err)
	}
	*a = StoredAIAnalysis(nested)
	return nil
}

func (a *StoredAIAnalysis) ToAIAnalysis() *AIAnalysis {
	if a == nil {
		return nil
	}
	return &AIAnalysis{
		VisionOutput:    a.VisionOutput,
		Confidence:      a.Confidence,
		IdentifiedItems: a.IdentifiedItems,
	}
}

func FromAIAnalysis(a *AIAnalysis) *StoredAIAnalysis {
	if a == nil {
		return nil
	}
	return &StoredAIAnalysis{
		VisionOutput:    a.VisionOutput,
		Confidence:      a.Confidence,
		IdentifiedItems: a.IdentifiedItems,
	}
}
