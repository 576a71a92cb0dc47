// services/analysis_service.go
package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"backend/models"
	"backend/pkg/logger"

	openai "github.com/sashabaranov/go-openai"
)

// Structured output of the input-parsing call.
type MealInputResult struct {
	MealName    string `json:"meal_name"`
	MealTime    string `json:"meal_time"`
	Description string `json:"description"`
	HasImage    bool   `json:"has_image"`
}

// Structured output of the vision-analysis call.
type VisionMealResult struct {
	MealName          string   `json:"meal_name"`
	IdentifiedItems   []string `json:"identified_items"`
	EstimatedPortions string   `json:"estimated_portions"`
	Confidence        float64  `json:"confidence"`
	Description       string   `json:"description"`
}

// Structured output of the nutrition-analysis call.
type NutrientBreakdown struct {
	MealName      string              `json:"meal_name"`
	TotalCalories float64             `json:"total_calories"`
	Protein       float64             `json:"protein"`
	Carbs         float64             `json:"carbs"`
	Fats          float64             `json:"fats"`
	Ingredients   []models.Ingredient `json:"ingredients"`
}

// Structured output of the recommendation call.
type RecommendationResult struct {
	RecommendationText string   `json:"recommendation"`
	Reason             string   `json:"reason"`
	Priority           int      `json:"priority"`
	SuggestedFoods     []string `json:"suggested_foods"`
}

const mealInputSchema = `{
	"type": "object",
	"properties": {
		"meal_name": { "type": "string" },
		"meal_time": { "type": "string" },
		"description": { "type": "string" },
		"has_image": { "type": "boolean" }
	},
	"required": ["meal_name", "meal_time", "description", "has_image"],
	"additionalProperties": false
}`

const visionMealSchema = `{
	"type": "object",
	"properties": {
		"meal_name": { "type": "string" },
		"identified_items": { "type": "array", "items": { "type": "string" } },
		"estimated_portions": { "type": "string" },
		"confidence": { "type": "number" },
		"description": { "type": "string" }
	},
	"required": ["meal_name", "identified_items", "estimated_portions", "confidence", "description"],
	"additionalProperties": false
}`

const nutrientBreakdownSchema = `{
	"type": "object",
	"properties": {
		"meal_name": { "type": "string" },
		"total_calories": { "type": "number" },
		"protein": { "type": "number" },
		"carbs": { "type": "number" },
		"fats": { "type": "number" },
		"ingredients": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": { "type": "string" },
					"calories": { "type": "number" },
					"protein": { "type": "number" },
					"carbs": { "type": "number" },
					"fats": { "type": "number" }
				},
				"required": ["name", "calories", "protein", "carbs", "fats"],
				"additionalProperties": false
			}
		}
	},
	"required": ["meal_name", "total_calories", "protein", "carbs", "fats", "ingredients"],
	"additionalProperties": false
}`

const recommendationSchema = `{
	"type": "object",
	"properties": {
		"recommendation": { "type": "string" },
		"reason": { "type": "string" },
		"priority": { "type": "integer" },
		"suggested_foods": { "type": "array", "items": { "type": "string" } }
	},
	"required": ["recommendation", "reason", "priority", "suggested_foods"],
	"additionalProperties": false
}`

// AnalysisService wraps the structured-output chat-completion API behind the
// four operations the meal workflow depends on. A single provider failure is
// a single operation failure; there is no retry.
type AnalysisService struct {
	client *openai.Client
	model  string
	log    *logger.Logger
}

func NewAnalysisService(apiKey, baseURL, model string, log *logger.Logger) *AnalysisService {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &AnalysisService{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		log:    log,
	}
}

// ParseMealInput extracts structured meal information from free text.
func (s *AnalysisService) ParseMealInput(ctx context.Context, userInput string) (MealInputResult, error) {
	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: `You are a meal parsing assistant. Extract meal information from user input.
Return JSON with:
- meal_name: the name of the meal
- meal_time: ISO 8601 datetime string (use current time if not specified)
- description: detailed description of what the user ate
- has_image: false (will be set separately)`,
		},
		{Role: openai.ChatMessageRoleUser, Content: userInput},
	}

	var result MealInputResult
	if err := s.completeJSON(ctx, "meal_input", mealInputSchema, messages, &result); err != nil {
		return MealInputResult{}, fmt.Errorf("failed to parse meal input: %w", err)
	}
	return result, nil
}

// AnalyzeMealImage runs the vision model over a base64-encoded photo.
func (s *AnalysisService) AnalyzeMealImage(ctx context.Context, imageBase64 string) (VisionMealResult, error) {
	raw := imageBase64
	if strings.HasPrefix(raw, "data:") {
		if idx := strings.Index(raw, ","); idx >= 0 {
			raw = raw[idx+1:]
		}
	}
	if _, err := base64.StdEncoding.DecodeString(raw); err != nil {
		return VisionMealResult{}, fmt.Errorf("invalid base64 image: %w", err)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: `You are a food vision analysis expert. Analyze the food image and return detailed information about what you see.
Return JSON with:
- meal_name: the main meal name
- identified_items: array of food items you can see
- estimated_portions: description of portion sizes
- confidence: your confidence level (0-1)
- description: detailed description of the meal`,
		},
		{
			Role: openai.ChatMessageRoleUser,
			MultiContent: []openai.ChatMessagePart{
				{
					Type: openai.ChatMessagePartTypeText,
					Text: "Analyze this food image and tell me what meal this is",
				},
				{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    "data:image/jpeg;base64," + raw,
						Detail: openai.ImageURLDetailAuto,
					},
				},
			},
		},
	}

	var result VisionMealResult
	if err := s.completeJSON(ctx, "vision_meal", visionMealSchema, messages, &result); err != nil {
		return VisionMealResult{}, fmt.Errorf("failed to analyze meal image: %w", err)
	}
	return result, nil
}

// AnalyzeNutrition estimates macros for a meal description. When vision ran,
// its findings are appended to the user message as extra context.
func (s *AnalysisService) AnalyzeNutrition(ctx context.Context, mealDescription string, vision *VisionMealResult) (NutrientBreakdown, error) {
	contextInfo := ""
	if vision != nil {
		contextInfo = fmt.Sprintf(
			"\n\nAdditional context from image analysis:\nMeal: %s\nItems identified: %s\nPortions: %s",
			vision.MealName,
			strings.Join(vision.IdentifiedItems, ", "),
			vision.EstimatedPortions,
		)
	}

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: `You are a nutrition expert. Analyze the meal and provide detailed nutritional breakdown.
Return JSON with:
- meal_name: the meal name
- total_calories: total calories for the meal
- protein: total protein in grams
- carbs: total carbohydrates in grams
- fats: total fats in grams
- ingredients: array of ingredients with individual nutrition (name, calories, protein, carbs, fats)

Be as accurate as possible based on standard serving sizes.`,
		},
		{Role: openai.ChatMessageRoleUser, Content: mealDescription + contextInfo},
	}

	var result NutrientBreakdown
	if err := s.completeJSON(ctx, "nutrient_breakdown", nutrientBreakdownSchema, messages, &result); err != nil {
		return NutrientBreakdown{}, fmt.Errorf("failed to analyze nutrition: %w", err)
	}
	return result, nil
}

// GenerateRecommendation asks the model for the next-meal advice given the
// day so far and the user's profile.
func (s *AnalysisService) GenerateRecommendation(ctx context.Context, summary models.DailySummary, profile models.UserProfile) (RecommendationResult, error) {
	remaining := summary.CalorieGoal - summary.TotalCalories

	var proteinPct, carbsPct, fatsPct float64
	if summary.CalorieGoal > 0 {
		proteinPct = summary.TotalProtein * 4 / summary.CalorieGoal * 100
		carbsPct = summary.TotalCarbs * 4 / summary.CalorieGoal * 100
		fatsPct = summary.TotalFats * 9 / summary.CalorieGoal * 100
	}

	goalWeight := profile.CurrentWeight
	if profile.GoalWeight != nil {
		goalWeight = *profile.GoalWeight
	}

	userContext := fmt.Sprintf(`User Profile:
- Activity Level: %s
- Current Weight: %g kg
- Goal Weight: %g kg
- Dietary Preferences: %s

Today's Intake:
- Calories: %g / %g (Remaining: %g)
- Protein: %gg (%.1f%% of calories)
- Carbs: %gg (%.1f%% of calories)
- Fats: %gg (%.1f%% of calories)
- Meals eaten: %d

Generate a smart, actionable recommendation for what the user should eat next or how to adjust their intake.`,
		profile.ActivityLevel,
		profile.CurrentWeight,
		goalWeight,
		strings.Join(profile.DietaryPreferences, ", "),
		summary.TotalCalories, summary.CalorieGoal, remaining,
		summary.TotalProtein, proteinPct,
		summary.TotalCarbs, carbsPct,
		summary.TotalFats, fatsPct,
		summary.MealsCount,
	)

	messages := []openai.ChatCompletionMessage{
		{
			Role: openai.ChatMessageRoleSystem,
			Content: `You are a nutrition coach providing personalized recommendations.
Return JSON with:
- recommendation: a friendly, actionable suggestion (1-2 sentences)
- reason: brief explanation why (1 sentence)
- priority: 1-5 (1=low, 5=critical)
- suggested_foods: array of 2-3 specific food suggestions

Be encouraging and specific!`,
		},
		{Role: openai.ChatMessageRoleUser, Content: userContext},
	}

	var result RecommendationResult
	if err := s.completeJSON(ctx, "recommendation", recommendationSchema, messages, &result); err != nil {
		return RecommendationResult{}, fmt.Errorf("failed to generate recommendation: %w", err)
	}
	return result, nil
}

// completeJSON runs one chat completion constrained to the given JSON schema
// and decodes the model output into out. Output that does not decode into
// the expected shape is an error.
func (s *AnalysisService) completeJSON(ctx context.Context, schemaName, schema string, messages []openai.ChatCompletionMessage, out any) error {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Schema: json.RawMessage(schema),
				Strict: true,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("no response from model")
	}

	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("model output does not match %s schema: %w", schemaName, err)
	}
	return nil
}
