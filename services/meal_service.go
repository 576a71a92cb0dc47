// services/meal_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"backend/models"
	"backend/pkg/logger"
	"backend/utils"
)

// MealService owns the meal, daily-summary, recommendation and chat-thread
// tables in the REST data store. Every query is scoped to a user id.
type MealService struct {
	sb       *SupabaseClient
	profiles *ProfileService
	log      *logger.Logger
}

func NewMealService(sb *SupabaseClient, profiles *ProfileService, log *logger.Logger) *MealService {
	return &MealService{sb: sb, profiles: profiles, log: log}
}

type mealRow struct {
	ID            string                   `json:"id"`
	UserID        string                   `json:"user_id"`
	MealName      string                   `json:"meal_name"`
	MealTime      time.Time                `json:"meal_time"`
	PhotoURL      *string                  `json:"photo_url"`
	TotalCalories float64                  `json:"total_calories"`
	Protein       float64                  `json:"protein"`
	Carbs         float64                  `json:"carbs"`
	Fats          float64                  `json:"fats"`
	Ingredients   models.IngredientList    `json:"ingredients"`
	AIAnalysis    *models.StoredAIAnalysis `json:"ai_analysis"`
	CreatedAt     time.Time                `json:"created_at"`
}

func (r mealRow) toMeal() models.Meal {
	return models.Meal{
		ID:            r.ID,
		UserID:        r.UserID,
		MealName:      r.MealName,
		MealTime:      r.MealTime,
		PhotoURL:      r.PhotoURL,
		TotalCalories: r.TotalCalories,
		Protein:       r.Protein,
		Carbs:         r.Carbs,
		Fats:          r.Fats,
		Ingredients:   r.Ingredients,
		AIAnalysis:    r.AIAnalysis.ToAIAnalysis(),
		CreatedAt:     r.CreatedAt,
	}
}

type dailySummaryRow struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Date          models.Date `json:"date"`
	TotalCalories float64     `json:"total_calories"`
	TotalProtein  float64     `json:"total_protein"`
	TotalCarbs    float64     `json:"total_carbs"`
	TotalFats     float64     `json:"total_fats"`
	CalorieGoal   float64     `json:"calorie_goal"`
	MealsCount    int         `json:"meals_count"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (r dailySummaryRow) toSummary() models.DailySummary {
	return models.DailySummary{
		ID:            r.ID,
		UserID:        r.UserID,
		Date:          r.Date,
		TotalCalories: r.TotalCalories,
		TotalProtein:  r.TotalProtein,
		TotalCarbs:    r.TotalCarbs,
		TotalFats:     r.TotalFats,
		CalorieGoal:   r.CalorieGoal,
		MealsCount:    r.MealsCount,
		UpdatedAt:     r.UpdatedAt,
	}
}

type recommendationRow struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	Date               models.Date `json:"date"`
	RecommendationText string      `json:"recommendation_text"`
	Reason             string      `json:"reason"`
	Priority           int         `json:"priority"`
	CreatedAt          time.Time   `json:"created_at"`
}

func (r recommendationRow) toRecommendation() models.Recommendation {
	return models.Recommendation{
		ID:                 r.ID,
		UserID:             r.UserID,
		Date:               r.Date,
		RecommendationText: r.RecommendationText,
		Reason:             r.Reason,
		Priority:           r.Priority,
		CreatedAt:          r.CreatedAt,
	}
}

// CreateMeal inserts a meal and returns the stored row.
func (s *MealService) CreateMeal(ctx context.Context, meal models.Meal) (models.Meal, error) {
	payload := map[string]any{
		"user_id":        meal.UserID,
		"meal_name":      meal.MealName,
		"meal_time":      meal.MealTime.Format(time.RFC3339Nano),
		"photo_url":      meal.PhotoURL,
		"total_calories": meal.TotalCalories,
		"protein":        meal.Protein,
		"carbs":          meal.Carbs,
		"fats":           meal.Fats,
		"ingredients":    meal.Ingredients,
		"ai_analysis":    models.FromAIAnalysis(meal.AIAnalysis),
	}

	body, err := s.sb.Post(ctx, "meals", payload)
	if err != nil {
		return models.Meal{}, fmt.Errorf("failed to create meal: %w", err)
	}

	var rows []mealRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return models.Meal{}, fmt.Errorf("failed to decode created meal: %w", err)
	}
	if len(rows) == 0 {
		return models.Meal{}, fmt.Errorf("store returned no row for created meal")
	}
	return rows[0].toMeal(), nil
}

// GetMealsForDay returns all of the user's meals whose timestamp falls inside
// the calendar day, newest first.
func (s *MealService) GetMealsForDay(ctx context.Context, userID string, date models.Date) ([]models.Meal, error) {
	query := fmt.Sprintf(
		"meals?user_id=eq.%s&meal_time=gte.%s&meal_time=lte.%s&select=*&order=meal_time.desc",
		url.QueryEscape(userID),
		url.QueryEscape(date.StartOfDay().Format(time.RFC3339Nano)),
		url.QueryEscape(date.EndOfDay().Format(time.RFC3339Nano)),
	)

	body, err := s.sb.Get(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meals: %w", err)
	}

	var rows []mealRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode meals: %w", err)
	}

	meals := make([]models.Meal, 0, len(rows))
	for _, r := range rows {
		meals = append(meals, r.toMeal())
	}
	return meals, nil
}

// DeleteMeal removes a meal owned by the user and returns the deleted row.
// A meal that does not exist, or belongs to someone else, is ErrNotFound.
func (s *MealService) DeleteMeal(ctx context.Context, userID, mealID string) (models.Meal, error) {
	query := fmt.Sprintf("meals?id=eq.%s&user_id=eq.%s",
		url.QueryEscape(mealID), url.QueryEscape(userID))

	body, err := s.sb.Delete(ctx, query)
	if err != nil {
		return models.Meal{}, fmt.Errorf("failed to delete meal: %w", err)
	}

	var rows []mealRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return models.Meal{}, fmt.Errorf("failed to decode deleted meal: %w", err)
	}
	if len(rows) == 0 {
		return models.Meal{}, ErrNotFound
	}
	return rows[0].toMeal(), nil
}

// GetDailySummary returns the stored summary row, or nil when the user has
// no summary for that date yet.
func (s *MealService) GetDailySummary(ctx context.Context, userID string, date models.Date) (*models.DailySummary, error) {
	query := fmt.Sprintf("daily_summaries?user_id=eq.%s&date=eq.%s&select=*",
		url.QueryEscape(userID), date.String())

	body, err := s.sb.Get(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch daily summary: %w", err)
	}

	var rows []dailySummaryRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode daily summary: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	summary := rows[0].toSummary()
	return &summary, nil
}

// UpdateDailySummary recomputes the aggregate for (user, date) from scratch:
// it sums all meals currently stored for the day and upserts the row. The
// calorie goal is only set at creation, matching the observed behavior of
// the summary lifecycle. Concurrent recomputes for the same user-day are
// last-write-wins.
func (s *MealService) UpdateDailySummary(ctx context.Context, userID string, date models.Date) (models.DailySummary, error) {
	meals, err := s.GetMealsForDay(ctx, userID, date)
	if err != nil {
		return models.DailySummary{}, err
	}

	var calories, protein, carbs, fats float64
	for _, m := range meals {
		calories += m.TotalCalories
		protein += m.Protein
		carbs += m.Carbs
		fats += m.Fats
	}

	existing, err := s.GetDailySummary(ctx, userID, date)
	if err != nil {
		return models.DailySummary{}, err
	}

	if existing != nil {
		payload := map[string]any{
			"total_calories": calories,
			"total_protein":  protein,
			"total_carbs":    carbs,
			"total_fats":     fats,
			"meals_count":    len(meals),
			"updated_at":     time.Now().UTC().Format(time.RFC3339Nano),
		}
		query := fmt.Sprintf("daily_summaries?user_id=eq.%s&date=eq.%s",
			url.QueryEscape(userID), date.String())

		body, err := s.sb.Patch(ctx, query, payload)
		if err != nil {
			return models.DailySummary{}, fmt.Errorf("failed to update daily summary: %w", err)
		}
		return decodeSummaryRow(body)
	}

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		s.log.Warnw("failed to fetch profile for calorie goal, using default", "userID", userID, "error", err)
		profile = nil
	}

	payload := map[string]any{
		"user_id":        userID,
		"date":           date.String(),
		"total_calories": calories,
		"total_protein":  protein,
		"total_carbs":    carbs,
		"total_fats":     fats,
		"calorie_goal":   utils.CalculateCalorieGoal(profile),
		"meals_count":    len(meals),
	}

	body, err := s.sb.Post(ctx, "daily_summaries", payload)
	if err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to create daily summary: %w", err)
	}
	return decodeSummaryRow(body)
}

func decodeSummaryRow(body []byte) (models.DailySummary, error) {
	var rows []dailySummaryRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return models.DailySummary{}, fmt.Errorf("failed to decode daily summary: %w", err)
	}
	if len(rows) == 0 {
		return models.DailySummary{}, fmt.Errorf("store returned no daily summary row")
	}
	return rows[0].toSummary(), nil
}

// CreateRecommendation stores one recommendation. Rows are never mutated;
// readers take the latest per day.
func (s *MealService) CreateRecommendation(ctx context.Context, rec models.Recommendation) (models.Recommendation, error) {
	payload := map[string]any{
		"user_id":             rec.UserID,
		"date":                rec.Date.String(),
		"recommendation_text": rec.RecommendationText,
		"reason":              rec.Reason,
		"priority":            rec.Priority,
	}

	body, err := s.sb.Post(ctx, "recommendations", payload)
	if err != nil {
		return models.Recommendation{}, fmt.Errorf("failed to create recommendation: %w", err)
	}

	var rows []recommendationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return models.Recommendation{}, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	if len(rows) == 0 {
		return models.Recommendation{}, fmt.Errorf("store returned no recommendation row")
	}
	return rows[0].toRecommendation(), nil
}

// GetLatestRecommendation returns the most recent recommendation for the
// user-day, or nil when none exists.
func (s *MealService) GetLatestRecommendation(ctx context.Context, userID string, date models.Date) (*models.Recommendation, error) {
	query := fmt.Sprintf(
		"recommendations?user_id=eq.%s&date=eq.%s&select=*&order=created_at.desc&limit=1",
		url.QueryEscape(userID), date.String())

	body, err := s.sb.Get(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recommendation: %w", err)
	}

	var rows []recommendationRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode recommendation: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rec := rows[0].toRecommendation()
	return &rec, nil
}

// SaveChatMessage appends one chat-thread entry. Callers treat failures as
// non-critical.
func (s *MealService) SaveChatMessage(ctx context.Context, msg models.ChatMessage) error {
	payload := map[string]any{
		"user_id": msg.UserID,
		"message": msg.Message,
		"role":    msg.Role,
		"meal_id": msg.MealID,
	}

	if _, err := s.sb.Post(ctx, "chat_threads", payload); err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	return nil
}
