// services/workflow_service.go
package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"backend/models"
	"backend/pkg/logger"
	"backend/utils"
)

// MealAnalyzer is the contract the workflow holds against the LLM provider.
type MealAnalyzer interface {
	ParseMealInput(ctx context.Context, userInput string) (MealInputResult, error)
	AnalyzeMealImage(ctx context.Context, imageBase64 string) (VisionMealResult, error)
	AnalyzeNutrition(ctx context.Context, mealDescription string, vision *VisionMealResult) (NutrientBreakdown, error)
	GenerateRecommendation(ctx context.Context, summary models.DailySummary, profile models.UserProfile) (RecommendationResult, error)
}

// MealStore is the contract the workflow holds against the data store.
type MealStore interface {
	CreateMeal(ctx context.Context, meal models.Meal) (models.Meal, error)
	GetMealsForDay(ctx context.Context, userID string, date models.Date) ([]models.Meal, error)
	DeleteMeal(ctx context.Context, userID, mealID string) (models.Meal, error)
	GetDailySummary(ctx context.Context, userID string, date models.Date) (*models.DailySummary, error)
	UpdateDailySummary(ctx context.Context, userID string, date models.Date) (models.DailySummary, error)
	CreateRecommendation(ctx context.Context, rec models.Recommendation) (models.Recommendation, error)
	GetLatestRecommendation(ctx context.Context, userID string, date models.Date) (*models.Recommendation, error)
	SaveChatMessage(ctx context.Context, msg models.ChatMessage) error
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*models.UserProfile, error)
}

var (
	_ MealAnalyzer = (*AnalysisService)(nil)
	_ MealStore    = (*MealService)(nil)
	_ ProfileStore = (*ProfileService)(nil)
)

// MealWorkflowService sequences the meal-logging pipeline:
// parse -> vision (iff photo) -> nutrition -> persist -> daily summary,
// then a detached recommendation task and best-effort chat logging.
type MealWorkflowService struct {
	analyzer MealAnalyzer
	meals    MealStore
	profiles ProfileStore
	log      *logger.Logger
}

func NewMealWorkflowService(analyzer MealAnalyzer, meals MealStore, profiles ProfileStore, log *logger.Logger) *MealWorkflowService {
	return &MealWorkflowService{
		analyzer: analyzer,
		meals:    meals,
		profiles: profiles,
		log:      log,
	}
}

// LogMeal runs the full pipeline for one meal. Parse, vision, nutrition,
// persist and summary-recompute failures abort the request; the
// recommendation task and chat log never do.
func (s *MealWorkflowService) LogMeal(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error) {
	s.log.Infow("starting meal logging workflow", "userID", userID)

	parsed, err := s.analyzer.ParseMealInput(ctx, req.Description)
	if err != nil {
		return models.MealAnalysisResult{}, fmt.Errorf("parse meal input: %w", err)
	}
	s.log.Infow("parsed meal input", "mealName", parsed.MealName)

	var vision *VisionMealResult
	if req.ImageBase64 != "" {
		s.log.Infow("image provided, running vision analysis", "userID", userID)
		result, err := s.analyzer.AnalyzeMealImage(ctx, req.ImageBase64)
		if err != nil {
			return models.MealAnalysisResult{}, fmt.Errorf("analyze meal image: %w", err)
		}
		vision = &result
		s.log.Infow("vision analysis complete",
			"mealName", vision.MealName, "confidence", vision.Confidence)
	}

	mealDescription := parsed.Description
	if vision != nil {
		mealDescription = parsed.Description + "\n\nIdentified from image: " + vision.Description
	}

	nutrition, err := s.analyzer.AnalyzeNutrition(ctx, mealDescription, vision)
	if err != nil {
		return models.MealAnalysisResult{}, fmt.Errorf("analyze nutrition: %w", err)
	}
	s.log.Infow("nutrition analysis complete", "calories", nutrition.TotalCalories)

	var photoURL *string
	if req.ImageBase64 != "" {
		if u, err := utils.UploadMealPhoto(req.ImageBase64, userID); err != nil {
			s.log.Warnw("photo upload failed (non-critical)", "userID", userID, "error", err)
		} else {
			photoURL = &u
		}
	}

	mealName := nutrition.MealName
	if req.MealName != nil && *req.MealName != "" {
		mealName = *req.MealName
	}
	mealTime := time.Now()
	if req.MealTime != nil {
		mealTime = *req.MealTime
	}

	meal := models.Meal{
		UserID:        userID,
		MealName:      mealName,
		MealTime:      mealTime,
		PhotoURL:      photoURL,
		TotalCalories: nutrition.TotalCalories,
		Protein:       nutrition.Protein,
		Carbs:         nutrition.Carbs,
		Fats:          nutrition.Fats,
		Ingredients:   nutrition.Ingredients,
	}
	if vision != nil {
		meal.AIAnalysis = &models.AIAnalysis{
			VisionOutput:    vision.Description,
			Confidence:      vision.Confidence,
			IdentifiedItems: vision.IdentifiedItems,
		}
	}

	// From here on the chain must run to completion; a client disconnect must
	// not leave a persisted meal with a failed summary recompute.
	ctx = context.WithoutCancel(ctx)

	saved, err := s.meals.CreateMeal(ctx, meal)
	if err != nil {
		return models.MealAnalysisResult{}, fmt.Errorf("create meal: %w", err)
	}
	s.log.Infow("meal saved", "mealID", saved.ID)

	today := models.Today()
	summary, err := s.meals.UpdateDailySummary(ctx, userID, today)
	if err != nil {
		return models.MealAnalysisResult{}, fmt.Errorf("update daily summary: %w", err)
	}
	s.log.Infow("daily summary updated",
		"totalCalories", summary.TotalCalories, "calorieGoal", summary.CalorieGoal)

	// Fire-and-forget: the recommendation runs detached from the request
	// context so a client disconnect cannot cancel it, and its failure is
	// never surfaced or retried.
	go s.generateRecommendation(userID, today, summary)

	s.saveChatHistory(ctx, userID, saved.ID, req.Description, nutrition)

	var visionAnalysis *string
	if vision != nil {
		visionAnalysis = &vision.Description
	}

	return models.MealAnalysisResult{
		MealID:         saved.ID,
		MealName:       nutrition.MealName,
		TotalCalories:  nutrition.TotalCalories,
		Protein:        nutrition.Protein,
		Carbs:          nutrition.Carbs,
		Fats:           nutrition.Fats,
		Ingredients:    saved.Ingredients,
		VisionAnalysis: visionAnalysis,
		Timestamp:      saved.MealTime,
	}, nil
}

func (s *MealWorkflowService) generateRecommendation(userID string, date models.Date, summary models.DailySummary) {
	ctx := context.Background()

	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		s.log.Errorw("error fetching profile for recommendation (non-critical)",
			"userID", userID, "error", err)
		return
	}
	if profile == nil {
		return
	}

	result, err := s.analyzer.GenerateRecommendation(ctx, summary, *profile)
	if err != nil {
		s.log.Errorw("error generating recommendation (non-critical)",
			"userID", userID, "error", err)
		return
	}

	if _, err := s.meals.CreateRecommendation(ctx, models.Recommendation{
		UserID:             userID,
		Date:               date,
		RecommendationText: result.RecommendationText,
		Reason:             result.Reason,
		Priority:           result.Priority,
	}); err != nil {
		s.log.Errorw("error saving recommendation (non-critical)",
			"userID", userID, "error", err)
		return
	}
	s.log.Infow("recommendation generated", "userID", userID)
}

func (s *MealWorkflowService) saveChatHistory(ctx context.Context, userID, mealID, description string, nutrition NutrientBreakdown) {
	userMsg := models.ChatMessage{
		UserID:  userID,
		Message: description,
		Role:    "user",
		MealID:  &mealID,
	}
	if err := s.meals.SaveChatMessage(ctx, userMsg); err != nil {
		s.log.Warnw("failed to save user chat message (non-critical)", "error", err)
	}

	calories := strconv.FormatFloat(nutrition.TotalCalories, 'f', -1, 64)
	assistantMsg := models.ChatMessage{
		UserID:  userID,
		Message: fmt.Sprintf("Logged %s: %s calories", nutrition.MealName, calories),
		Role:    "assistant",
		MealID:  &mealID,
	}
	if err := s.meals.SaveChatMessage(ctx, assistantMsg); err != nil {
		s.log.Warnw("failed to save assistant chat message (non-critical)", "error", err)
	}
}

// DeleteLoggedMeal removes a meal and recomputes the summary for the day the
// meal belonged to, so back-dated deletions keep totals consistent.
func (s *MealWorkflowService) DeleteLoggedMeal(ctx context.Context, userID, mealID string) error {
	deleted, err := s.meals.DeleteMeal(ctx, userID, mealID)
	if err != nil {
		return err
	}

	if _, err := s.meals.UpdateDailySummary(ctx, userID, models.DateOf(deleted.MealTime)); err != nil {
		return fmt.Errorf("update daily summary after delete: %w", err)
	}
	return nil
}

// GetDailySummaryWithRecommendation bundles the summary, the latest
// recommendation and the day's meals for the dashboard.
func (s *MealWorkflowService) GetDailySummaryWithRecommendation(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error) {
	summary, err := s.meals.GetDailySummary(ctx, userID, date)
	if err != nil {
		return models.DailySummaryResponse{}, err
	}

	rec, err := s.meals.GetLatestRecommendation(ctx, userID, date)
	if err != nil {
		s.log.Warnw("failed to fetch recommendation", "userID", userID, "error", err)
		rec = nil
	}

	meals, err := s.meals.GetMealsForDay(ctx, userID, date)
	if err != nil {
		return models.DailySummaryResponse{}, err
	}

	resp := models.DailySummaryResponse{
		Recommendation: rec,
		Meals:          meals,
	}
	if summary != nil {
		resp.Summary = *summary
	} else {
		resp.Summary = models.EmptyDailySummary(userID, date)
	}
	return resp, nil
}
