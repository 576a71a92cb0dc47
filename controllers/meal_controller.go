// controllers/meal_controller.go
package controllers

import (
	"context"
	"errors"
	"net/http"

	"backend/models"
	"backend/pkg/logger"
	"backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MealWorkflow is what the meal endpoints need from the workflow layer.
type MealWorkflow interface {
	LogMeal(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error)
	DeleteLoggedMeal(ctx context.Context, userID, mealID string) error
	GetDailySummaryWithRecommendation(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error)
}

type MealController struct {
	workflow MealWorkflow
	log      *logger.Logger
}

func NewMealController(workflow MealWorkflow, log *logger.Logger) *MealController {
	return &MealController{workflow: workflow, log: log}
}

// LogMeal handles POST /api/meals.
func (ctl *MealController) LogMeal(c *gin.Context) {
	var req models.LogMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("userID")

	result, err := ctl.workflow.LogMeal(c.Request.Context(), userID, req)
	if err != nil {
		ctl.log.Errorw("meal logging workflow failed", "userID", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to log meal"})
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DeleteMeal handles DELETE /api/meals/:mealId.
func (ctl *MealController) DeleteMeal(c *gin.Context) {
	mealID := c.Param("mealId")
	if _, err := uuid.Parse(mealID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}
	userID := c.GetString("userID")

	err := ctl.workflow.DeleteLoggedMeal(c.Request.Context(), userID, mealID)
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found or already deleted"})
		return
	}
	if err != nil {
		ctl.log.Errorw("meal deletion failed", "userID", userID, "mealID", mealID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete meal"})
		return
	}
	c.Status(http.StatusNoContent)
}

// GetDailySummary handles GET /api/meals/daily-summary?date=YYYY-MM-DD.
// The date defaults to today.
func (ctl *MealController) GetDailySummary(c *gin.Context) {
	date := models.Today()
	if raw := c.Query("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = parsed
	}
	userID := c.GetString("userID")

	resp, err := ctl.workflow.GetDailySummaryWithRecommendation(c.Request.Context(), userID, date)
	if err != nil {
		ctl.log.Errorw("daily summary fetch failed", "userID", userID, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get daily summary"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
