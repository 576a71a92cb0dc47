// controllers/meal_controller_test.go
package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backend/models"
	"backend/pkg/logger"
	"backend/services"

	"github.com/gin-gonic/gin"
)

type stubWorkflow struct {
	logMealFn func(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error)
	deleteFn  func(ctx context.Context, userID, mealID string) error
	summaryFn func(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error)
}

func (s *stubWorkflow) LogMeal(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error) {
	return s.logMealFn(ctx, userID, req)
}

func (s *stubWorkflow) DeleteLoggedMeal(ctx context.Context, userID, mealID string) error {
	return s.deleteFn(ctx, userID, mealID)
}

func (s *stubWorkflow) GetDailySummaryWithRecommendation(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error) {
	return s.summaryFn(ctx, userID, date)
}

func mealTestRouter(wf *stubWorkflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctl := NewMealController(wf, logger.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "u1") })
	r.POST("/api/meals", ctl.LogMeal)
	r.DELETE("/api/meals/:mealId", ctl.DeleteMeal)
	r.GET("/api/meals/daily-summary", ctl.GetDailySummary)
	return r
}

func TestLogMealEndpoint(t *testing.T) {
	wf := &stubWorkflow{
		logMealFn: func(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error) {
			if userID != "u1" {
				t.Errorf("userID = %q", userID)
			}
			if req.Description != "a bowl of oatmeal" {
				t.Errorf("description = %q", req.Description)
			}
			return models.MealAnalysisResult{MealID: "m1", MealName: "Oatmeal", TotalCalories: 300}, nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodPost, "/api/meals",
		strings.NewReader(`{"description":"a bowl of oatmeal"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	for _, want := range []string{`"mealId":"m1"`, `"mealName":"Oatmeal"`, `"totalCalories":300`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Fatalf("body %s missing %s", w.Body.String(), want)
		}
	}
}

func TestLogMealEndpointRequiresDescription(t *testing.T) {
	wf := &stubWorkflow{
		logMealFn: func(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error) {
			t.Error("workflow must not run for invalid input")
			return models.MealAnalysisResult{}, nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodPost, "/api/meals", strings.NewReader(`{"mealName":"Lunch"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestLogMealEndpointWorkflowFailure(t *testing.T) {
	wf := &stubWorkflow{
		logMealFn: func(ctx context.Context, userID string, req models.LogMealRequest) (models.MealAnalysisResult, error) {
			return models.MealAnalysisResult{}, errors.New("provider down")
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodPost, "/api/meals", strings.NewReader(`{"description":"lunch"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "provider down") {
		t.Fatal("internal error detail must not leak to the client")
	}
}

func TestDeleteMealEndpoint(t *testing.T) {
	called := false
	wf := &stubWorkflow{
		deleteFn: func(ctx context.Context, userID, mealID string) error {
			called = true
			if mealID != "7f6b2b1e-3a60-4f3c-9f6e-2f2b6f0a1c11" {
				t.Errorf("mealID = %q", mealID)
			}
			return nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodDelete, "/api/meals/7f6b2b1e-3a60-4f3c-9f6e-2f2b6f0a1c11", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if !called {
		t.Fatal("workflow never invoked")
	}
}

func TestDeleteMealEndpointRejectsNonUUID(t *testing.T) {
	wf := &stubWorkflow{
		deleteFn: func(ctx context.Context, userID, mealID string) error {
			t.Error("workflow must not run for a malformed id")
			return nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodDelete, "/api/meals/not-a-uuid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDeleteMealEndpointNotFound(t *testing.T) {
	wf := &stubWorkflow{
		deleteFn: func(ctx context.Context, userID, mealID string) error {
			return services.ErrNotFound
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodDelete, "/api/meals/7f6b2b1e-3a60-4f3c-9f6e-2f2b6f0a1c11", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetDailySummaryEndpointParsesDate(t *testing.T) {
	wf := &stubWorkflow{
		summaryFn: func(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error) {
			if date.String() != "2025-03-09" {
				t.Errorf("date = %s", date)
			}
			return models.DailySummaryResponse{Summary: models.EmptyDailySummary(userID, date)}, nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodGet, "/api/meals/daily-summary?date=2025-03-09", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"calorieGoal":2000`) {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestGetDailySummaryEndpointDefaultsToToday(t *testing.T) {
	wf := &stubWorkflow{
		summaryFn: func(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error) {
			if date.String() != models.Today().String() {
				t.Errorf("date = %s, want today", date)
			}
			return models.DailySummaryResponse{Summary: models.EmptyDailySummary(userID, date)}, nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodGet, "/api/meals/daily-summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetDailySummaryEndpointRejectsBadDate(t *testing.T) {
	wf := &stubWorkflow{
		summaryFn: func(ctx context.Context, userID string, date models.Date) (models.DailySummaryResponse, error) {
			t.Error("workflow must not run for a malformed date")
			return models.DailySummaryResponse{}, nil
		},
	}
	r := mealTestRouter(wf)

	req := httptest.NewRequest(http.MethodGet, "/api/meals/daily-summary?date=03/09/2025", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}
