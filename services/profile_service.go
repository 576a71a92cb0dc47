// services/profile_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"backend/models"
	"backend/pkg/logger"
)

// ProfileService is CRUD over the user_profiles table, one row per user.
type ProfileService struct {
	sb  *SupabaseClient
	log *logger.Logger
}

func NewProfileService(sb *SupabaseClient, log *logger.Logger) *ProfileService {
	return &ProfileService{sb: sb, log: log}
}

type profileRow struct {
	ID                 string      `json:"id"`
	UserID             string      `json:"user_id"`
	FullName           string      `json:"full_name"`
	Birthdate          models.Date `json:"birthdate"`
	Gender             string      `json:"gender"`
	CurrentWeight      float64     `json:"current_weight"`
	Height             float64     `json:"height"`
	GoalWeight         *float64    `json:"goal_weight"`
	ActivityLevel      string      `json:"activity_level"`
	DietaryPreferences []string    `json:"dietary_preferences"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

func (r profileRow) toProfile() models.UserProfile {
	return models.UserProfile{
		ID:                 r.ID,
		UserID:             r.UserID,
		FullName:           r.FullName,
		Birthdate:          r.Birthdate,
		Gender:             r.Gender,
		CurrentWeight:      r.CurrentWeight,
		Height:             r.Height,
		GoalWeight:         r.GoalWeight,
		ActivityLevel:      r.ActivityLevel,
		DietaryPreferences: r.DietaryPreferences,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

// GetProfile returns the user's profile, or nil when onboarding has not
// happened yet.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	query := fmt.Sprintf("user_profiles?user_id=eq.%s&select=*", url.QueryEscape(userID))

	body, err := s.sb.Get(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	profile := rows[0].toProfile()
	return &profile, nil
}

func (s *ProfileService) CreateProfile(ctx context.Context, userID string, req models.CreateProfileRequest) (models.UserProfile, error) {
	payload := map[string]any{
		"user_id":             userID,
		"full_name":           req.FullName,
		"birthdate":           req.Birthdate.String(),
		"gender":              req.Gender,
		"current_weight":      req.CurrentWeight,
		"height":              req.Height,
		"goal_weight":         req.GoalWeight,
		"activity_level":      req.ActivityLevel,
		"dietary_preferences": req.DietaryPreferences,
	}

	body, err := s.sb.Post(ctx, "user_profiles", payload)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to create profile: %w", err)
	}
	return decodeProfileRow(body)
}

// UpdateProfile applies a partial patch; only the fields present in the
// request are written.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (models.UserProfile, error) {
	payload := map[string]any{
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	}
	if req.FullName != nil {
		payload["full_name"] = *req.FullName
	}
	if req.Birthdate != nil {
		payload["birthdate"] = req.Birthdate.String()
	}
	if req.Gender != nil {
		payload["gender"] = *req.Gender
	}
	if req.CurrentWeight != nil {
		payload["current_weight"] = *req.CurrentWeight
	}
	if req.Height != nil {
		payload["height"] = *req.Height
	}
	if req.GoalWeight != nil {
		payload["goal_weight"] = *req.GoalWeight
	}
	if req.ActivityLevel != nil {
		payload["activity_level"] = *req.ActivityLevel
	}
	if req.DietaryPreferences != nil {
		payload["dietary_preferences"] = *req.DietaryPreferences
	}

	query := fmt.Sprintf("user_profiles?user_id=eq.%s", url.QueryEscape(userID))

	body, err := s.sb.Patch(ctx, query, payload)
	if err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to update profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(rows) == 0 {
		return models.UserProfile{}, ErrNotFound
	}
	return rows[0].toProfile(), nil
}

func decodeProfileRow(body []byte) (models.UserProfile, error) {
	var rows []profileRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to decode profile: %w", err)
	}
	if len(rows) == 0 {
		return models.UserProfile{}, fmt.Errorf("store returned no profile row")
	}
	return rows[0].toProfile(), nil
}
