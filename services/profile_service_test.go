// services/profile_service_test.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"backend/models"
	"backend/pkg/logger"
)

const profileRowJSON = `{
	"id": "p1",
	"user_id": "u1",
	"full_name": "Ann Example",
	"birthdate": "1995-06-15",
	"gender": "female",
	"current_weight": 62,
	"height": 168,
	"goal_weight": 58,
	"activity_level": "Lightly Active",
	"dietary_preferences": ["vegetarian"],
	"created_at": "2025-01-01T00:00:00Z",
	"updated_at": "2025-01-01T00:00:00Z"
}`

func TestGetProfile(t *testing.T) {
	ts := newStoreServer(t, map[string]http.HandlerFunc{
		"GET /rest/v1/user_profiles": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("user_id"); got != "eq.u1" {
				t.Errorf("user filter = %q", got)
			}
			w.Write([]byte("[" + profileRowJSON + "]"))
		},
	})

	svc := NewProfileService(NewSupabaseClient(ts.URL, "test-key"), logger.NewNop())
	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile == nil || profile.FullName != "Ann Example" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
	if profile.Birthdate.String() != "1995-06-15" {
		t.Fatalf("birthdate decoded wrong: %s", profile.Birthdate)
	}
	if profile.GoalWeight == nil || *profile.GoalWeight != 58 {
		t.Fatalf("goal weight lost: %+v", profile.GoalWeight)
	}
}

func TestGetProfileAbsentIsNil(t *testing.T) {
	ts := newStoreServer(t, map[string]http.HandlerFunc{
		"GET /rest/v1/user_profiles": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
	})

	svc := NewProfileService(NewSupabaseClient(ts.URL, "test-key"), logger.NewNop())
	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil profile before onboarding, got %+v", profile)
	}
}

func TestCreateProfileSendsDateOnlyBirthdate(t *testing.T) {
	var payload map[string]any

	ts := newStoreServer(t, map[string]http.HandlerFunc{
		"POST /rest/v1/user_profiles": func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Errorf("payload not JSON: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte("[" + profileRowJSON + "]"))
		},
	})

	birthdate, _ := models.ParseDate("1995-06-15")
	svc := NewProfileService(NewSupabaseClient(ts.URL, "test-key"), logger.NewNop())
	created, err := svc.CreateProfile(context.Background(), "u1", models.CreateProfileRequest{
		FullName:      "Ann Example",
		Birthdate:     birthdate,
		Gender:        "female",
		CurrentWeight: 62,
		Height:        168,
		ActivityLevel: "Lightly Active",
	})
	if err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	if payload["birthdate"] != "1995-06-15" {
		t.Fatalf("birthdate not date-only on the wire: %v", payload["birthdate"])
	}
	if payload["user_id"] != "u1" {
		t.Fatalf("user id missing from payload: %v", payload)
	}
	if created.UserID != "u1" {
		t.Fatalf("unexpected profile: %+v", created)
	}
}

func TestUpdateProfilePatchesOnlyProvidedFields(t *testing.T) {
	var payload map[string]any

	ts := newStoreServer(t, map[string]http.HandlerFunc{
		"PATCH /rest/v1/user_profiles": func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Errorf("payload not JSON: %v", err)
			}
			w.Write([]byte("[" + profileRowJSON + "]"))
		},
	})

	weight := 60.5
	svc := NewProfileService(NewSupabaseClient(ts.URL, "test-key"), logger.NewNop())
	if _, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{
		CurrentWeight: &weight,
	}); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	if payload["current_weight"] != 60.5 {
		t.Fatalf("weight not patched: %v", payload)
	}
	if _, ok := payload["full_name"]; ok {
		t.Fatal("absent fields must not be patched")
	}
	if _, ok := payload["updated_at"]; !ok {
		t.Fatal("patch must refresh updated_at")
	}
}

func TestUpdateProfileNotFound(t *testing.T) {
	ts := newStoreServer(t, map[string]http.HandlerFunc{
		"PATCH /rest/v1/user_profiles": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		},
	})

	name := "New Name"
	svc := NewProfileService(NewSupabaseClient(ts.URL, "test-key"), logger.NewNop())
	_, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{FullName: &name})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
