// services/supabase.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound signals a row that does not exist or is not owned by the
// requesting user.
var ErrNotFound = errors.New("record not found")

// SupabaseClient talks to the hosted Postgres REST API (PostgREST). Row
// filters ride in the query string using the `column=eq.value` convention,
// and every mutation asks for the affected rows back via
// `Prefer: return=representation`.
type SupabaseClient struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewSupabaseClient(baseURL, serviceKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL:    strings.TrimRight(baseURL, "/") + "/rest/v1",
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *SupabaseClient) do(ctx context.Context, method, pathAndQuery string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s payload: %w", pathAndQuery, err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+pathAndQuery, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase request: %w", err)
	}
	req.Header.Set("apikey", c.serviceKey)
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Prefer", "return=representation")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call supabase: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read supabase response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("supabase %s %s error %d: %s", method, pathAndQuery, resp.StatusCode, string(body))
	}
	return body, nil
}

func (c *SupabaseClient) Get(ctx context.Context, pathAndQuery string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, pathAndQuery, nil)
}

func (c *SupabaseClient) Post(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, payload)
}

func (c *SupabaseClient) Patch(ctx context.Context, pathAndQuery string, payload any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, pathAndQuery, payload)
}

func (c *SupabaseClient) Delete(ctx context.Context, pathAndQuery string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, pathAndQuery, nil)
}
