// Package client calls the Diamond Plans REST API. The MCP server's remote
// mode and the live practice screen use it to reach a server over the tailnet.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
)

// Client implements the practice operations over HTTP.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client targeting baseURL. apiKey is sent on every request
// and is only required for starting and completing practices.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode %s: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("client: %s: %w: %s", path, practice.ErrNotFound, apiError(data))
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("client: %s: %w: %s", path, practice.ErrInvalid, apiError(data))
	case resp.StatusCode >= 300:
		return fmt.Errorf("client: %s returned %d: %s", path, resp.StatusCode, apiError(data))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// apiError pulls the message out of an {"error": "..."} body.
func apiError(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}

// Roster returns active players and all coaches.
func (c *Client) Roster(ctx context.Context) ([]models.Player, []models.Coach, error) {
	var players []models.Player
	if err := c.do(ctx, http.MethodGet, "/api/v1/players", nil, &players); err != nil {
		return nil, nil, err
	}
	var coaches []models.Coach
	if err := c.do(ctx, http.MethodGet, "/api/v1/coaches", nil, &coaches); err != nil {
		return nil, nil, err
	}
	return players, coaches, nil
}

func (c *Client) Curriculum(ctx context.Context, weekNumber int) (models.Week, error) {
	var week models.Week
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/weeks/%d/curriculum", weekNumber), nil, &week)
	return week, err
}

func (c *Client) PreviewPlan(ctx context.Context, req practice.PlanRequest) (models.Plan, error) {
	var plan models.Plan
	err := c.do(ctx, http.MethodPost, "/api/v1/plans/preview", req, &plan)
	return plan, err
}

func (c *Client) StartPractice(ctx context.Context, req practice.PlanRequest) (practice.StartedPractice, error) {
	var started practice.StartedPractice
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions", req, &started)
	return started, err
}

func (c *Client) Session(ctx context.Context, id uuid.UUID) (models.PracticeSession, error) {
	var s models.PracticeSession
	err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+id.String(), nil, &s)
	return s, err
}

// SessionPlan returns the stored agenda of a practice.
func (c *Client) SessionPlan(ctx context.Context, id uuid.UUID) ([]models.Segment, error) {
	var resp struct {
		Segments []models.Segment `json:"segments"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/sessions/"+id.String()+"/plan", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Segments, nil
}

func (c *Client) CompletePractice(ctx context.Context, id uuid.UUID, req practice.CompleteRequest) (models.PracticeSession, error) {
	var s models.PracticeSession
	err := c.do(ctx, http.MethodPost, "/api/v1/sessions/"+id.String()+"/complete", req, &s)
	return s, err
}
