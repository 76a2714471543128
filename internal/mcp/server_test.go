package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
)

type fakeSource struct {
	lastPlan  practice.PlanRequest
	completed *string
	plans     map[uuid.UUID][]models.Segment
}

func (f *fakeSource) Roster(context.Context) ([]models.Player, []models.Coach, error) {
	return []models.Player{{ID: "p1"}, {ID: "p2"}, {ID: "p3"}},
		[]models.Coach{{ID: "c1", Role: models.RoleHead}}, nil
}

func (f *fakeSource) Curriculum(_ context.Context, week int) (models.Week, error) {
	if week != 1 {
		return models.Week{}, fmt.Errorf("week %d: %w", week, practice.ErrNotFound)
	}
	return models.Week{WeeklyPlan: models.WeeklyPlan{WeekNumber: 1, Theme: "Glove work"}}, nil
}

func (f *fakeSource) PreviewPlan(_ context.Context, req practice.PlanRequest) (models.Plan, error) {
	f.lastPlan = req
	for _, c := range req.FocusOverrides {
		if !models.ValidCategory(c) {
			return models.Plan{}, fmt.Errorf("%w: unknown focus category %q", practice.ErrInvalid, c)
		}
	}
	return models.Plan{Format: models.FormatSolo}, nil
}

func (f *fakeSource) StartPractice(ctx context.Context, req practice.PlanRequest) (practice.StartedPractice, error) {
	plan, err := f.PreviewPlan(ctx, req)
	if err != nil {
		return practice.StartedPractice{}, err
	}
	return practice.StartedPractice{
		Session: models.PracticeSession{ID: uuid.New(), WeekNumber: req.WeekNumber, Date: req.Date},
		Plan:    plan,
	}, nil
}

func (f *fakeSource) SessionPlan(_ context.Context, id uuid.UUID) ([]models.Segment, error) {
	segs, ok := f.plans[id]
	if !ok {
		return nil, practice.ErrNotFound
	}
	return segs, nil
}

func (f *fakeSource) CompletePractice(_ context.Context, id uuid.UUID, req practice.CompleteRequest) (models.PracticeSession, error) {
	f.completed = req.Notes
	return models.PracticeSession{ID: id, Status: models.StatusCompleted, Notes: req.Notes}, nil
}

func newHandlers(f *fakeSource) *handlers {
	return &handlers{ds: f, log: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return text.Text
}

// TestNewRegistersTools verifies the server builds with every tool wired.
func TestNewRegistersTools(t *testing.T) {
	s := New(&fakeSource{}, "test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	if s == nil {
		t.Fatal("New returned nil")
	}
	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"list_roster", "get_week_curriculum", "generate_practice_plan", "start_practice", "get_session_plan", "complete_practice"} {
		if !strings.Contains(string(raw), `"name":"`+name+`"`) {
			t.Errorf("tool %s not listed in %s", name, raw)
		}
	}
}

// TestGeneratePlanDefaultsToRoster verifies omitted attendance means
// everyone on the roster is present.
func TestGeneratePlanDefaultsToRoster(t *testing.T) {
	f := &fakeSource{}
	res, err := newHandlers(f).generatePracticePlan(context.Background(), call(map[string]any{
		"week_number": float64(2),
		"coach_ids":   []any{"c9"},
		"focus":       []any{"hitting"},
	}))
	if err != nil {
		t.Fatal(err)
	}
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if f.lastPlan.WeekNumber != 2 {
		t.Errorf("week = %d, want 2", f.lastPlan.WeekNumber)
	}
	if got := strings.Join(f.lastPlan.PresentPlayerIDs, ","); got != "p1,p2,p3" {
		t.Errorf("players = %s, want whole roster", got)
	}
	if got := strings.Join(f.lastPlan.PresentCoachIDs, ","); got != "c9" {
		t.Errorf("coaches = %s, want c9", got)
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(resultText(t, res)), &plan); err != nil {
		t.Fatalf("decode plan: %v", err)
	}
	if plan.Format != models.FormatSolo {
		t.Errorf("format = %q", plan.Format)
	}
}

func TestPlanToolErrors(t *testing.T) {
	h := newHandlers(&fakeSource{})
	ctx := context.Background()
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing week", map[string]any{}, "week_number"},
		{"zero week", map[string]any{"week_number": float64(0)}, "week_number"},
		{"bad focus", map[string]any{"week_number": float64(1), "focus": []any{"bunting"}}, "unknown focus category"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := h.generatePracticePlan(ctx, call(tt.args))
			if err != nil {
				t.Fatal(err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
			if got := resultText(t, res); !strings.Contains(got, tt.want) {
				t.Errorf("error = %q, want it to mention %q", got, tt.want)
			}
		})
	}
}

func TestStartPracticeDate(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, err := h.startPractice(context.Background(), call(map[string]any{
		"week_number": float64(1),
		"date":        "2026-04-11",
	}))
	if err != nil {
		t.Fatal(err)
	}
	var started practice.StartedPractice
	if err := json.Unmarshal([]byte(resultText(t, res)), &started); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := started.Session.Date.Format("2006-01-02"); got != "2026-04-11" {
		t.Errorf("date = %s", got)
	}

	res, _ = h.startPractice(context.Background(), call(map[string]any{"week_number": float64(1), "date": "April"}))
	if !res.IsError {
		t.Error("expected error for bad date")
	}
}

func TestWeekCurriculum(t *testing.T) {
	h := newHandlers(&fakeSource{})
	res, _ := h.getWeekCurriculum(context.Background(), call(map[string]any{"week_number": float64(1)}))
	if res.IsError || !strings.Contains(resultText(t, res), "Glove work") {
		t.Errorf("week 1 result = %s", resultText(t, res))
	}
	res, _ = h.getWeekCurriculum(context.Background(), call(map[string]any{"week_number": float64(5)}))
	if !res.IsError {
		t.Error("expected error for unknown week")
	}
}

// TestSessionPlanTimeline verifies stored segments come back with the
// timeline grouping.
func TestSessionPlanTimeline(t *testing.T) {
	id := uuid.New()
	f := &fakeSource{plans: map[uuid.UUID][]models.Segment{id: {
		{Order: 0, Type: models.SegmentWarmup, Drill: models.NoDrill{}, Name: "Warmup", DurationMinutes: 60},
	}}}
	h := newHandlers(f)

	res, _ := h.getSessionPlan(context.Background(), call(map[string]any{"session_id": id.String()}))
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	var out struct {
		Timeline []models.Slot `json:"timeline"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Timeline) != 1 || out.Timeline[0].DurationMinutes != 60 {
		t.Errorf("timeline = %+v", out.Timeline)
	}

	for _, raw := range []string{"nope", uuid.NewString()} {
		res, _ := h.getSessionPlan(context.Background(), call(map[string]any{"session_id": raw}))
		if !res.IsError {
			t.Errorf("session %s: expected error", raw)
		}
	}
}

func TestCompletePracticeNotes(t *testing.T) {
	f := &fakeSource{}
	res, _ := newHandlers(f).completePractice(context.Background(), call(map[string]any{
		"session_id": uuid.NewString(),
		"notes":      "great energy",
	}))
	if res.IsError {
		t.Fatalf("tool error: %s", resultText(t, res))
	}
	if f.completed == nil || *f.completed != "great energy" {
		t.Errorf("notes = %v", f.completed)
	}
}

func TestRosterResource(t *testing.T) {
	var req mcp.ReadResourceRequest
	req.Params.URI = "diamondplans://roster"
	contents, err := newHandlers(&fakeSource{}).roster(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	var roster struct {
		Players []models.Player `json:"players"`
		Coaches []models.Coach  `json:"coaches"`
	}
	if err := json.Unmarshal([]byte(text.Text), &roster); err != nil {
		t.Fatal(err)
	}
	if len(roster.Players) != 3 || len(roster.Coaches) != 1 {
		t.Errorf("roster = %+v", roster)
	}
}
