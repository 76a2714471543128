package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
)

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02", s)
	if err == nil {
		return t, nil
	}
	return time.Time{}, err
}

// --- Tool definitions ---

var toolListRoster = mcp.NewTool("list_roster",
	mcp.WithDescription("List active players with their skill level (advanced/beginner) and all coaches with their role (head_coach/assistant_coach)."),
)

var toolGetWeekCurriculum = mcp.NewTool("get_week_curriculum",
	mcp.WithDescription("Get the theme, focus skills and drills scheduled for a curriculum week."),
	mcp.WithNumber("week_number", mcp.Required(), mcp.Description("Curriculum week, starting at 1")),
)

var planParams = []mcp.ToolOption{
	mcp.WithNumber("week_number", mcp.Required(), mcp.Description("Curriculum week, starting at 1")),
	mcp.WithArray("player_ids", mcp.WithStringItems(), mcp.Description("Ids of players present. Defaults to every active player.")),
	mcp.WithArray("coach_ids", mcp.WithStringItems(), mcp.Description("Ids of coaches present. Defaults to every coach.")),
	mcp.WithArray("focus", mcp.WithStringItems(), mcp.Description("Drill categories to favour (warmup, hitting, fielding, throwing, baserunning, game_play, cooldown)")),
}

var toolGeneratePracticePlan = mcp.NewTool("generate_practice_plan",
	append([]mcp.ToolOption{
		mcp.WithDescription("Preview a 60-minute practice plan for the given attendance without recording it. With two or more coaches and four or more players the plan rotates player groups through skill stations."),
	}, planParams...)...,
)

var toolStartPractice = mcp.NewTool("start_practice",
	append([]mcp.ToolOption{
		mcp.WithDescription("Record a practice with its attendance and generated plan. Returns the new session id and the plan."),
		mcp.WithString("date", mcp.Description("Practice date (YYYY-MM-DD). Defaults to today.")),
	}, planParams...)...,
)

var toolGetSessionPlan = mcp.NewTool("get_session_plan",
	mcp.WithDescription("Get the stored plan of a recorded practice, segment by segment with coaches, players and drills."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Practice session id (UUID)")),
)

var toolCompletePractice = mcp.NewTool("complete_practice",
	mcp.WithDescription("Mark a recorded practice as completed with optional notes."),
	mcp.WithString("session_id", mcp.Required(), mcp.Description("Practice session id (UUID)")),
	mcp.WithString("notes", mcp.Description("How the practice went")),
)

// --- Tool handlers ---

func (h *handlers) listRoster(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	players, coaches, err := h.ds.Roster(ctx)
	if err != nil {
		h.log.Error("mcp list_roster", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"players": players,
		"coaches": coaches,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWeekCurriculum(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	week, err := req.RequireInt("week_number")
	if err != nil || week < 1 {
		return mcp.NewToolResultError("week_number must be a positive number"), nil
	}

	curriculum, err := h.ds.Curriculum(ctx, week)
	if err != nil {
		if errors.Is(err, practice.ErrNotFound) {
			return mcp.NewToolResultError("no curriculum for that week"), nil
		}
		h.log.Error("mcp get_week_curriculum", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(curriculum)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// planRequest reads the attendance arguments shared by the plan tools. The
// returned string is a user-facing error when non-empty.
func (h *handlers) planRequest(ctx context.Context, req mcp.CallToolRequest) (practice.PlanRequest, string) {
	week, err := req.RequireInt("week_number")
	if err != nil || week < 1 {
		return practice.PlanRequest{}, "week_number must be a positive number"
	}

	pr := practice.PlanRequest{
		WeekNumber:       week,
		PresentPlayerIDs: req.GetStringSlice("player_ids", nil),
		PresentCoachIDs:  req.GetStringSlice("coach_ids", nil),
	}
	for _, f := range req.GetStringSlice("focus", nil) {
		pr.FocusOverrides = append(pr.FocusOverrides, models.DrillCategory(f))
	}

	if pr.PresentPlayerIDs == nil || pr.PresentCoachIDs == nil {
		players, coaches, err := h.ds.Roster(ctx)
		if err != nil {
			h.log.Error("mcp roster for plan", "error", err)
			return pr, "query failed: " + err.Error()
		}
		if pr.PresentPlayerIDs == nil {
			pr.PresentPlayerIDs = models.PlayerIDs(players)
		}
		if pr.PresentCoachIDs == nil {
			pr.PresentCoachIDs = models.CoachIDs(coaches)
		}
	}
	return pr, ""
}

func (h *handlers) generatePracticePlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pr, problem := h.planRequest(ctx, req)
	if problem != "" {
		return mcp.NewToolResultError(problem), nil
	}

	plan, err := h.ds.PreviewPlan(ctx, pr)
	if err != nil {
		return h.planError("generate_practice_plan", err), nil
	}

	result, err := mcp.NewToolResultJSON(plan)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) startPractice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pr, problem := h.planRequest(ctx, req)
	if problem != "" {
		return mcp.NewToolResultError(problem), nil
	}
	if dateStr := req.GetString("date", ""); dateStr != "" {
		date, err := parseFlexTime(dateStr)
		if err != nil {
			return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
		}
		pr.Date = date
	}

	started, err := h.ds.StartPractice(ctx, pr)
	if err != nil {
		return h.planError("start_practice", err), nil
	}

	result, err := mcp.NewToolResultJSON(started)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionPlan(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, problem := sessionID(req)
	if problem != "" {
		return mcp.NewToolResultError(problem), nil
	}

	segments, err := h.ds.SessionPlan(ctx, id)
	if err != nil {
		if errors.Is(err, practice.ErrNotFound) {
			return mcp.NewToolResultError("no plan stored for that session"), nil
		}
		h.log.Error("mcp get_session_plan", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"session_id": id,
		"segments":   segments,
		"timeline":   models.Timeline(segments),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) completePractice(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, problem := sessionID(req)
	if problem != "" {
		return mcp.NewToolResultError(problem), nil
	}

	var cr practice.CompleteRequest
	if notes := req.GetString("notes", ""); notes != "" {
		cr.Notes = &notes
	}

	session, err := h.ds.CompletePractice(ctx, id, cr)
	if err != nil {
		if errors.Is(err, practice.ErrNotFound) {
			return mcp.NewToolResultError("no such session"), nil
		}
		h.log.Error("mcp complete_practice", "error", err)
		return mcp.NewToolResultError("update failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func sessionID(req mcp.CallToolRequest) (uuid.UUID, string) {
	raw, err := req.RequireString("session_id")
	if err != nil {
		return uuid.Nil, "session_id parameter is required"
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "session_id must be a UUID"
	}
	return id, ""
}

func (h *handlers) planError(tool string, err error) *mcp.CallToolResult {
	if errors.Is(err, practice.ErrInvalid) {
		return mcp.NewToolResultError(err.Error())
	}
	h.log.Error("mcp "+tool, "error", err)
	return mcp.NewToolResultError("plan failed: " + err.Error())
}
