package mcp

import (
	"context"

	"github.com/google/uuid"

	"github.com/diamondplans/diamondplans/internal/client"
	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
)

// DataSource abstracts the practice layer for MCP tools. Both
// *practice.Service (local database) and *client.Client (remote via REST API)
// satisfy this interface.
type DataSource interface {
	Roster(ctx context.Context) ([]models.Player, []models.Coach, error)
	Curriculum(ctx context.Context, weekNumber int) (models.Week, error)
	PreviewPlan(ctx context.Context, req practice.PlanRequest) (models.Plan, error)
	StartPractice(ctx context.Context, req practice.PlanRequest) (practice.StartedPractice, error)
	SessionPlan(ctx context.Context, id uuid.UUID) ([]models.Segment, error)
	CompletePractice(ctx context.Context, id uuid.UUID, req practice.CompleteRequest) (models.PracticeSession, error)
}

var (
	_ DataSource = (*practice.Service)(nil)
	_ DataSource = (*client.Client)(nil)
)
