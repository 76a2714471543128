// Package practice is the application layer: it gathers attendance and the
// week's curriculum from storage, runs the planner and records practices.
package practice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/planner"
)

var (
	// ErrNotFound is returned when a week, session or plan does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps request validation failures.
	ErrInvalid = errors.New("invalid request")
)

// Store is the persistence the service needs.
type Store interface {
	ListPlayers(ctx context.Context) ([]models.Player, error)
	ListCoaches(ctx context.Context) ([]models.Coach, error)
	PlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error)
	CoachesByIDs(ctx context.Context, ids []string) ([]models.Coach, error)
	Week(ctx context.Context, weekNumber int) (models.Week, error)
	RecentDrillIDs(ctx context.Context, practices int) ([]string, error)

	CreateSession(ctx context.Context, s models.PracticeSession) error
	GetSession(ctx context.Context, id uuid.UUID) (models.PracticeSession, error)
	SetSessionStatus(ctx context.Context, id uuid.UUID, status models.SessionStatus) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
	CompleteSession(ctx context.Context, id uuid.UUID, notes *string, at time.Time, feedback []models.DrillFeedback) (models.PracticeSession, error)
	SavePlan(ctx context.Context, sessionID uuid.UUID, segments []models.Segment) error
	LoadPlan(ctx context.Context, sessionID uuid.UUID) ([]models.Segment, error)
}

// PlanRequest names who showed up and which week is being run.
type PlanRequest struct {
	WeekNumber       int                    `json:"week_number"`
	PresentPlayerIDs []string               `json:"present_player_ids"`
	PresentCoachIDs  []string               `json:"present_coach_ids"`
	FocusOverrides   []models.DrillCategory `json:"focus_overrides,omitempty"`
	// Date defaults to today when zero.
	Date time.Time `json:"date,omitzero"`
}

// StartedPractice is a newly recorded practice and its agenda.
type StartedPractice struct {
	Session models.PracticeSession `json:"session"`
	Plan    models.Plan            `json:"plan"`
}

// CompleteRequest closes out a practice.
type CompleteRequest struct {
	Notes    *string         `json:"notes"`
	Feedback []DrillFeedback `json:"drill_feedback"`
}

// DrillFeedback is a coach's rating of one drill.
type DrillFeedback struct {
	DrillID string  `json:"drill_id"`
	Rating  *int    `json:"rating"`
	Notes   *string `json:"notes"`
}

// Service runs plan generation against a Store.
type Service struct {
	store    Store
	composer *planner.Composer
	log      *slog.Logger
	now      func() time.Time

	recentPractices int
}

// NewService creates a Service. recentPractices is how many completed
// practices count as recent when avoiding repeated drills.
func NewService(store Store, composer *planner.Composer, recentPractices int, log *slog.Logger) *Service {
	return &Service{
		store:           store,
		composer:        composer,
		log:             log,
		now:             time.Now,
		recentPractices: recentPractices,
	}
}

// PreviewPlan generates a plan without recording anything.
func (s *Service) PreviewPlan(ctx context.Context, req PlanRequest) (models.Plan, error) {
	plan, _, err := s.generate(ctx, req)
	return plan, err
}

func (s *Service) generate(ctx context.Context, req PlanRequest) (models.Plan, models.PlanInput, error) {
	in, err := s.planInput(ctx, req)
	if err != nil {
		return models.Plan{}, models.PlanInput{}, err
	}
	plan := s.composer.Generate(in)
	s.log.Info("plan generated",
		"week", req.WeekNumber,
		"format", plan.Format,
		"players", len(in.PresentPlayers),
		"coaches", len(in.PresentCoaches),
		"segments", len(plan.Segments),
	)
	return plan, in, nil
}

func (s *Service) planInput(ctx context.Context, req PlanRequest) (models.PlanInput, error) {
	for _, c := range req.FocusOverrides {
		if !models.ValidCategory(c) {
			return models.PlanInput{}, fmt.Errorf("%w: unknown focus category %q", ErrInvalid, c)
		}
	}

	players, err := s.store.PlayersByIDs(ctx, req.PresentPlayerIDs)
	if err != nil {
		return models.PlanInput{}, fmt.Errorf("fetching players: %w", err)
	}
	coaches, err := s.store.CoachesByIDs(ctx, req.PresentCoachIDs)
	if err != nil {
		return models.PlanInput{}, fmt.Errorf("fetching coaches: %w", err)
	}

	week, err := s.store.Week(ctx, req.WeekNumber)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Warn("no curriculum for week, using placeholders", "week", req.WeekNumber)
	case err != nil:
		return models.PlanInput{}, fmt.Errorf("fetching curriculum: %w", err)
	}

	recent, err := s.store.RecentDrillIDs(ctx, s.recentPractices)
	if err != nil {
		return models.PlanInput{}, fmt.Errorf("fetching recent drills: %w", err)
	}

	return models.PlanInput{
		WeekNumber:     req.WeekNumber,
		PresentPlayers: players,
		PresentCoaches: coaches,
		Curriculum:     week.Entries,
		FocusOverrides: req.FocusOverrides,
		RecentDrillIDs: recent,
	}, nil
}

// StartPractice records a practice with the attendance the planner used,
// stores its agenda and marks it active. The session sits in planning until
// the agenda is stored and is removed again if that fails. Attendance that
// cannot run a practice is rejected with ErrInvalid.
func (s *Service) StartPractice(ctx context.Context, req PlanRequest) (StartedPractice, error) {
	plan, in, err := s.generate(ctx, req)
	if err != nil {
		return StartedPractice{}, err
	}
	if plan.Format == models.FormatUnavailable {
		return StartedPractice{}, fmt.Errorf("%w: %s", ErrInvalid, plan.Problem)
	}

	now := s.now()
	date := req.Date
	if date.IsZero() {
		date = now
	}
	session := models.PracticeSession{
		ID:         uuid.New(),
		WeekNumber: req.WeekNumber,
		Date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Status:     models.StatusPlanning,
		CreatedAt:  now,
		PlayerIDs:  nonNil(models.PlayerIDs(in.PresentPlayers)),
		CoachIDs:   nonNil(models.CoachIDs(in.PresentCoaches)),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return StartedPractice{}, fmt.Errorf("creating session: %w", err)
	}
	if err := s.store.SavePlan(ctx, session.ID, plan.Segments); err != nil {
		s.discard(ctx, session.ID)
		return StartedPractice{}, fmt.Errorf("saving plan: %w", err)
	}
	if err := s.store.SetSessionStatus(ctx, session.ID, models.StatusActive); err != nil {
		s.discard(ctx, session.ID)
		return StartedPractice{}, fmt.Errorf("activating session: %w", err)
	}
	session.Status = models.StatusActive

	s.log.Info("practice started", "session", session.ID, "week", session.WeekNumber, "format", plan.Format)
	return StartedPractice{Session: session, Plan: plan}, nil
}

// discard removes a half-started practice. It runs even if ctx was
// cancelled.
func (s *Service) discard(ctx context.Context, id uuid.UUID) {
	if err := s.store.DeleteSession(context.WithoutCancel(ctx), id); err != nil {
		s.log.Error("failed to remove unfinished session", "session", id, "error", err)
	}
}

// Session returns a stored practice.
func (s *Service) Session(ctx context.Context, id uuid.UUID) (models.PracticeSession, error) {
	return s.store.GetSession(ctx, id)
}

// SessionPlan returns the stored agenda of a practice. A practice with no
// stored agenda reports ErrNotFound.
func (s *Service) SessionPlan(ctx context.Context, id uuid.UUID) ([]models.Segment, error) {
	if _, err := s.store.GetSession(ctx, id); err != nil {
		return nil, err
	}
	segments, err := s.store.LoadPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading plan: %w", err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("plan for session %s: %w", id, ErrNotFound)
	}
	return segments, nil
}

// CompletePractice marks a practice completed with optional notes and
// per-drill ratings from 1 to 5.
func (s *Service) CompletePractice(ctx context.Context, id uuid.UUID, req CompleteRequest) (models.PracticeSession, error) {
	now := s.now()
	feedback := make([]models.DrillFeedback, 0, len(req.Feedback))
	for _, fb := range req.Feedback {
		if fb.DrillID == "" {
			return models.PracticeSession{}, fmt.Errorf("%w: drill feedback needs a drill_id", ErrInvalid)
		}
		if fb.Rating != nil && (*fb.Rating < 1 || *fb.Rating > 5) {
			return models.PracticeSession{}, fmt.Errorf("%w: rating for %s must be between 1 and 5", ErrInvalid, fb.DrillID)
		}
		feedback = append(feedback, models.DrillFeedback{
			ID:        uuid.New(),
			SessionID: id,
			DrillID:   fb.DrillID,
			Rating:    fb.Rating,
			Notes:     fb.Notes,
			CreatedAt: now,
		})
	}

	session, err := s.store.CompleteSession(ctx, id, req.Notes, now, feedback)
	if err != nil {
		return models.PracticeSession{}, err
	}
	s.log.Info("practice completed", "session", id, "feedback", len(feedback))
	return session, nil
}

// Roster returns active players and all coaches.
func (s *Service) Roster(ctx context.Context) ([]models.Player, []models.Coach, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing players: %w", err)
	}
	coaches, err := s.store.ListCoaches(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing coaches: %w", err)
	}
	return players, coaches, nil
}

// Curriculum returns a week's theme and drills.
func (s *Service) Curriculum(ctx context.Context, weekNumber int) (models.Week, error) {
	return s.store.Week(ctx, weekNumber)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
