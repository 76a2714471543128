package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
)

// Practices is the application layer the HTTP handlers call into.
// practice.Service implements it.
type Practices interface {
	Roster(ctx context.Context) ([]models.Player, []models.Coach, error)
	Curriculum(ctx context.Context, weekNumber int) (models.Week, error)
	PreviewPlan(ctx context.Context, req practice.PlanRequest) (models.Plan, error)
	StartPractice(ctx context.Context, req practice.PlanRequest) (practice.StartedPractice, error)
	Session(ctx context.Context, id uuid.UUID) (models.PracticeSession, error)
	SessionPlan(ctx context.Context, id uuid.UUID) ([]models.Segment, error)
	CompletePractice(ctx context.Context, id uuid.UUID, req practice.CompleteRequest) (models.PracticeSession, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	practices Practices
	log       *slog.Logger
	apiKey    string
	whois     WhoIser
	router    chi.Router
}

// New creates a new Server with all routes configured.
func New(practices Practices, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		practices: practices,
		log:       log,
		apiKey:    apiKey,
		router:    chi.NewRouter(),
	}
	s.routes()
	return s
}

// SetTailscale resolves caller identities through the tailnet. Without it
// every caller is the local user.
func (s *Server) SetTailscale(w WhoIser) {
	s.whois = w
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(s.identity)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/me", s.handleMe)
		r.Get("/players", s.handlePlayers)
		r.Get("/coaches", s.handleCoaches)
		r.Get("/weeks/{week}/curriculum", s.handleCurriculum)
		r.Post("/plans/preview", s.handlePreviewPlan)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/sessions/{id}/plan", s.handleSessionPlan)

		// Writes need the API key.
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/sessions", s.handleStartPractice)
			r.Post("/sessions/{id}/complete", s.handleCompletePractice)
		})
	})
}
