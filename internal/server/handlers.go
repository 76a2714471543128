package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
)

// SessionPlan is the stored agenda of a practice, with the timeline view the
// live screen walks.
type SessionPlan struct {
	SessionID uuid.UUID        `json:"session_id"`
	Segments  []models.Segment `json:"segments"`
	Timeline  []models.Slot    `json:"timeline"`
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userInfoFromContext(r))
}

func (s *Server) handlePlayers(w http.ResponseWriter, r *http.Request) {
	players, _, err := s.practices.Roster(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(players))
}

func (s *Server) handleCoaches(w http.ResponseWriter, r *http.Request) {
	_, coaches, err := s.practices.Roster(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(coaches))
}

func (s *Server) handleCurriculum(w http.ResponseWriter, r *http.Request) {
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week must be a positive number"})
		return
	}
	curriculum, err := s.practices.Curriculum(r.Context(), week)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, curriculum)
}

func (s *Server) handlePreviewPlan(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}
	plan, err := s.practices.PreviewPlan(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleStartPractice(w http.ResponseWriter, r *http.Request) {
	req, ok := decodePlanRequest(w, r)
	if !ok {
		return
	}
	started, err := s.practices.StartPractice(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("practice started via api",
		"session", started.Session.ID,
		"by", userInfoFromContext(r).Login,
	)
	writeJSON(w, http.StatusCreated, started)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	session, err := s.practices.Session(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleSessionPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	segments, err := s.practices.SessionPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionPlan{
		SessionID: id,
		Segments:  segments,
		Timeline:  models.Timeline(segments),
	})
}

func (s *Server) handleCompletePractice(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req practice.CompleteRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}
	session, err := s.practices.CompletePractice(r.Context(), id, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("practice completed via api", "session", id, "by", userInfoFromContext(r).Login)
	writeJSON(w, http.StatusOK, session)
}

func decodePlanRequest(w http.ResponseWriter, r *http.Request) (practice.PlanRequest, bool) {
	var req practice.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return req, false
	}
	if req.WeekNumber < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "week_number must be a positive number"})
		return req, false
	}
	return req, true
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps application errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, practice.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, practice.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
