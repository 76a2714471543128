package session

import (
	"fmt"
	"time"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/timer"
)

// Checkpoint is the runtime state needed to pick a live practice back up
// after the process restarts.
type Checkpoint struct {
	SessionID  string           `json:"session_id"`
	Segments   []models.Segment `json:"segments"`
	Index      int              `json:"index"`
	Status     Status           `json:"status"`
	TimerState string           `json:"timer_state"`
	Duration   time.Duration    `json:"duration"`
	StartedAt  time.Time        `json:"started_at"`
	Remaining  time.Duration    `json:"remaining"`
	SavedAt    time.Time        `json:"saved_at"`
}

// Checkpoint snapshots the session.
func (s *Session) Checkpoint() Checkpoint {
	var segments []models.Segment
	for _, slot := range s.slots {
		segments = append(segments, slot.Segments...)
	}
	return Checkpoint{
		SessionID:  s.id,
		Segments:   segments,
		Index:      s.index,
		Status:     s.status,
		TimerState: s.timer.State().String(),
		Duration:   s.timer.Duration(),
		StartedAt:  s.timer.StartedAt(),
		Remaining:  s.timer.Remaining(),
		SavedAt:    s.clock.Now(),
	}
}

// Restore rebuilds the session from cp. A practice that was running keeps
// counting while nothing was ticking: slots that ran out in the meantime are
// skipped without firing hooks, and the next Tick handles the rest.
func (s *Session) Restore(cp Checkpoint) error {
	slots := models.Timeline(cp.Segments)
	if len(slots) == 0 {
		return fmt.Errorf("checkpoint for %q has no segments", cp.SessionID)
	}
	if cp.Index < 0 || cp.Index >= len(slots) {
		return fmt.Errorf("checkpoint index %d out of range for %d slots", cp.Index, len(slots))
	}
	state, err := parseTimerState(cp.TimerState)
	if err != nil {
		return err
	}
	switch cp.Status {
	case Active, Paused, Completed, NotStarted:
	default:
		return fmt.Errorf("checkpoint status %q is not valid", cp.Status)
	}

	s.id = cp.SessionID
	s.slots = slots
	s.index = cp.Index
	s.status = cp.Status
	s.timer.Restore(cp.Duration, state, cp.StartedAt, cp.Remaining)

	if s.status == Active {
		s.catchUp()
	}
	return nil
}

// catchUp moves past every slot whose time ran out while the session was not
// ticking. Each skipped slot is taken to have started the moment the
// previous one ended.
func (s *Session) catchUp() {
	now := s.clock.Now()
	for s.timer.State() == timer.Running && s.index < len(s.slots)-1 {
		start := s.timer.StartedAt()
		end := start.Add(s.timer.Duration())
		if end.After(now) {
			return
		}
		s.index++
		s.timer.Restore(s.slotDuration(), timer.Running, end, 0)
	}
}

func parseTimerState(name string) (timer.State, error) {
	for _, st := range []timer.State{timer.Idle, timer.Running, timer.Paused, timer.Completed} {
		if st.String() == name {
			return st, nil
		}
	}
	return timer.Idle, fmt.Errorf("unknown timer state %q", name)
}
