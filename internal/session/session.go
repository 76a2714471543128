// Package session runs a practice agenda live: it walks the timeline one slot
// at a time, drives a SegmentTimer for the current slot and advances when the
// timer runs out.
package session

import (
	"time"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/timer"
)

// Status is the lifecycle of a live practice.
type Status string

const (
	NotStarted Status = "not_started"
	Active     Status = "active"
	Paused     Status = "paused"
	Completed  Status = "completed"
)

// Session is owned by a single goroutine. Navigation that makes no sense in
// the current state is ignored.
type Session struct {
	clock timer.Clock
	timer *timer.SegmentTimer

	id     string
	slots  []models.Slot
	index  int
	status Status

	onWarning  func(models.Slot)
	onAdvance  func(int)
	onComplete func()
}

// New returns a session that has not started. A nil clock reads system time.
func New(clock timer.Clock) *Session {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	s := &Session{
		clock:  clock,
		timer:  timer.New(clock),
		status: NotStarted,
	}
	s.timer.OnWarning(s.warned)
	s.timer.OnComplete(s.expired)
	return s
}

// OnWarning registers a callback fired when the current slot enters its last
// 30 seconds.
func (s *Session) OnWarning(fn func(models.Slot)) { s.onWarning = fn }

// OnAdvance registers a callback fired with the new slot index whenever the
// session moves to another slot.
func (s *Session) OnAdvance(fn func(index int)) { s.onAdvance = fn }

// OnComplete registers a callback fired once when the practice ends.
func (s *Session) OnComplete(fn func()) { s.onComplete = fn }

// Start begins the practice at the first slot. An empty agenda is ignored.
func (s *Session) Start(id string, agenda []models.Segment) {
	slots := models.Timeline(agenda)
	if len(slots) == 0 {
		return
	}
	s.id = id
	s.slots = slots
	s.index = 0
	s.status = Active
	s.timer.Reset()
	s.timer.Start(s.slotDuration())
}

// Next moves to the following slot and restarts the clock. It does nothing on
// the last slot or when no practice is running.
func (s *Session) Next() {
	if !s.running() || s.index >= len(s.slots)-1 {
		return
	}
	s.moveTo(s.index + 1)
}

// Prev moves back one slot and restarts the clock.
func (s *Session) Prev() {
	if !s.running() || s.index == 0 {
		return
	}
	s.moveTo(s.index - 1)
}

func (s *Session) moveTo(index int) {
	s.index = index
	s.status = Active
	s.timer.Reset()
	s.timer.Start(s.slotDuration())
	if s.onAdvance != nil {
		s.onAdvance(index)
	}
}

// Pause freezes the current slot's clock.
func (s *Session) Pause() {
	if s.status != Active {
		return
	}
	s.timer.Pause()
	s.status = Paused
}

// Resume continues a paused practice.
func (s *Session) Resume() {
	if s.status != Paused {
		return
	}
	s.timer.Resume()
	s.status = Active
}

// Complete ends the practice regardless of position.
func (s *Session) Complete() {
	if !s.running() {
		return
	}
	s.timer.Reset()
	s.finish()
}

func (s *Session) finish() {
	s.status = Completed
	if s.onComplete != nil {
		s.onComplete()
	}
}

// Tick advances the clock and returns the time left in the current slot.
// Hooks fire from inside Tick.
func (s *Session) Tick() time.Duration {
	if s.status != Active {
		return s.timer.Remaining()
	}
	s.timer.Tick()
	return s.timer.Remaining()
}

func (s *Session) warned() {
	if s.onWarning != nil {
		s.onWarning(s.slots[s.index])
	}
}

func (s *Session) expired() {
	if s.index < len(s.slots)-1 {
		s.moveTo(s.index + 1)
		return
	}
	s.finish()
}

func (s *Session) running() bool {
	return s.status == Active || s.status == Paused
}

func (s *Session) slotDuration() time.Duration {
	return time.Duration(s.slots[s.index].DurationMinutes) * time.Minute
}

// ID returns the practice id given to Start.
func (s *Session) ID() string { return s.id }

// Status returns the lifecycle state.
func (s *Session) Status() Status { return s.status }

// Index returns the current slot index.
func (s *Session) Index() int { return s.index }

// TotalSegments returns the number of slots in the practice.
func (s *Session) TotalSegments() int { return len(s.slots) }

// Slots returns the timeline being walked.
func (s *Session) Slots() []models.Slot { return s.slots }

// Current returns the slot being run.
func (s *Session) Current() (models.Slot, bool) {
	if len(s.slots) == 0 {
		return models.Slot{}, false
	}
	return s.slots[s.index], true
}

// CurrentStations returns the station segments running in parallel right now,
// or nil when the whole team is together.
func (s *Session) CurrentStations() []models.Segment {
	slot, ok := s.Current()
	if !ok || slot.Lead().Type != models.SegmentStation {
		return nil
	}
	return slot.Segments
}

// NextPreview returns the slot after the current one.
func (s *Session) NextPreview() (models.Slot, bool) {
	if s.index+1 >= len(s.slots) {
		return models.Slot{}, false
	}
	return s.slots[s.index+1], true
}

// Remaining returns the time left in the current slot.
func (s *Session) Remaining() time.Duration {
	if s.status == Completed || s.status == NotStarted {
		return 0
	}
	return s.timer.Remaining()
}

// Progress returns how far through the current slot the clock is, as a
// percentage in [0, 100].
func (s *Session) Progress() float64 {
	switch s.status {
	case NotStarted:
		return 0
	case Completed:
		return 100
	}
	d := s.timer.Duration()
	if d <= 0 {
		return 100
	}
	elapsed := d - s.timer.Remaining()
	return min(100, max(0, float64(elapsed)/float64(d)*100))
}

// FormattedTime renders Remaining as M:SS.
func (s *Session) FormattedTime() string {
	return timer.Format(s.Remaining())
}

// IsWarning reports whether the current slot is in its last 30 seconds.
func (s *Session) IsWarning() bool {
	return s.running() && timer.IsWarning(s.Remaining())
}

// IsTimerComplete reports whether the current slot's clock has run out.
func (s *Session) IsTimerComplete() bool {
	return s.status != NotStarted && timer.IsComplete(s.timer.Remaining())
}
