package timer

import "time"

// State is the lifecycle of a SegmentTimer.
type State int

const (
	Idle State = iota
	Running
	Paused
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// SegmentTimer counts one segment down. It has no goroutine of its own: the
// host calls Tick as often as it redraws, and Tick fires the one-shot warning
// and completion callbacks synchronously.
//
// Misuse (Pause while not running, Resume while not paused, Start while a
// countdown is in progress) is ignored.
type SegmentTimer struct {
	clock Clock
	state State

	duration  time.Duration
	startedAt time.Time // virtual start; shifted forward on resume
	paused    time.Duration

	warnFired     bool
	completeFired bool

	onWarning  func()
	onComplete func()
}

// New creates an idle timer reading time from clock.
func New(clock Clock) *SegmentTimer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &SegmentTimer{clock: clock}
}

// OnWarning registers the callback fired once per Start when the remaining
// time first enters the warning zone.
func (t *SegmentTimer) OnWarning(fn func()) { t.onWarning = fn }

// OnComplete registers the callback fired once per Start when time runs out.
func (t *SegmentTimer) OnComplete(fn func()) { t.onComplete = fn }

// Start begins a countdown of d.
func (t *SegmentTimer) Start(d time.Duration) {
	if t.state == Running || t.state == Paused {
		return
	}
	t.duration = d
	t.startedAt = t.clock.Now()
	t.paused = d
	t.warnFired = false
	t.completeFired = false
	t.state = Running
}

// Pause freezes the countdown.
func (t *SegmentTimer) Pause() {
	if t.state != Running {
		return
	}
	t.paused = Remaining(t.clock.Now(), t.startedAt, t.duration)
	t.state = Paused
}

// Resume continues a paused countdown from where it stopped.
func (t *SegmentTimer) Resume() {
	if t.state != Paused {
		return
	}
	t.startedAt = t.clock.Now().Add(-(t.duration - t.paused))
	t.state = Running
}

// Reset stops the countdown and restores the full duration. It does not
// restart.
func (t *SegmentTimer) Reset() {
	t.paused = t.duration
	t.warnFired = false
	t.completeFired = false
	t.state = Idle
}

// Restore rebuilds a timer from a checkpoint. A running timer keeps its
// original virtual start so time that passed while nothing was ticking
// still counts; a paused timer keeps its frozen remainder.
func (t *SegmentTimer) Restore(d time.Duration, state State, startedAt time.Time, remaining time.Duration) {
	t.duration = d
	t.startedAt = startedAt
	t.paused = remaining
	t.state = state
	t.warnFired = state == Completed || (state == Paused && remaining <= WarningThreshold)
	t.completeFired = state == Completed
	if state == Idle {
		t.paused = d
	}
}

// Tick recomputes the remaining time from the clock and fires any pending
// callbacks. It returns the remaining time.
func (t *SegmentTimer) Tick() time.Duration {
	if t.state != Running {
		return t.Remaining()
	}
	remaining := Remaining(t.clock.Now(), t.startedAt, t.duration)

	if !t.warnFired && IsWarning(remaining) {
		t.warnFired = true
		if t.onWarning != nil {
			t.onWarning()
		}
	}

	if !t.completeFired && IsComplete(remaining) {
		t.completeFired = true
		t.state = Completed
		t.paused = 0
		// The callback may restart this timer for the next segment.
		if t.onComplete != nil {
			t.onComplete()
		}
	}
	return remaining
}

// Remaining reports the time left without firing callbacks.
func (t *SegmentTimer) Remaining() time.Duration {
	switch t.state {
	case Running:
		return Remaining(t.clock.Now(), t.startedAt, t.duration)
	case Paused:
		return t.paused
	case Completed:
		return 0
	}
	return t.duration
}

// State returns the current timer state.
func (t *SegmentTimer) State() State { return t.state }

// Duration returns the length of the current countdown.
func (t *SegmentTimer) Duration() time.Duration { return t.duration }

// StartedAt returns the virtual start time of the countdown.
func (t *SegmentTimer) StartedAt() time.Time { return t.startedAt }
