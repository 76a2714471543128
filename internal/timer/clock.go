// Package timer implements the wall-clock segment countdown used during a
// live practice. Remaining time is always derived from absolute timestamps,
// never accumulated per tick, so a tick that arrives late (sleeping device,
// backgrounded terminal) reports the true remaining time.
package timer

import (
	"fmt"
	"time"
)

// WarningThreshold is the remaining time at which a segment enters the
// warning zone.
const WarningThreshold = 30 * time.Second

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

// Now returns the current local time.
func (SystemClock) Now() time.Time { return time.Now() }

// Remaining returns how much of duration is left after start, clamped to 0.
func Remaining(now, start time.Time, duration time.Duration) time.Duration {
	left := duration - now.Sub(start)
	if left < 0 {
		return 0
	}
	return left
}

// Format renders d as M:SS, rounding up to the next whole second so that
// 90.5s reads "1:31" and the display only shows 0:00 once time is up.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int64((d + time.Second - 1) / time.Second)
	return fmt.Sprintf("%d:%02d", totalSeconds/60, totalSeconds%60)
}

// IsWarning reports whether d is inside the warning zone (0, 30s].
func IsWarning(d time.Duration) bool {
	return d > 0 && d <= WarningThreshold
}

// IsComplete reports whether no time remains.
func IsComplete(d time.Duration) bool {
	return d <= 0
}
