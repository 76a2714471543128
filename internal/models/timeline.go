package models

import "fmt"

// Slot is one step of the practice clock: either a single segment or the
// parallel station segments of one rotation.
type Slot struct {
	StartOffsetMinutes int       `json:"start_offset_minutes"`
	DurationMinutes    int       `json:"duration_minutes"`
	Segments           []Segment `json:"segments"`
}

// Lead is the first segment of the slot.
func (s Slot) Lead() Segment {
	return s.Segments[0]
}

// Parallel reports whether several stations run during the slot.
func (s Slot) Parallel() bool {
	return len(s.Segments) > 1
}

// Timeline groups consecutive segments that share a start offset into slots.
// Segments must already be in agenda order.
func Timeline(segments []Segment) []Slot {
	var slots []Slot
	for _, seg := range segments {
		n := len(slots)
		if n > 0 && slots[n-1].StartOffsetMinutes == seg.StartOffsetMinutes {
			slots[n-1].Segments = append(slots[n-1].Segments, seg)
			if seg.DurationMinutes > slots[n-1].DurationMinutes {
				slots[n-1].DurationMinutes = seg.DurationMinutes
			}
			continue
		}
		slots = append(slots, Slot{
			StartOffsetMinutes: seg.StartOffsetMinutes,
			DurationMinutes:    seg.DurationMinutes,
			Segments:           []Segment{seg},
		})
	}
	return slots
}

// CheckTimeline verifies an agenda fills the practice exactly: slots start at
// zero, follow each other without gaps or overlap, parallel segments share a
// duration, and the total is PracticeMinutes.
func CheckTimeline(segments []Segment) error {
	slots := Timeline(segments)
	if len(slots) == 0 {
		return fmt.Errorf("agenda is empty")
	}
	if slots[0].StartOffsetMinutes != 0 {
		return fmt.Errorf("agenda starts at minute %d, want 0", slots[0].StartOffsetMinutes)
	}
	total := 0
	for i, slot := range slots {
		if slot.DurationMinutes <= 0 {
			return fmt.Errorf("slot %d has duration %d", i, slot.DurationMinutes)
		}
		for _, seg := range slot.Segments {
			if seg.DurationMinutes != slot.DurationMinutes {
				return fmt.Errorf("slot %d: segment %q lasts %d min, slot lasts %d",
					i, seg.Name, seg.DurationMinutes, slot.DurationMinutes)
			}
		}
		if i+1 < len(slots) {
			if end, next := slot.Lead().EndOffsetMinutes(), slots[i+1].StartOffsetMinutes; end != next {
				return fmt.Errorf("slot %d ends at minute %d but slot %d starts at %d", i, end, i+1, next)
			}
		}
		total += slot.DurationMinutes
	}
	if total != PracticeMinutes {
		return fmt.Errorf("agenda lasts %d min, want %d", total, PracticeMinutes)
	}
	return nil
}
