package models

import (
	"encoding/json"
	"fmt"
)

// SegmentType is the kind of slot a segment fills in the agenda.
type SegmentType string

const (
	SegmentWarmup       SegmentType = "warmup"
	SegmentStation      SegmentType = "station"
	SegmentWaterBreak   SegmentType = "water_break"
	SegmentTeamActivity SegmentType = "team_activity"
	SegmentCooldown     SegmentType = "cooldown"
	SegmentTransition   SegmentType = "transition"
)

// Label is the human name of a segment type.
func (t SegmentType) Label() string {
	switch t {
	case SegmentWarmup:
		return "Warm-Up"
	case SegmentStation:
		return "Station"
	case SegmentWaterBreak:
		return "Water Break"
	case SegmentTeamActivity:
		return "Team Activity"
	case SegmentCooldown:
		return "Cool-Down"
	case SegmentTransition:
		return "Transition"
	}
	return string(t)
}

// Valid reports whether t is a known segment type.
func (t SegmentType) Valid() bool {
	switch t {
	case SegmentWarmup, SegmentStation, SegmentWaterBreak, SegmentTeamActivity, SegmentCooldown, SegmentTransition:
		return true
	}
	return false
}

// DrillSlot is either NoDrill or WithDrill.
type DrillSlot interface {
	drillSlot()
}

// NoDrill marks a segment without a configured drill.
type NoDrill struct{}

// WithDrill carries the drill assigned to a segment.
type WithDrill struct {
	DrillID string
	Drill   Drill
}

func (NoDrill) drillSlot()   {}
func (WithDrill) drillSlot() {}

// Segment is one timed slot of a practice agenda. Station segments of the
// same rotation run in parallel and share StartOffsetMinutes.
type Segment struct {
	Order              int
	Type               SegmentType
	Drill              DrillSlot
	CoachIDs           []string
	PlayerIDs          []string
	Name               string
	DurationMinutes    int
	StartOffsetMinutes int
	Rotation           *int
}

// DrillID returns the assigned drill id, if any.
func (s Segment) DrillID() (string, bool) {
	if d, ok := s.Drill.(WithDrill); ok {
		return d.DrillID, true
	}
	return "", false
}

// AssignedDrill returns the assigned drill, if any.
func (s Segment) AssignedDrill() (Drill, bool) {
	if d, ok := s.Drill.(WithDrill); ok {
		return d.Drill, true
	}
	return Drill{}, false
}

// EndOffsetMinutes is the minute the segment ends, from practice start.
func (s Segment) EndOffsetMinutes() int {
	return s.StartOffsetMinutes + s.DurationMinutes
}

type segmentJSON struct {
	Order              int         `json:"segment_order"`
	Type               SegmentType `json:"segment_type"`
	DrillID            *string     `json:"drill_id"`
	Drill              *Drill      `json:"drill,omitempty"`
	CoachIDs           []string    `json:"coach_ids"`
	PlayerIDs          []string    `json:"player_ids"`
	Name               string      `json:"station_name"`
	DurationMinutes    int         `json:"duration_minutes"`
	StartOffsetMinutes int         `json:"start_offset_minutes"`
	Rotation           *int        `json:"rotation_number"`
}

// MarshalJSON flattens the drill slot into drill_id/drill fields.
func (s Segment) MarshalJSON() ([]byte, error) {
	out := segmentJSON{
		Order:              s.Order,
		Type:               s.Type,
		CoachIDs:           nonNil(s.CoachIDs),
		PlayerIDs:          nonNil(s.PlayerIDs),
		Name:               s.Name,
		DurationMinutes:    s.DurationMinutes,
		StartOffsetMinutes: s.StartOffsetMinutes,
		Rotation:           s.Rotation,
	}
	if d, ok := s.Drill.(WithDrill); ok {
		id := d.DrillID
		drill := d.Drill
		out.DrillID = &id
		out.Drill = &drill
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the drill slot from drill_id/drill fields.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var in segmentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("decoding segment: %w", err)
	}
	*s = Segment{
		Order:              in.Order,
		Type:               in.Type,
		Drill:              NoDrill{},
		CoachIDs:           in.CoachIDs,
		PlayerIDs:          in.PlayerIDs,
		Name:               in.Name,
		DurationMinutes:    in.DurationMinutes,
		StartOffsetMinutes: in.StartOffsetMinutes,
		Rotation:           in.Rotation,
	}
	if in.DrillID != nil {
		wd := WithDrill{DrillID: *in.DrillID}
		if in.Drill != nil {
			wd.Drill = *in.Drill
		}
		s.Drill = wd
	}
	return nil
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
