// Package planner turns attendance and a week's curriculum into a timed
// 60-minute practice agenda.
package planner

import (
	"fmt"

	"github.com/diamondplans/diamondplans/internal/grouping"
	"github.com/diamondplans/diamondplans/internal/models"
)

const (
	maxStations = 4

	// Whole-team timeline.
	soloWarmup     = 5
	soloDrill      = 10
	soloDrills     = 3
	soloWaterBreak = 2
	soloTeamGame   = 15
	soloCooldown   = 4

	// Station timeline.
	stationWarmup     = 5
	stationLength     = 8
	stationTransition = 2
	stationWaterBreak = 2
	stationCooldown   = 5

	// minStationPlayers is the smallest roster split into stations.
	minStationPlayers = 4
	// floatThreshold is the coach count at which head coaches stop running a
	// station and roam instead.
	floatThreshold = 3
)

var stationNames = [maxStations]string{"Hitting", "Fielding", "Throwing", "Baserunning"}

// Composer builds practice plans. It is pure apart from the randomness drawn
// from its grouping.Assigner.
type Composer struct {
	groups *grouping.Assigner
}

// New returns a Composer drawing group randomness from groups.
func New(groups *grouping.Assigner) *Composer {
	if groups == nil {
		groups = grouping.New(nil)
	}
	return &Composer{groups: groups}
}

// Generate builds the agenda for one practice. It never fails: when the
// practice cannot run, the plan holds a single 60-minute segment naming the
// problem and Format is FormatUnavailable.
func (c *Composer) Generate(in models.PlanInput) models.Plan {
	switch {
	case len(in.PresentCoaches) == 0:
		return unavailable("No coaches present, cannot run practice")
	case len(in.PresentPlayers) == 0:
		return unavailable("No players present")
	case len(in.PresentPlayers) == 1:
		return c.solo(in, models.FormatOneOnOne)
	case len(in.PresentPlayers) < minStationPlayers, len(in.PresentCoaches) == 1:
		return c.solo(in, models.FormatSolo)
	}
	return c.stations(in, min(len(in.PresentCoaches), maxStations))
}

func unavailable(problem string) models.Plan {
	return models.Plan{
		Segments: []models.Segment{{
			Order:           0,
			Type:            models.SegmentWarmup,
			Drill:           models.NoDrill{},
			CoachIDs:        []string{},
			PlayerIDs:       []string{},
			Name:            "Error: " + problem,
			DurationMinutes: models.PracticeMinutes,
		}},
		Format:           models.FormatUnavailable,
		FloatingCoachIDs: []string{},
		Problem:          problem,
	}
}

// agenda accumulates segments and the running clock offset.
type agenda struct {
	in       models.PlanInput
	used     map[string]bool
	segments []models.Segment
	offset   int

	playerIDs []string
	coachIDs  []string
}

func newAgenda(in models.PlanInput) *agenda {
	return &agenda{
		in:        in,
		used:      make(map[string]bool),
		playerIDs: models.PlayerIDs(in.PresentPlayers),
		coachIDs:  models.CoachIDs(in.PresentCoaches),
	}
}

// pick selects a drill for the slot type and marks it used for this plan.
func (a *agenda) pick(t models.SegmentType) (models.CurriculumEntry, bool) {
	entry, ok := pickDrill(a.in.Curriculum, t, a.in.FocusOverrides, a.in.RecentDrillIDs, a.used)
	if ok {
		a.used[entry.DrillID] = true
	}
	return entry, ok
}

// place appends seg at the current offset without advancing the clock.
func (a *agenda) place(seg models.Segment) {
	seg.Order = len(a.segments)
	seg.StartOffsetMinutes = a.offset
	if seg.Drill == nil {
		seg.Drill = models.NoDrill{}
	}
	a.segments = append(a.segments, seg)
}

// whole appends a segment attended by everyone and advances the clock.
func (a *agenda) whole(t models.SegmentType, name string, minutes int, entry models.CurriculumEntry, ok bool) {
	a.place(models.Segment{
		Type:            t,
		Drill:           drillSlot(entry, ok),
		CoachIDs:        clone(a.coachIDs),
		PlayerIDs:       clone(a.playerIDs),
		Name:            drillName(entry, ok, name),
		DurationMinutes: minutes,
	})
	a.offset += minutes
}

func (c *Composer) solo(in models.PlanInput, format models.Format) models.Plan {
	a := newAgenda(in)

	entry, ok := a.pick(models.SegmentWarmup)
	a.whole(models.SegmentWarmup, "Warmup", soloWarmup, entry, ok)

	for i := range soloDrills {
		if i > 0 {
			a.whole(models.SegmentWaterBreak, "Water Break", soloWaterBreak, models.CurriculumEntry{}, false)
		}
		entry, ok := a.pick(models.SegmentStation)
		a.whole(models.SegmentStation, fmt.Sprintf("Drill %d", i+1), soloDrill, entry, ok)
	}

	a.whole(models.SegmentWaterBreak, "Water Break", soloWaterBreak, models.CurriculumEntry{}, false)

	entry, ok = a.pick(models.SegmentTeamActivity)
	a.whole(models.SegmentTeamActivity, "Team Game", soloTeamGame, entry, ok)

	entry, ok = a.pick(models.SegmentCooldown)
	a.whole(models.SegmentCooldown, "Cooldown", soloCooldown, entry, ok)

	return models.Plan{
		Segments:         a.segments,
		Format:           format,
		TeamGameMinutes:  soloTeamGame,
		FloatingCoachIDs: []string{},
	}
}

// StationTiming returns the rotation count and the team game length for a
// station practice. The team game absorbs whatever the fixed blocks leave of
// the hour.
func StationTiming(numStations int) (rotations, teamGame int) {
	rotations = 3
	if numStations == maxStations {
		rotations = 4
	}
	block := rotations*stationLength + (rotations-1)*stationTransition
	teamGame = models.PracticeMinutes - stationWarmup - block - stationWaterBreak - stationCooldown
	return rotations, teamGame
}

func (c *Composer) stations(in models.PlanInput, numStations int) models.Plan {
	a := newAgenda(in)
	rotations, teamGame := StationTiming(numStations)
	stationCoaches, floating := bindCoaches(in.PresentCoaches, numStations)

	type station struct {
		entry models.CurriculumEntry
		ok    bool
	}
	drills := make([]station, numStations)
	for s := range drills {
		drills[s].entry, drills[s].ok = a.pick(models.SegmentStation)
	}

	groups := c.groups.Split(in.PresentPlayers, numStations)

	entry, ok := a.pick(models.SegmentWarmup)
	a.whole(models.SegmentWarmup, "Warmup", stationWarmup, entry, ok)

	for rot := range rotations {
		if rot > 0 {
			groups = c.groups.Rotate(groups)
		}
		number := rot + 1
		for s, d := range drills {
			a.place(models.Segment{
				Type:            models.SegmentStation,
				Drill:           drillSlot(d.entry, d.ok),
				CoachIDs:        clone(stationCoaches[s]),
				PlayerIDs:       models.PlayerIDs(groups[s]),
				Name:            drillName(d.entry, d.ok, stationNames[s]),
				DurationMinutes: stationLength,
				Rotation:        &number,
			})
		}
		a.offset += stationLength

		if rot < rotations-1 {
			a.whole(models.SegmentTransition, "Rotate Stations", stationTransition, models.CurriculumEntry{}, false)
		}
	}

	a.whole(models.SegmentWaterBreak, "Water Break", stationWaterBreak, models.CurriculumEntry{}, false)

	entry, ok = a.pick(models.SegmentTeamActivity)
	a.whole(models.SegmentTeamActivity, "Team Game", teamGame, entry, ok)

	entry, ok = a.pick(models.SegmentCooldown)
	a.whole(models.SegmentCooldown, "Cooldown / High Fives", stationCooldown, entry, ok)

	return models.Plan{
		Segments:         a.segments,
		Format:           models.FormatStations,
		NumStations:      numStations,
		NumRotations:     rotations,
		TeamGameMinutes:  teamGame,
		FloatingCoachIDs: floating,
	}
}

// bindCoaches decides which coaches run which station. With three or more
// coaches every head coach floats; the rest fill stations one each in order
// and any surplus doubles up at station 0 (hitting).
func bindCoaches(coaches []models.Coach, numStations int) (stations [][]string, floating []string) {
	stations = make([][]string, numStations)
	floating = []string{}

	pinned := coaches
	if len(coaches) >= floatThreshold {
		pinned = nil
		for _, c := range coaches {
			if c.IsHead() {
				floating = append(floating, c.ID)
			} else {
				pinned = append(pinned, c)
			}
		}
	}

	for i, c := range pinned {
		s := 0
		if i < numStations {
			s = i
		}
		stations[s] = append(stations[s], c.ID)
	}
	return stations, floating
}

func drillSlot(entry models.CurriculumEntry, ok bool) models.DrillSlot {
	if !ok {
		return models.NoDrill{}
	}
	return models.WithDrill{DrillID: entry.DrillID, Drill: entry.Drill}
}

func drillName(entry models.CurriculumEntry, ok bool, fallback string) string {
	if ok && entry.Drill.Name != "" {
		return entry.Drill.Name
	}
	return fallback
}

func clone(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
