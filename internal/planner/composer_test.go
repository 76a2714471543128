package planner

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/diamondplans/diamondplans/internal/grouping"
	"github.com/diamondplans/diamondplans/internal/models"
)

func players(advanced, beginner int) []models.Player {
	var out []models.Player
	for i := range advanced {
		out = append(out, models.Player{ID: fmt.Sprintf("adv-%d", i), Name: fmt.Sprintf("Adv %d", i), Skill: models.SkillAdvanced, Active: true})
	}
	for i := range beginner {
		out = append(out, models.Player{ID: fmt.Sprintf("beg-%d", i), Name: fmt.Sprintf("Beg %d", i), Skill: models.SkillBeginner, Active: true})
	}
	return out
}

func coaches(head, assistants int) []models.Coach {
	var out []models.Coach
	for i := range head {
		out = append(out, models.Coach{ID: fmt.Sprintf("head-%d", i), Name: "Chase", Role: models.RoleHead})
	}
	for i := range assistants {
		out = append(out, models.Coach{ID: fmt.Sprintf("asst-%d", i), Name: fmt.Sprintf("Asst %d", i), Role: models.RoleAssistant})
	}
	return out
}

func entry(id string, t models.SegmentType, order int, cat models.DrillCategory) models.CurriculumEntry {
	return models.CurriculumEntry{
		ID:           "cw-" + id,
		WeekNumber:   3,
		DrillID:      id,
		SegmentOrder: order,
		SegmentType:  t,
		Drill:        models.Drill{ID: id, Name: "Drill " + strings.ToUpper(id), Category: cat},
	}
}

func weekCurriculum() []models.CurriculumEntry {
	return []models.CurriculumEntry{
		entry("w1", models.SegmentWarmup, 1, models.CategoryWarmup),
		entry("s1", models.SegmentStation, 2, models.CategoryHitting),
		entry("s2", models.SegmentStation, 3, models.CategoryFielding),
		entry("s3", models.SegmentStation, 4, models.CategoryThrowing),
		entry("s4", models.SegmentStation, 5, models.CategoryBaserunning),
		entry("t1", models.SegmentTeamActivity, 6, models.CategoryGamePlay),
		entry("c1", models.SegmentCooldown, 7, models.CategoryCooldown),
	}
}

func newComposer() *Composer {
	return New(grouping.NewSeeded(99))
}

func assertTimeline(t *testing.T, plan models.Plan) {
	t.Helper()
	if err := models.CheckTimeline(plan.Segments); err != nil {
		t.Fatalf("timeline invalid: %v", err)
	}
	if plan.TotalMinutes() != 60 {
		t.Fatalf("total = %d, want 60", plan.TotalMinutes())
	}
	if plan.Segments[0].StartOffsetMinutes != 0 {
		t.Fatalf("first segment starts at %d", plan.Segments[0].StartOffsetMinutes)
	}
	for i, s := range plan.Segments {
		if s.Order != i {
			t.Errorf("segment %d has order %d", i, s.Order)
		}
	}
}

// TestSoloPlanOneCoach covers 12 players with a single coach: whole-team
// format, nine segments, everyone in every segment.
func TestSoloPlanOneCoach(t *testing.T) {
	in := models.PlanInput{
		PresentPlayers: players(6, 6),
		PresentCoaches: coaches(1, 0),
		Curriculum:     weekCurriculum(),
	}
	plan := newComposer().Generate(in)
	assertTimeline(t, plan)

	if plan.Format != models.FormatSolo {
		t.Errorf("format = %q, want solo", plan.Format)
	}
	wantTypes := []models.SegmentType{
		models.SegmentWarmup,
		models.SegmentStation, models.SegmentWaterBreak,
		models.SegmentStation, models.SegmentWaterBreak,
		models.SegmentStation, models.SegmentWaterBreak,
		models.SegmentTeamActivity, models.SegmentCooldown,
	}
	var gotTypes []models.SegmentType
	for _, s := range plan.Segments {
		gotTypes = append(gotTypes, s.Type)
	}
	if !slices.Equal(gotTypes, wantTypes) {
		t.Fatalf("types = %v, want %v", gotTypes, wantTypes)
	}

	wantDurations := []int{5, 10, 2, 10, 2, 10, 2, 15, 4}
	allIDs := models.PlayerIDs(in.PresentPlayers)
	for i, s := range plan.Segments {
		if s.DurationMinutes != wantDurations[i] {
			t.Errorf("segment %d duration = %d, want %d", i, s.DurationMinutes, wantDurations[i])
		}
		if !slices.Equal(s.PlayerIDs, allIDs) {
			t.Errorf("segment %d players = %v, want all 12", i, s.PlayerIDs)
		}
		if !slices.Equal(s.CoachIDs, []string{"head-0"}) {
			t.Errorf("segment %d coaches = %v", i, s.CoachIDs)
		}
		if s.Rotation != nil {
			t.Errorf("segment %d has rotation %d", i, *s.Rotation)
		}
	}
}

// TestSoloPlanDrillsDoNotRepeat verifies the three drill blocks take three
// different station drills in curriculum order.
func TestSoloPlanDrillsDoNotRepeat(t *testing.T) {
	plan := newComposer().Generate(models.PlanInput{
		PresentPlayers: players(2, 1),
		PresentCoaches: coaches(1, 2),
		Curriculum:     weekCurriculum(),
	})
	var stationDrills []string
	for _, s := range plan.Segments {
		if s.Type == models.SegmentStation {
			id, _ := s.DrillID()
			stationDrills = append(stationDrills, id)
		}
	}
	if !slices.Equal(stationDrills, []string{"s1", "s2", "s3"}) {
		t.Errorf("station drills = %v, want [s1 s2 s3]", stationDrills)
	}
	if plan.Segments[0].Name != "Drill W1" {
		t.Errorf("warmup name = %q, want drill name", plan.Segments[0].Name)
	}
}

// TestOneOnOneMatchesSoloShape verifies a single player gets the solo shape
// with the distinct one-on-one format.
func TestOneOnOneMatchesSoloShape(t *testing.T) {
	c := newComposer()
	one := c.Generate(models.PlanInput{PresentPlayers: players(1, 0), PresentCoaches: coaches(1, 3), Curriculum: weekCurriculum()})
	few := c.Generate(models.PlanInput{PresentPlayers: players(1, 2), PresentCoaches: coaches(1, 3), Curriculum: weekCurriculum()})
	assertTimeline(t, one)

	if one.Format != models.FormatOneOnOne {
		t.Errorf("format = %q, want one_on_one", one.Format)
	}
	if few.Format != models.FormatSolo {
		t.Errorf("format = %q, want solo", few.Format)
	}
	if len(one.Segments) != len(few.Segments) || len(one.Segments) != 9 {
		t.Fatalf("segments = %d and %d, want 9 each", len(one.Segments), len(few.Segments))
	}
	for i := range one.Segments {
		a, b := one.Segments[i], few.Segments[i]
		if a.Type != b.Type || a.DurationMinutes != b.DurationMinutes || a.StartOffsetMinutes != b.StartOffsetMinutes {
			t.Errorf("segment %d differs: %+v vs %+v", i, a, b)
		}
	}
}

// TestStationPlanHeadFloats covers 12 players with a head coach and three
// assistants: four stations, four rotations, the head coach in no station.
func TestStationPlanHeadFloats(t *testing.T) {
	in := models.PlanInput{
		PresentPlayers: players(6, 6),
		PresentCoaches: coaches(1, 3),
		Curriculum:     weekCurriculum(),
	}
	plan := newComposer().Generate(in)
	assertTimeline(t, plan)

	if plan.Format != models.FormatStations {
		t.Fatalf("format = %q, want stations", plan.Format)
	}
	if plan.NumStations != 4 || plan.NumRotations != 4 {
		t.Errorf("stations/rotations = %d/%d, want 4/4", plan.NumStations, plan.NumRotations)
	}
	if plan.TeamGameMinutes != 10 {
		t.Errorf("team game = %d, want 10", plan.TeamGameMinutes)
	}
	if !slices.Equal(plan.FloatingCoachIDs, []string{"head-0"}) {
		t.Errorf("floating = %v, want [head-0]", plan.FloatingCoachIDs)
	}

	stationsPerAssistant := map[string]map[int]bool{}
	for _, s := range plan.Segments {
		if s.Type != models.SegmentStation {
			if slices.Contains(s.CoachIDs, "head-0") && len(s.CoachIDs) != 4 {
				t.Errorf("shared segment %q coaches = %v", s.Name, s.CoachIDs)
			}
			continue
		}
		if slices.Contains(s.CoachIDs, "head-0") {
			t.Errorf("head coach pinned to station %q", s.Name)
		}
		if len(s.CoachIDs) > 1 {
			t.Errorf("station %q has %d coaches, want at most 1", s.Name, len(s.CoachIDs))
		}
		for _, id := range s.CoachIDs {
			if stationsPerAssistant[id] == nil {
				stationsPerAssistant[id] = map[int]bool{}
			}
			stationsPerAssistant[id][(s.Order-1)%5] = true
		}
	}
	if len(stationsPerAssistant) != 3 {
		t.Errorf("%d assistants pinned, want 3", len(stationsPerAssistant))
	}
	for id, slots := range stationsPerAssistant {
		if len(slots) != 1 {
			t.Errorf("assistant %s runs %d different stations, want 1", id, len(slots))
		}
	}
}

// TestStationPlanFullStaff gives each of four stations exactly one assistant.
func TestStationPlanFullStaff(t *testing.T) {
	plan := newComposer().Generate(models.PlanInput{
		PresentPlayers: players(6, 6),
		PresentCoaches: coaches(1, 4),
		Curriculum:     weekCurriculum(),
	})
	assertTimeline(t, plan)
	for _, s := range plan.Segments {
		if s.Type == models.SegmentStation && len(s.CoachIDs) != 1 {
			t.Errorf("station %q (rotation %d) coaches = %v, want exactly 1", s.Name, *s.Rotation, s.CoachIDs)
		}
	}
}

// TestStationPlanLayout checks the station timeline for every station count
// and that station groups cover the roster in every rotation.
func TestStationPlanLayout(t *testing.T) {
	tests := []struct {
		coaches       int
		wantStations  int
		wantRotations int
		wantTeamGame  int
	}{
		{2, 2, 3, 18},
		{3, 3, 3, 18},
		{4, 4, 4, 10},
		{6, 4, 4, 10},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d coaches", tt.coaches), func(t *testing.T) {
			in := models.PlanInput{
				PresentPlayers: players(5, 8),
				PresentCoaches: coaches(1, tt.coaches-1),
				Curriculum:     weekCurriculum(),
			}
			plan := newComposer().Generate(in)
			assertTimeline(t, plan)

			if plan.NumStations != tt.wantStations || plan.NumRotations != tt.wantRotations {
				t.Fatalf("stations/rotations = %d/%d, want %d/%d",
					plan.NumStations, plan.NumRotations, tt.wantStations, tt.wantRotations)
			}
			if plan.TeamGameMinutes != tt.wantTeamGame {
				t.Errorf("team game = %d, want %d", plan.TeamGameMinutes, tt.wantTeamGame)
			}

			allIDs := models.PlayerIDs(in.PresentPlayers)
			slices.Sort(allIDs)
			transitions := 0
			for _, slot := range models.Timeline(plan.Segments) {
				lead := slot.Lead()
				if lead.Type == models.SegmentTransition {
					transitions++
					if lead.Name != "Rotate Stations" || lead.DurationMinutes != 2 {
						t.Errorf("transition = %+v", lead)
					}
				}
				if lead.Type != models.SegmentStation {
					continue
				}
				if len(slot.Segments) != tt.wantStations {
					t.Errorf("rotation %d has %d stations", *lead.Rotation, len(slot.Segments))
				}
				var ids []string
				for s, seg := range slot.Segments {
					ids = append(ids, seg.PlayerIDs...)
					wantDrill := fmt.Sprintf("s%d", s+1)
					if id, _ := seg.DrillID(); id != wantDrill {
						t.Errorf("station %d drill = %q, want %q", s, id, wantDrill)
					}
				}
				slices.Sort(ids)
				if !slices.Equal(ids, allIDs) {
					t.Errorf("rotation %d covers %v, want every player once", *lead.Rotation, ids)
				}
			}
			if transitions != tt.wantRotations-1 {
				t.Errorf("transitions = %d, want %d", transitions, tt.wantRotations-1)
			}
		})
	}
}

// TestStationPlanTwoCoachesNoFloat verifies that with fewer than three coaches
// the head coach runs a station.
func TestStationPlanTwoCoachesNoFloat(t *testing.T) {
	plan := newComposer().Generate(models.PlanInput{
		PresentPlayers: players(4, 4),
		PresentCoaches: coaches(1, 1),
		Curriculum:     weekCurriculum(),
	})
	if len(plan.FloatingCoachIDs) != 0 {
		t.Errorf("floating = %v, want none", plan.FloatingCoachIDs)
	}
	first := models.Timeline(plan.Segments)[1]
	if !slices.Equal(first.Segments[0].CoachIDs, []string{"head-0"}) {
		t.Errorf("station 0 coaches = %v, want head coach", first.Segments[0].CoachIDs)
	}
	if !slices.Equal(first.Segments[1].CoachIDs, []string{"asst-0"}) {
		t.Errorf("station 1 coaches = %v, want assistant", first.Segments[1].CoachIDs)
	}
}

// TestBindCoachesSurplusAtHitting verifies coaches beyond the station count
// double up at station 0.
func TestBindCoachesSurplusAtHitting(t *testing.T) {
	stations, floating := bindCoaches(coaches(1, 6), 4)
	if !slices.Equal(floating, []string{"head-0"}) {
		t.Errorf("floating = %v", floating)
	}
	want := [][]string{
		{"asst-0", "asst-4", "asst-5"},
		{"asst-1"},
		{"asst-2"},
		{"asst-3"},
	}
	for i := range want {
		if !slices.Equal(stations[i], want[i]) {
			t.Errorf("station %d = %v, want %v", i, stations[i], want[i])
		}
	}
}

// TestBindCoachesMultipleHeads verifies every head coach floats.
func TestBindCoachesMultipleHeads(t *testing.T) {
	stations, floating := bindCoaches(coaches(2, 2), 4)
	if !slices.Equal(floating, []string{"head-0", "head-1"}) {
		t.Errorf("floating = %v", floating)
	}
	if len(stations[2]) != 0 || len(stations[3]) != 0 {
		t.Errorf("stations = %v, want only two staffed", stations)
	}
}

func TestUnavailablePlans(t *testing.T) {
	c := newComposer()
	tests := []struct {
		name string
		in   models.PlanInput
		want string
	}{
		{"no coaches", models.PlanInput{PresentPlayers: players(3, 3)}, "No coaches present"},
		{"no players", models.PlanInput{PresentCoaches: coaches(1, 2)}, "No players present"},
		{"nobody", models.PlanInput{}, "No coaches present"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := c.Generate(tt.in)
			if len(plan.Segments) != 1 {
				t.Fatalf("segments = %d, want 1", len(plan.Segments))
			}
			s := plan.Segments[0]
			if !strings.Contains(s.Name, tt.want) {
				t.Errorf("name = %q, want containing %q", s.Name, tt.want)
			}
			if s.DurationMinutes != 60 {
				t.Errorf("duration = %d, want 60", s.DurationMinutes)
			}
			if _, ok := s.DrillID(); ok {
				t.Error("error segment should have no drill")
			}
			if plan.Format != models.FormatUnavailable || plan.Problem == "" {
				t.Errorf("format = %q problem = %q", plan.Format, plan.Problem)
			}
			if err := models.CheckTimeline(plan.Segments); err != nil {
				t.Errorf("error plan should still be a valid timeline: %v", err)
			}
		})
	}
}

// TestEmptyCurriculumUsesPlaceholders verifies missing drills fall back to
// placeholder names and NoDrill.
func TestEmptyCurriculumUsesPlaceholders(t *testing.T) {
	plan := newComposer().Generate(models.PlanInput{
		PresentPlayers: players(4, 4),
		PresentCoaches: coaches(1, 3),
	})
	assertTimeline(t, plan)
	var names []string
	for _, s := range plan.Segments {
		if _, ok := s.DrillID(); ok {
			t.Errorf("segment %q has a drill", s.Name)
		}
		if s.Rotation != nil && *s.Rotation == 1 {
			names = append(names, s.Name)
		}
	}
	if !slices.Equal(names, []string{"Hitting", "Fielding", "Throwing", "Baserunning"}) {
		t.Errorf("station names = %v", names)
	}
	if last := plan.Segments[len(plan.Segments)-1]; last.Name != "Cooldown / High Fives" {
		t.Errorf("cooldown name = %q", last.Name)
	}
}

// TestGeneratePropertySweep checks the total and contiguity invariants across
// every attendance shape up to 14 players and 7 coaches.
func TestGeneratePropertySweep(t *testing.T) {
	c := newComposer()
	for p := 1; p <= 14; p++ {
		for k := 1; k <= 7; k++ {
			in := models.PlanInput{
				PresentPlayers: players(p/2, p-p/2),
				PresentCoaches: coaches(1, k-1),
				Curriculum:     weekCurriculum(),
			}
			plan := c.Generate(in)
			if err := models.CheckTimeline(plan.Segments); err != nil {
				t.Errorf("players=%d coaches=%d: %v", p, k, err)
			}
		}
	}
}
