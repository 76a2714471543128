package planner

import (
	"testing"

	"github.com/diamondplans/diamondplans/internal/models"
)

func TestPickDrill(t *testing.T) {
	curriculum := []models.CurriculumEntry{
		entry("late-hit", models.SegmentStation, 9, models.CategoryHitting),
		entry("field", models.SegmentStation, 2, models.CategoryFielding),
		entry("hit", models.SegmentStation, 3, models.CategoryHitting),
		entry("warm", models.SegmentWarmup, 1, models.CategoryWarmup),
	}

	tests := []struct {
		name   string
		typ    models.SegmentType
		focus  []models.DrillCategory
		recent []string
		used   map[string]bool
		want   string
		wantOK bool
	}{
		{name: "earliest order wins", typ: models.SegmentStation, want: "field", wantOK: true},
		{name: "focus narrows", typ: models.SegmentStation, focus: []models.DrillCategory{models.CategoryHitting}, want: "hit", wantOK: true},
		{name: "focus with no match is ignored", typ: models.SegmentStation, focus: []models.DrillCategory{models.CategoryBaserunning}, want: "field", wantOK: true},
		{name: "recent drills avoided", typ: models.SegmentStation, recent: []string{"field"}, want: "hit", wantOK: true},
		{name: "used drills avoided", typ: models.SegmentStation, used: map[string]bool{"field": true, "hit": true}, want: "late-hit", wantOK: true},
		{name: "everything used falls back", typ: models.SegmentStation, used: map[string]bool{"field": true, "hit": true, "late-hit": true}, want: "field", wantOK: true},
		{name: "everything recent falls back", typ: models.SegmentWarmup, recent: []string{"warm"}, want: "warm", wantOK: true},
		{name: "focus then recency", typ: models.SegmentStation, focus: []models.DrillCategory{models.CategoryHitting}, recent: []string{"hit"}, want: "late-hit", wantOK: true},
		{name: "no entry for type", typ: models.SegmentCooldown, wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pickDrill(curriculum, tt.typ, tt.focus, tt.recent, tt.used)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got.DrillID != tt.want {
				t.Errorf("picked %q, want %q", got.DrillID, tt.want)
			}
		})
	}
}

// TestPickDrillDoesNotReorderInput verifies the curriculum slice handed in is
// left in its original order.
func TestPickDrillDoesNotReorderInput(t *testing.T) {
	curriculum := []models.CurriculumEntry{
		entry("b", models.SegmentStation, 5, models.CategoryHitting),
		entry("a", models.SegmentStation, 1, models.CategoryHitting),
	}
	pickDrill(curriculum, models.SegmentStation, nil, nil, nil)
	if curriculum[0].DrillID != "b" {
		t.Error("pickDrill reordered its input")
	}
}

// TestGenerateAvoidsRecentDrills verifies recency flows from PlanInput into
// the picker.
func TestGenerateAvoidsRecentDrills(t *testing.T) {
	curriculum := append(weekCurriculum(), entry("w2", models.SegmentWarmup, 8, models.CategoryWarmup))
	plan := newComposer().Generate(models.PlanInput{
		PresentPlayers: players(1, 1),
		PresentCoaches: coaches(1, 0),
		Curriculum:     curriculum,
		RecentDrillIDs: []string{"w1"},
	})
	if id, _ := plan.Segments[0].DrillID(); id != "w2" {
		t.Errorf("warmup drill = %q, want w2", id)
	}
}
