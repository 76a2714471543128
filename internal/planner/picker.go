package planner

import (
	"slices"

	"github.com/diamondplans/diamondplans/internal/models"
)

// pickDrill chooses the curriculum entry for one agenda slot. Each preference
// only narrows the pool when something survives it; the earliest curriculum
// order wins. It returns false when the week has no entry for the slot type.
func pickDrill(
	curriculum []models.CurriculumEntry,
	segmentType models.SegmentType,
	focus []models.DrillCategory,
	recent []string,
	used map[string]bool,
) (models.CurriculumEntry, bool) {
	pool := filter(curriculum, func(e models.CurriculumEntry) bool {
		return e.SegmentType == segmentType
	})
	if len(pool) == 0 {
		return models.CurriculumEntry{}, false
	}

	if len(focus) > 0 {
		pool = prefer(pool, func(e models.CurriculumEntry) bool {
			return slices.Contains(focus, e.Drill.Category)
		})
	}
	pool = prefer(pool, func(e models.CurriculumEntry) bool {
		return !slices.Contains(recent, e.DrillID)
	})
	pool = prefer(pool, func(e models.CurriculumEntry) bool {
		return !used[e.DrillID]
	})

	slices.SortStableFunc(pool, func(a, b models.CurriculumEntry) int {
		return a.SegmentOrder - b.SegmentOrder
	})
	return pool[0], true
}

// prefer narrows pool to the entries matching keep, unless none do.
func prefer(pool []models.CurriculumEntry, keep func(models.CurriculumEntry) bool) []models.CurriculumEntry {
	if narrowed := filter(pool, keep); len(narrowed) > 0 {
		return narrowed
	}
	return pool
}

func filter(entries []models.CurriculumEntry, keep func(models.CurriculumEntry) bool) []models.CurriculumEntry {
	var out []models.CurriculumEntry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
