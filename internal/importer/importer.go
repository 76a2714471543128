// Package importer loads the roster, drill library and weekly curriculum
// from a YAML seed file into the database.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/diamondplans/diamondplans/internal/models"
)

// Writer is the storage the importer upserts into. *storage.DB implements it.
type Writer interface {
	UpsertCoach(ctx context.Context, c models.Coach) error
	UpsertPlayer(ctx context.Context, p models.Player) error
	UpsertDrill(ctx context.Context, d models.Drill) error
	ReplaceWeek(ctx context.Context, week models.Week) error
}

// File is the seed file layout.
type File struct {
	Coaches []models.Coach `yaml:"coaches"`
	Players []Player       `yaml:"players"`
	Drills  []models.Drill `yaml:"drills"`
	Weeks   []Week         `yaml:"weeks"`
}

// Player is a roster entry. Players are active unless is_active says
// otherwise.
type Player struct {
	ID     string            `yaml:"id"`
	Name   string            `yaml:"name"`
	Skill  models.SkillLevel `yaml:"skill_level"`
	Active *bool             `yaml:"is_active"`
}

// Week is a curriculum week and the drills scheduled into its segments.
type Week struct {
	models.WeeklyPlan `yaml:",inline"`
	Drills            []Assignment `yaml:"drills"`
}

// Assignment places a drill into one segment slot of a week.
type Assignment struct {
	ID              string             `yaml:"id"`
	DrillID         string             `yaml:"drill_id"`
	SegmentOrder    int                `yaml:"segment_order"`
	SegmentType     models.SegmentType `yaml:"segment_type"`
	DurationMinutes int                `yaml:"duration_minutes"`
}

// Stats tracks import progress.
type Stats struct {
	Coaches int
	Players int
	Drills  int
	Weeks   int
	Entries int
}

// Importer writes a seed file into storage.
type Importer struct {
	db     Writer
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer. With dryRun set the file is parsed and
// validated but nothing is written.
func New(db Writer, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, log: log, dryRun: dryRun}
}

// Load reads and validates a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return &f, nil
}

func (f *File) validate() error {
	for _, c := range f.Coaches {
		if c.ID == "" || c.Name == "" {
			return fmt.Errorf("coach needs id and full_name: %+v", c)
		}
		if c.Role != models.RoleHead && c.Role != models.RoleAssistant {
			return fmt.Errorf("coach %s: unknown role %q", c.ID, c.Role)
		}
	}
	for _, p := range f.Players {
		if p.ID == "" || p.Name == "" {
			return fmt.Errorf("player needs id and name: %+v", p)
		}
		if p.Skill != models.SkillAdvanced && p.Skill != models.SkillBeginner {
			return fmt.Errorf("player %s: unknown skill_level %q", p.ID, p.Skill)
		}
	}
	drills := make(map[string]bool, len(f.Drills))
	for _, d := range f.Drills {
		if d.ID == "" || d.Name == "" {
			return fmt.Errorf("drill needs id and name: %+v", d.ID)
		}
		if !models.ValidCategory(d.Category) {
			return fmt.Errorf("drill %s: unknown category %q", d.ID, d.Category)
		}
		drills[d.ID] = true
	}
	for _, w := range f.Weeks {
		if w.WeekNumber < 1 {
			return fmt.Errorf("week_number must be positive, got %d", w.WeekNumber)
		}
		for _, a := range w.Drills {
			if !a.SegmentType.Valid() {
				return fmt.Errorf("week %d: unknown segment_type %q", w.WeekNumber, a.SegmentType)
			}
			// Drills may already be in the database when the file carries
			// none of its own.
			if len(drills) > 0 && !drills[a.DrillID] {
				return fmt.Errorf("week %d: drill %q is not defined", w.WeekNumber, a.DrillID)
			}
		}
	}
	return nil
}

// Import writes coaches, players, drills and then weeks, so week drill
// references resolve.
func (imp *Importer) Import(ctx context.Context, f *File) (*Stats, error) {
	for _, c := range f.Coaches {
		if !imp.dryRun {
			if err := imp.db.UpsertCoach(ctx, c); err != nil {
				return &imp.stats, err
			}
		}
		imp.stats.Coaches++
	}

	for _, p := range f.Players {
		active := p.Active == nil || *p.Active
		if !imp.dryRun {
			if err := imp.db.UpsertPlayer(ctx, models.Player{ID: p.ID, Name: p.Name, Skill: p.Skill, Active: active}); err != nil {
				return &imp.stats, err
			}
		}
		imp.stats.Players++
	}

	for _, d := range f.Drills {
		if !imp.dryRun {
			if err := imp.db.UpsertDrill(ctx, d); err != nil {
				return &imp.stats, err
			}
		}
		imp.stats.Drills++
	}

	for _, w := range f.Weeks {
		week := models.Week{WeeklyPlan: w.WeeklyPlan}
		for _, a := range w.Drills {
			week.Entries = append(week.Entries, models.CurriculumEntry{
				ID:              a.ID,
				WeekNumber:      w.WeekNumber,
				DrillID:         a.DrillID,
				SegmentOrder:    a.SegmentOrder,
				SegmentType:     a.SegmentType,
				DurationMinutes: a.DurationMinutes,
			})
		}
		if !imp.dryRun {
			if err := imp.db.ReplaceWeek(ctx, week); err != nil {
				return &imp.stats, err
			}
		}
		imp.log.Info("week imported", "week", w.WeekNumber, "theme", w.Theme, "drills", len(week.Entries))
		imp.stats.Weeks++
		imp.stats.Entries += len(week.Entries)
	}

	return &imp.stats, nil
}
