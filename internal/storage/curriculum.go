package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/diamondplans/diamondplans/internal/models"
)

const drillColumns = `d.id, d.name, d.category, d.duration_minutes, d.min_kids, d.max_kids,
	d.min_coaches, d.max_coaches, d.skill_level_target, d.equipment, d.setup_instructions,
	d.how_to_explain_to_kids, d.step_by_step, d.coaching_points, d.common_mistakes,
	d.progressions, d.regressions, d.fun_factor, d.week_introduced`

func drillFields(d *models.Drill) []any {
	return []any{
		&d.ID, &d.Name, &d.Category, &d.DurationMinutes, &d.MinPlayers, &d.MaxPlayers,
		&d.MinCoaches, &d.MaxCoaches, &d.SkillTarget, &d.Equipment, &d.Setup,
		&d.Explanation, &d.Steps, &d.CoachingPoints, &d.CommonMistakes,
		&d.Progressions, &d.Regressions, &d.FunFactor, &d.WeekIntroduced,
	}
}

// UpsertDrill inserts a library drill or replaces the row with the same id.
func (db *DB) UpsertDrill(ctx context.Context, d models.Drill) error {
	if d.SkillTarget == "" {
		d.SkillTarget = models.TargetAll
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO drills (id, name, category, duration_minutes, min_kids, max_kids,
		   min_coaches, max_coaches, skill_level_target, equipment, setup_instructions,
		   how_to_explain_to_kids, step_by_step, coaching_points, common_mistakes,
		   progressions, regressions, fun_factor, week_introduced)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   category = EXCLUDED.category,
		   duration_minutes = EXCLUDED.duration_minutes,
		   min_kids = EXCLUDED.min_kids,
		   max_kids = EXCLUDED.max_kids,
		   min_coaches = EXCLUDED.min_coaches,
		   max_coaches = EXCLUDED.max_coaches,
		   skill_level_target = EXCLUDED.skill_level_target,
		   equipment = EXCLUDED.equipment,
		   setup_instructions = EXCLUDED.setup_instructions,
		   how_to_explain_to_kids = EXCLUDED.how_to_explain_to_kids,
		   step_by_step = EXCLUDED.step_by_step,
		   coaching_points = EXCLUDED.coaching_points,
		   common_mistakes = EXCLUDED.common_mistakes,
		   progressions = EXCLUDED.progressions,
		   regressions = EXCLUDED.regressions,
		   fun_factor = EXCLUDED.fun_factor,
		   week_introduced = EXCLUDED.week_introduced`,
		d.ID, d.Name, d.Category, d.DurationMinutes, d.MinPlayers, d.MaxPlayers,
		d.MinCoaches, d.MaxCoaches, d.SkillTarget, nonNil(d.Equipment), d.Setup,
		d.Explanation, nonNil(d.Steps), nonNil(d.CoachingPoints), nonNil(d.CommonMistakes),
		d.Progressions, d.Regressions, d.FunFactor, d.WeekIntroduced)
	if err != nil {
		return fmt.Errorf("upserting drill %s: %w", d.ID, err)
	}
	return nil
}

// ReplaceWeek stores a weekly plan and replaces its drill assignments.
func (db *DB) ReplaceWeek(ctx context.Context, week models.Week) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO weekly_plans (week_number, theme, focus_skills, notes)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (week_number) DO UPDATE SET
			   theme = EXCLUDED.theme,
			   focus_skills = EXCLUDED.focus_skills,
			   notes = EXCLUDED.notes`,
			week.WeekNumber, week.Theme, nonNil(week.FocusSkills), week.Notes)
		if err != nil {
			return fmt.Errorf("upserting week %d: %w", week.WeekNumber, err)
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM weekly_drill_assignments WHERE week_number = $1`, week.WeekNumber); err != nil {
			return fmt.Errorf("clearing week %d drills: %w", week.WeekNumber, err)
		}

		batch := &pgx.Batch{}
		for _, e := range week.Entries {
			id := e.ID
			if id == "" {
				id = fmt.Sprintf("w%d-%d-%s", week.WeekNumber, e.SegmentOrder, e.DrillID)
			}
			batch.Queue(
				`INSERT INTO weekly_drill_assignments
				   (id, week_number, drill_id, segment_order, segment_type, duration_minutes)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				id, week.WeekNumber, e.DrillID, e.SegmentOrder, e.SegmentType, e.DurationMinutes)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting week %d drills: %w", week.WeekNumber, err)
		}
		return nil
	})
}

// Week returns the weekly plan and its drill assignments in segment order.
// It returns practice.ErrNotFound when the week has no plan.
func (db *DB) Week(ctx context.Context, weekNumber int) (models.Week, error) {
	var week models.Week
	err := db.Pool.QueryRow(ctx,
		`SELECT week_number, theme, focus_skills, notes FROM weekly_plans WHERE week_number = $1`,
		weekNumber).Scan(&week.WeekNumber, &week.Theme, &week.FocusSkills, &week.Notes)
	if err != nil {
		return models.Week{}, fmt.Errorf("querying week %d: %w", weekNumber, notFound(err))
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT w.id, w.week_number, w.drill_id, w.segment_order, w.segment_type, w.duration_minutes, `+drillColumns+`
		 FROM weekly_drill_assignments w
		 JOIN drills d ON d.id = w.drill_id
		 WHERE w.week_number = $1
		 ORDER BY w.segment_order`,
		weekNumber)
	if err != nil {
		return models.Week{}, fmt.Errorf("querying week %d drills: %w", weekNumber, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.CurriculumEntry
		dest := append([]any{&e.ID, &e.WeekNumber, &e.DrillID, &e.SegmentOrder, &e.SegmentType, &e.DurationMinutes},
			drillFields(&e.Drill)...)
		if err := rows.Scan(dest...); err != nil {
			return models.Week{}, fmt.Errorf("scanning week drill: %w", err)
		}
		week.Entries = append(week.Entries, e)
	}
	return week, rows.Err()
}

// drillsByID loads library drills keyed by id.
func (db *DB) drillsByID(ctx context.Context, ids []string) (map[string]models.Drill, error) {
	out := make(map[string]models.Drill, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := db.Pool.Query(ctx, `SELECT `+drillColumns+` FROM drills d WHERE d.id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying drills: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d models.Drill
		if err := rows.Scan(drillFields(&d)...); err != nil {
			return nil, fmt.Errorf("scanning drill: %w", err)
		}
		out[d.ID] = d
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
