package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/diamondplans/diamondplans/internal/models"
)

// CreateSession inserts a practice session and links its attendance in one
// transaction.
func (db *DB) CreateSession(ctx context.Context, s models.PracticeSession) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO practice_sessions (id, week_number, date, status, notes, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, s.WeekNumber, s.Date, s.Status, s.Notes, s.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting practice session: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO practice_session_players (session_id, player_id)
			 SELECT $1, unnest($2::text[])`, s.ID, nonNil(s.PlayerIDs)); err != nil {
			return fmt.Errorf("linking players to session: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO practice_session_coaches (session_id, coach_id)
			 SELECT $1, unnest($2::text[])`, s.ID, nonNil(s.CoachIDs)); err != nil {
			return fmt.Errorf("linking coaches to session: %w", err)
		}
		return nil
	})
}

// GetSession returns a practice session with its attendance.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (models.PracticeSession, error) {
	var s models.PracticeSession
	err := db.Pool.QueryRow(ctx,
		`SELECT id, week_number, date, status, notes, created_at, completed_at,
		   ARRAY(SELECT player_id FROM practice_session_players WHERE session_id = ps.id ORDER BY player_id),
		   ARRAY(SELECT coach_id FROM practice_session_coaches WHERE session_id = ps.id ORDER BY coach_id)
		 FROM practice_sessions ps WHERE id = $1`, id).Scan(
		&s.ID, &s.WeekNumber, &s.Date, &s.Status, &s.Notes, &s.CreatedAt, &s.CompletedAt,
		&s.PlayerIDs, &s.CoachIDs)
	if err != nil {
		return models.PracticeSession{}, fmt.Errorf("querying session %s: %w", id, notFound(err))
	}
	return s, nil
}

// SetSessionStatus moves a session between planning and active.
func (db *DB) SetSessionStatus(ctx context.Context, id uuid.UUID, status models.SessionStatus) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE practice_sessions SET status = $2, completed_at = NULL WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("updating session %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("updating session %s status: %w", id, notFound(pgx.ErrNoRows))
	}
	return nil
}

// DeleteSession removes a session. Attendance, assignments and feedback go
// with it through ON DELETE CASCADE.
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if _, err := db.Pool.Exec(ctx, `DELETE FROM practice_sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting session %s: %w", id, err)
	}
	return nil
}

// CompleteSession marks a session completed and records drill feedback.
// Calling it again overwrites the notes and completion time.
func (db *DB) CompleteSession(ctx context.Context, id uuid.UUID, notes *string, at time.Time, feedback []models.DrillFeedback) (models.PracticeSession, error) {
	err := db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE practice_sessions SET status = 'completed', notes = $2, completed_at = $3 WHERE id = $1`,
			id, notes, at)
		if err != nil {
			return fmt.Errorf("completing session %s: %w", id, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("completing session %s: %w", id, notFound(pgx.ErrNoRows))
		}

		batch := &pgx.Batch{}
		for _, fb := range feedback {
			batch.Queue(
				`INSERT INTO drill_feedback (id, session_id, drill_id, rating, notes, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				fb.ID, id, fb.DrillID, fb.Rating, fb.Notes, fb.CreatedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving drill feedback: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.PracticeSession{}, err
	}
	return db.GetSession(ctx, id)
}

// SavePlan replaces the stored agenda of a session.
func (db *DB) SavePlan(ctx context.Context, sessionID uuid.UUID, segments []models.Segment) error {
	return db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM station_assignments WHERE session_id = $1`, sessionID); err != nil {
			return fmt.Errorf("clearing old assignments: %w", err)
		}

		batch := &pgx.Batch{}
		for _, seg := range segments {
			var drillID *string
			if id, ok := seg.DrillID(); ok {
				drillID = &id
			}
			batch.Queue(
				`INSERT INTO station_assignments (id, session_id, segment_order, segment_type, drill_id,
				   coach_ids, player_ids, station_name, duration_minutes, start_offset_minutes, rotation_number)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
				uuid.New(), sessionID, seg.Order, seg.Type, drillID,
				nonNil(seg.CoachIDs), nonNil(seg.PlayerIDs), seg.Name,
				seg.DurationMinutes, seg.StartOffsetMinutes, seg.Rotation)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("saving assignments: %w", err)
		}
		return nil
	})
}

// LoadPlan returns the stored agenda of a session in segment order, with the
// full drill attached to each segment that has one.
func (db *DB) LoadPlan(ctx context.Context, sessionID uuid.UUID) ([]models.Segment, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT segment_order, segment_type, drill_id, coach_ids, player_ids, station_name,
		   duration_minutes, start_offset_minutes, rotation_number
		 FROM station_assignments WHERE session_id = $1 ORDER BY segment_order`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying assignments: %w", err)
	}
	defer rows.Close()

	type stored struct {
		seg     models.Segment
		drillID *string
	}
	var (
		loaded   []stored
		drillIDs []string
	)
	for rows.Next() {
		var s stored
		if err := rows.Scan(&s.seg.Order, &s.seg.Type, &s.drillID, &s.seg.CoachIDs, &s.seg.PlayerIDs,
			&s.seg.Name, &s.seg.DurationMinutes, &s.seg.StartOffsetMinutes, &s.seg.Rotation); err != nil {
			return nil, fmt.Errorf("scanning assignment: %w", err)
		}
		if s.drillID != nil {
			drillIDs = append(drillIDs, *s.drillID)
		}
		loaded = append(loaded, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignments: %w", err)
	}

	drills, err := db.drillsByID(ctx, drillIDs)
	if err != nil {
		return nil, err
	}

	segments := make([]models.Segment, len(loaded))
	for i, s := range loaded {
		s.seg.Drill = models.NoDrill{}
		if s.drillID != nil {
			s.seg.Drill = models.WithDrill{DrillID: *s.drillID, Drill: drills[*s.drillID]}
		}
		segments[i] = s.seg
	}
	return segments, nil
}

// RecentDrillIDs returns the drills used in the last n completed practices.
func (db *DB) RecentDrillIDs(ctx context.Context, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT DISTINCT sa.drill_id
		 FROM station_assignments sa
		 WHERE sa.drill_id IS NOT NULL AND sa.session_id IN (
		   SELECT id FROM practice_sessions
		   WHERE status = 'completed'
		   ORDER BY completed_at DESC
		   LIMIT $1)
		 ORDER BY sa.drill_id`, n)
	if err != nil {
		return nil, fmt.Errorf("querying recent drills: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning recent drills: %w", err)
	}
	return ids, nil
}
