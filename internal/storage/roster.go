package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/diamondplans/diamondplans/internal/models"
)

// ListPlayers returns active players ordered by name.
func (db *DB) ListPlayers(ctx context.Context) ([]models.Player, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, skill_level, is_active FROM players WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}
	return scanPlayers(rows)
}

// PlayersByIDs returns the players with the given ids, ordered by name.
// Unknown ids are skipped.
func (db *DB) PlayersByIDs(ctx context.Context, ids []string) ([]models.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, skill_level, is_active FROM players WHERE id = ANY($1) ORDER BY name`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying players by id: %w", err)
	}
	return scanPlayers(rows)
}

func scanPlayers(rows pgx.Rows) ([]models.Player, error) {
	defer rows.Close()
	var result []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Skill, &p.Active); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// ListCoaches returns every coach, head coaches first.
func (db *DB) ListCoaches(ctx context.Context) ([]models.Coach, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, full_name, role, COALESCE(email, '') FROM coaches ORDER BY role DESC, full_name`)
	if err != nil {
		return nil, fmt.Errorf("querying coaches: %w", err)
	}
	return scanCoaches(rows)
}

// CoachesByIDs returns the coaches with the given ids, head coaches first.
func (db *DB) CoachesByIDs(ctx context.Context, ids []string) ([]models.Coach, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, full_name, role, COALESCE(email, '') FROM coaches
		 WHERE id = ANY($1) ORDER BY role DESC, full_name`, ids)
	if err != nil {
		return nil, fmt.Errorf("querying coaches by id: %w", err)
	}
	return scanCoaches(rows)
}

func scanCoaches(rows pgx.Rows) ([]models.Coach, error) {
	defer rows.Close()
	var result []models.Coach
	for rows.Next() {
		var c models.Coach
		if err := rows.Scan(&c.ID, &c.Name, &c.Role, &c.Email); err != nil {
			return nil, fmt.Errorf("scanning coach: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// UpsertPlayer inserts a player or updates the existing row with the same id.
func (db *DB) UpsertPlayer(ctx context.Context, p models.Player) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO players (id, name, skill_level, is_active)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   skill_level = EXCLUDED.skill_level,
		   is_active = EXCLUDED.is_active,
		   updated_at = now()`,
		p.ID, p.Name, p.Skill, p.Active)
	if err != nil {
		return fmt.Errorf("upserting player %s: %w", p.ID, err)
	}
	return nil
}

// UpsertCoach inserts a coach or updates the existing row with the same id.
func (db *DB) UpsertCoach(ctx context.Context, c models.Coach) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO coaches (id, full_name, role, email)
		 VALUES ($1, $2, $3, NULLIF($4, ''))
		 ON CONFLICT (id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   role = EXCLUDED.role,
		   email = EXCLUDED.email`,
		c.ID, c.Name, c.Role, c.Email)
	if err != nil {
		return fmt.Errorf("upserting coach %s: %w", c.ID, err)
	}
	return nil
}
