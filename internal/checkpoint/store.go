// Package checkpoint keeps live practice state on local disk so a restarted
// process can resume the practice where it stopped.
package checkpoint

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/diamondplans/diamondplans/internal/session"
)

// TTL is how long a checkpoint stays usable.
const TTL = 24 * time.Hour

// ErrNotFound is returned when there is no usable checkpoint.
var ErrNotFound = errors.New("checkpoint not found")

// Store is a SQLite-backed checkpoint store.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the checkpoint database at dir/checkpoints.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating checkpoint dir %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "checkpoints.db"))
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS checkpoints (
		session_id TEXT PRIMARY KEY,
		state      TEXT NOT NULL,
		saved_at   INTEGER NOT NULL
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating checkpoint table: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Save records cp, replacing any earlier checkpoint of the same practice.
func (s *Store) Save(cp session.Checkpoint) error {
	state, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO checkpoints (session_id, state, saved_at) VALUES (?, ?, ?)`,
		cp.SessionID, string(state), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("saving checkpoint %s: %w", cp.SessionID, err)
	}
	return nil
}

// Load returns the checkpoint of a practice if it is younger than TTL.
func (s *Store) Load(sessionID string) (session.Checkpoint, error) {
	row := s.db.QueryRow(
		`SELECT state FROM checkpoints WHERE session_id = ? AND saved_at > ?`,
		sessionID, s.cutoff(),
	)
	return scan(row)
}

// Latest returns the most recently saved checkpoint younger than TTL.
func (s *Store) Latest() (session.Checkpoint, error) {
	row := s.db.QueryRow(
		`SELECT state FROM checkpoints WHERE saved_at > ? ORDER BY saved_at DESC LIMIT 1`,
		s.cutoff(),
	)
	return scan(row)
}

func scan(row *sql.Row) (session.Checkpoint, error) {
	var state string
	if err := row.Scan(&state); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Checkpoint{}, ErrNotFound
		}
		return session.Checkpoint{}, fmt.Errorf("reading checkpoint: %w", err)
	}
	var cp session.Checkpoint
	if err := json.Unmarshal([]byte(state), &cp); err != nil {
		return session.Checkpoint{}, fmt.Errorf("decoding checkpoint: %w", err)
	}
	return cp, nil
}

// Delete forgets a practice's checkpoint.
func (s *Store) Delete(sessionID string) error {
	if _, err := s.db.Exec(`DELETE FROM checkpoints WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("deleting checkpoint %s: %w", sessionID, err)
	}
	return nil
}

// Prune removes expired checkpoints and reports how many went.
func (s *Store) Prune() (int64, error) {
	res, err := s.db.Exec(`DELETE FROM checkpoints WHERE saved_at <= ?`, s.cutoff())
	if err != nil {
		return 0, fmt.Errorf("pruning checkpoints: %w", err)
	}
	return res.RowsAffected()
}

func (s *Store) cutoff() int64 {
	return s.now().Add(-TTL).UnixMilli()
}

// Close closes the checkpoint database.
func (s *Store) Close() error {
	return s.db.Close()
}
