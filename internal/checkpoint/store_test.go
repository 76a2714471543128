package checkpoint

import (
	"errors"
	"testing"
	"time"

	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/session"
)

func openStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	now := time.Date(2026, 4, 11, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	return s, &now
}

func checkpointFor(id string, index int) session.Checkpoint {
	return session.Checkpoint{
		SessionID: id,
		Segments: []models.Segment{
			{Order: 0, Type: models.SegmentWarmup, Drill: models.NoDrill{}, Name: "Warmup", DurationMinutes: 5},
			{Order: 1, Type: models.SegmentCooldown, Drill: models.WithDrill{DrillID: "d1", Drill: models.Drill{ID: "d1", Name: "Stretch"}},
				Name: "Stretch", DurationMinutes: 55, StartOffsetMinutes: 5},
		},
		Index:      index,
		Status:     session.Paused,
		TimerState: "paused",
		Duration:   5 * time.Minute,
		Remaining:  90 * time.Second,
	}
}

// TestSaveLoad verifies a checkpoint round-trips through SQLite, drill
// payload included.
func TestSaveLoad(t *testing.T) {
	s, _ := openStore(t)
	if err := s.Save(checkpointFor("a", 1)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cp, err := s.Load("a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cp.Index != 1 || cp.Remaining != 90*time.Second || cp.Status != session.Paused {
		t.Errorf("loaded %+v", cp)
	}
	d, ok := cp.Segments[1].AssignedDrill()
	if !ok || d.Name != "Stretch" {
		t.Errorf("drill = %+v ok=%v", d, ok)
	}
}

// TestSaveReplaces verifies a later save of the same practice wins.
func TestSaveReplaces(t *testing.T) {
	s, _ := openStore(t)
	s.Save(checkpointFor("a", 0))
	s.Save(checkpointFor("a", 1))
	cp, err := s.Load("a")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cp.Index != 1 {
		t.Errorf("index = %d, want 1", cp.Index)
	}
}

// TestExpiry verifies checkpoints older than TTL are neither loaded nor
// returned as latest, and Prune removes them.
func TestExpiry(t *testing.T) {
	s, now := openStore(t)
	s.Save(checkpointFor("old", 0))
	*now = now.Add(TTL - time.Minute)
	s.Save(checkpointFor("fresh", 0))
	*now = now.Add(2 * time.Minute)

	if _, err := s.Load("old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(old) err = %v, want ErrNotFound", err)
	}
	latest, err := s.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.SessionID != "fresh" {
		t.Errorf("latest = %q, want fresh", latest.SessionID)
	}

	n, err := s.Prune()
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 1 {
		t.Errorf("pruned %d, want 1", n)
	}
}

func TestDeleteAndMissing(t *testing.T) {
	s, _ := openStore(t)
	if _, err := s.Latest(); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty store Latest err = %v", err)
	}
	s.Save(checkpointFor("a", 0))
	if err := s.Delete("a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Load("a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load after delete err = %v", err)
	}
}

// TestResumeFromStore runs the full resume path: a live session is saved,
// the store reopened, and a fresh session restored from it.
func TestResumeFromStore(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	live := session.New(nil)
	live.Start("practice-7", checkpointFor("practice-7", 0).Segments)
	live.Pause()
	if err := s.Save(live.Checkpoint()); err != nil {
		t.Fatal(err)
	}
	s.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	cp, err := reopened.Latest()
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	resumed := session.New(nil)
	if err := resumed.Restore(cp); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if resumed.ID() != "practice-7" || resumed.Status() != session.Paused || resumed.TotalSegments() != 2 {
		t.Errorf("resumed id=%s status=%s total=%d", resumed.ID(), resumed.Status(), resumed.TotalSegments())
	}
}
