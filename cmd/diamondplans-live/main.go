package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/diamondplans/diamondplans/internal/checkpoint"
	"github.com/diamondplans/diamondplans/internal/client"
	"github.com/diamondplans/diamondplans/internal/models"
	"github.com/diamondplans/diamondplans/internal/practice"
	"github.com/diamondplans/diamondplans/internal/session"
	"github.com/diamondplans/diamondplans/internal/ui"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "Diamond Plans server URL (e.g. https://diamondplans.tail1234.ts.net)")
	apiKey := flag.String("key", os.Getenv("DIAMONDPLANS_AUTH_API_KEY"), "API key, needed to mark the practice completed")
	sessionFlag := flag.String("session", "", "practice session id to run")
	resume := flag.Bool("resume", false, "resume the most recent checkpoint without contacting the server")
	stateDir := flag.String("state-dir", "", "checkpoint directory (default ~/.diamondplans)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("diamondplans-live", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *sessionFlag == "" && !*resume {
		fmt.Fprintf(os.Stderr, "Usage: diamondplans-live -server <URL> -session <id> | -resume\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".diamondplans")
	}
	store, err := checkpoint.Open(*stateDir)
	if err != nil {
		log.Error("failed to open checkpoint store", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	if n, err := store.Prune(); err != nil {
		log.Warn("checkpoint prune failed", "error", err)
	} else if n > 0 {
		log.Info("expired checkpoints removed", "count", n)
	}

	var api *client.Client
	if *serverURL != "" {
		api = client.New(*serverURL, *apiKey)
	}

	ctx := context.Background()
	sess := session.New(nil)
	if err := load(ctx, sess, store, api, *sessionFlag, *resume); err != nil {
		log.Error("failed to load practice", "error", err)
		os.Exit(1)
	}

	opts := ui.Options{Title: "Practice", Bell: os.Stdout}
	if api != nil {
		describe(ctx, api, sess, &opts, log)
	}

	final, err := tea.NewProgram(ui.NewLive(sess, store, opts), tea.WithAltScreen()).Run()
	if err != nil {
		log.Error("live screen failed", "error", err)
		os.Exit(1)
	}

	done := final.(ui.LiveModel).Session()
	if done.Status() != session.Completed {
		log.Info("practice paused; run with -resume to continue", "session", done.ID())
		return
	}
	if api == nil {
		log.Info("practice complete (offline, not recorded)")
		return
	}
	id, err := uuid.Parse(done.ID())
	if err != nil {
		log.Warn("practice id is not a stored session, not recording", "session", done.ID())
		return
	}
	if _, err := api.CompletePractice(ctx, id, practice.CompleteRequest{}); err != nil {
		log.Error("failed to record completion", "error", err)
		os.Exit(1)
	}
	log.Info("practice complete", "session", id)
}

// load restores a checkpoint when one exists for the practice, otherwise
// starts the stored plan from the top.
func load(ctx context.Context, sess *session.Session, store *checkpoint.Store, api *client.Client, sessionID string, resume bool) error {
	if resume {
		cp, err := store.Latest()
		if err != nil {
			return fmt.Errorf("finding checkpoint: %w", err)
		}
		return sess.Restore(cp)
	}

	cp, err := store.Load(sessionID)
	switch {
	case err == nil:
		return sess.Restore(cp)
	case !errors.Is(err, checkpoint.ErrNotFound):
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	if api == nil {
		return fmt.Errorf("no checkpoint for %s and no -server to fetch its plan", sessionID)
	}
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("parsing session id: %w", err)
	}
	segments, err := api.SessionPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("fetching plan: %w", err)
	}
	sess.Start(sessionID, segments)
	if sess.Status() == session.NotStarted {
		return fmt.Errorf("practice %s has an empty plan", sessionID)
	}
	return nil
}

// describe fills in names, the title and floating coaches from the server.
// Failures only cost the screen its names.
func describe(ctx context.Context, api *client.Client, sess *session.Session, opts *ui.Options, log *slog.Logger) {
	players, coaches, err := api.Roster(ctx)
	if err != nil {
		log.Warn("roster unavailable, showing ids", "error", err)
	}
	opts.Players, opts.Coaches = players, coaches

	id, err := uuid.Parse(sess.ID())
	if err != nil {
		return
	}
	stored, err := api.Session(ctx, id)
	if err != nil {
		log.Warn("session details unavailable", "error", err)
		return
	}
	opts.Title = fmt.Sprintf("Week %d practice, %s", stored.WeekNumber, stored.Date.Format("Mon Jan 2"))
	opts.Floating = floating(stored.CoachIDs, sess.Slots())
}

// floating returns present coaches who run no station.
func floating(present []string, slots []models.Slot) []string {
	stationed := map[string]bool{}
	hasStations := false
	for _, slot := range slots {
		for _, seg := range slot.Segments {
			if seg.Type != models.SegmentStation {
				continue
			}
			hasStations = true
			for _, id := range seg.CoachIDs {
				stationed[id] = true
			}
		}
	}
	if !hasStations {
		return nil
	}
	var out []string
	for _, id := range present {
		if !stationed[id] && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
