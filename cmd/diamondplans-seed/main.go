package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/diamondplans/diamondplans/internal/config"
	"github.com/diamondplans/diamondplans/internal/importer"
	"github.com/diamondplans/diamondplans/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	seedPath := flag.String("file", "", "path to seed YAML (required)")
	dryRun := flag.Bool("dry-run", false, "validate and count without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *seedPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: diamondplans-seed -config config.yaml -file seed.yaml [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	seed, err := importer.Load(*seedPath)
	if err != nil {
		log.Error("failed to load seed file", "error", err)
		os.Exit(1)
	}

	var db importer.Writer
	if *dryRun {
		log.Info("DRY RUN mode: nothing will be written to the database")
	} else {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, "migrations"); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		store, err := storage.New(context.Background(), dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		db = store
	}

	stats, err := importer.New(db, log, *dryRun).Import(context.Background(), seed)
	if err != nil {
		log.Error("seed failed", "error", err)
		printStats(log, stats)
		os.Exit(1)
	}

	printStats(log, stats)
	log.Info("seed complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("seed stats",
		"coaches", stats.Coaches,
		"players", stats.Players,
		"drills", stats.Drills,
		"weeks", stats.Weeks,
		"week_drills", stats.Entries,
	)
}
