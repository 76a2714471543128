package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/diamondplans/diamondplans/internal/client"
	"github.com/diamondplans/diamondplans/internal/config"
	"github.com/diamondplans/diamondplans/internal/grouping"
	"github.com/diamondplans/diamondplans/internal/mcp"
	"github.com/diamondplans/diamondplans/internal/planner"
	"github.com/diamondplans/diamondplans/internal/practice"
	"github.com/diamondplans/diamondplans/internal/storage"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (local mode)")
	serverURL := flag.String("server", "", "Diamond Plans server URL; when set, tools go through the HTTP API instead of the database")
	apiKey := flag.String("key", os.Getenv("DIAMONDPLANS_AUTH_API_KEY"), "API key for -server")
	flag.Parse()

	// stdout carries the MCP protocol.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	var ds mcp.DataSource
	if *serverURL != "" {
		ds = client.New(*serverURL, *apiKey)
		log.Info("using remote server", "url", *serverURL)
	} else {
		svc, closeDB, err := local(*configPath, log)
		if err != nil {
			log.Error("failed to open local database", "error", err)
			os.Exit(1)
		}
		defer closeDB()
		ds = svc
	}

	if err := server.ServeStdio(mcp.New(ds, Version, log)); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}

func local(configPath string, log *slog.Logger) (*practice.Service, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	db, err := storage.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	groups := grouping.New(nil)
	if cfg.Practice.Seed != 0 {
		groups = grouping.NewSeeded(cfg.Practice.Seed)
	}
	return practice.NewService(db, planner.New(groups), cfg.Practice.RecentPractices, log), db.Close, nil
}
