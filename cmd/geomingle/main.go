package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alexanderramin/geomingle/internal/cli"
	"github.com/alexanderramin/geomingle/internal/config"
	"github.com/alexanderramin/geomingle/internal/db"
	"github.com/alexanderramin/geomingle/internal/generation"
	"github.com/alexanderramin/geomingle/internal/geo"
	"github.com/alexanderramin/geomingle/internal/llm"
	"github.com/alexanderramin/geomingle/internal/persistence"
	"github.com/alexanderramin/geomingle/internal/places"
	"github.com/alexanderramin/geomingle/internal/service"
	"github.com/alexanderramin/geomingle/internal/store"
	"github.com/alexanderramin/geomingle/internal/validate"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Diagnostics go to stderr; only warnings unless call logging is on.
	level := slog.LevelWarn
	if cfg.LogCalls {
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Store with the persistence bridge as loader and first observer
	bridge := persistence.NewBridge(database, db.NewSQLiteUnitOfWork(database), persistence.WithLogger(logger))
	st := store.New(bridge, bridge)
	st.Load(ctx)

	validator := validate.New(cfg.Clock)

	// LLM collaborators; without a client generation fails cleanly and
	// summaries use the deterministic fallback.
	var client llm.LLMClient
	if cfg.LLM.Enabled {
		var observer llm.Observer = llm.NoopObserver{}
		if cfg.LLM.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		client = llm.NewOllamaClient(cfg.LLM, observer)
	}

	// Photos
	placesCfg := places.DefaultConfig()
	placesCfg.APIKey = cfg.PlacesAPIKey
	placesCfg.Timeout = cfg.PlacesTimeout
	placesOpts := []places.Option{places.WithLogger(logger)}
	if cfg.RedisAddr != "" {
		rdb, err := places.DialRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			placesOpts = append(placesOpts, places.WithCache(places.NewRedisCache(rdb)))
		}
	}

	// Geocoding
	nominatim := geo.NewNominatim(geo.Config{BaseURL: cfg.NominatimURL, Position: cfg.Position}, logger)
	var detector geo.Detector = nominatim
	if cfg.City != "" {
		detector = geo.StaticDetector(cfg.City)
	}

	opts := []service.PlannerOption{
		service.WithPhotoConcurrency(cfg.PhotoConcurrency),
		service.WithLogger(logger),
	}
	if cfg.LogCalls {
		opts = append(opts, service.WithUseCaseObserver(service.NewSlogUseCaseObserver(logger)))
	}

	planner := service.NewPlanner(service.Deps{
		Store:      st,
		Validator:  validator,
		Generator:  generation.NewItineraryGenerator(client, validator),
		Summarizer: generation.NewSummarizer(client),
		Photos:     places.NewGoogleResolver(placesCfg, placesOpts...),
		Detector:   detector,
		Searcher:   nominatim,
	}, opts...)

	app := &cli.App{Planner: planner}

	// Detect interactive terminal for the add form and the board.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
