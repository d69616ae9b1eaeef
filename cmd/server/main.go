package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/scythe504/mafia-backend/internal/config"
	"github.com/scythe504/mafia-backend/internal/database"
	"github.com/scythe504/mafia-backend/internal/database/migrations"
	"github.com/scythe504/mafia-backend/internal/game"
	"github.com/scythe504/mafia-backend/internal/logger"
	"github.com/scythe504/mafia-backend/internal/server"
)

const journalBuffer = 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	opts := game.Options{BanOnKick: cfg.BanOnKick}

	// The journal is optional; the game runs the same without it.
	var journal *database.Journal
	if cfg.DatabaseURL != "" {
		if err := migrations.Migrate(cfg.DatabaseURL); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}
		journal, err = database.NewJournal(ctx, cfg.DatabaseURL, journalBuffer)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect journal")
		}
		defer journal.Close()

		// Run gets its own context so it can flush after the server stops.
		journalCtx, stopJournal := context.WithCancel(context.Background())
		go journal.Run(journalCtx)
		defer func() {
			stopJournal()
			journal.Wait()
		}()
		opts.Recorder = journal
	}

	hub := game.NewHub(game.HubConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		MessageRate:    cfg.MessageRate,
		MessageBurst:   cfg.MessageBurst,
	})
	coord := game.NewCoordinator(game.NewRegistry(), hub, opts)

	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.RunSweeper(ctx, cfg.SweepInterval, cfg.RoomIdleTTL, hub.CloseRoom)
	}()

	srv := server.NewServer(cfg, coord, hub)

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("SIGTERM or SIGINT received, shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	wg.Wait()
	log.Info().Msg("Shutting down now")
}
