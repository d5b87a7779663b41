package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"homeflix/internal/api"
	"homeflix/internal/auth"
	"homeflix/internal/config"
	"homeflix/internal/media"
	"homeflix/internal/progress"
	"homeflix/internal/server"
	"homeflix/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", api.Version).
		Msg("starting homeflix server")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	// Initialize services
	authSvc := auth.NewService(store, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	tracker := progress.NewTracker(store, logger)
	scanner := media.NewScanner(store, logger)

	// Create server
	srv := server.New(cfg, logger, store, authSvc, tracker)
	srv.SetScanner(scanner)

	// Handle shutdown signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial scan if library path configured
	if cfg.Library.Path != "" {
		go func() {
			logger.Info().
				Str("path", cfg.Library.Path).
				Str("name", cfg.Library.Name).
				Msg("starting initial library scan")
			if err := scanner.ScanPath(cfg.Library.Path); err != nil {
				logger.Error().Err(err).Msg("initial scan failed")
			} else {
				logger.Info().Msg("initial scan completed")
			}
		}()
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info().Msg("received shutdown signal")
		cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	// Start server
	if err := srv.Start(); err != nil {
		logger.Error().Err(err).Msg("server error")
	}

	logger.Info().Msg("server stopped")
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}
