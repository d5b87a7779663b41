package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"homeflix/internal/api"
	"homeflix/internal/auth"
	"homeflix/internal/config"
	"homeflix/internal/progress"
	"homeflix/internal/storage"
)

type Server struct {
	cfg        *config.Config
	logger     zerolog.Logger
	httpServer *http.Server
	router     *chi.Mux
	storage    *storage.SQLiteStorage
	auth       *auth.Service
	handler    *api.Handler
}

func New(cfg *config.Config, logger zerolog.Logger, store *storage.SQLiteStorage, authSvc *auth.Service, tracker *progress.Tracker) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		storage: store,
		auth:    authSvc,
	}

	s.router = chi.NewRouter()
	s.setupMiddleware()
	s.setupRoutes(tracker)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(CORSMiddleware)
	s.router.Use(LoggingMiddleware(s.logger))
}

func (s *Server) setupRoutes(tracker *progress.Tracker) {
	s.handler = api.NewHandler(s.storage, s.logger, s.auth, tracker, s.cfg.Library.Path)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handler.Health)
		r.Post("/auth/login", s.handler.Login)

		// Everything else requires a valid token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(s.auth))

			r.Post("/users", s.handler.CreateUser)

			r.Get("/catalog", s.handler.GetCatalog)
			r.Get("/movies", s.handler.ListMovies)
			r.Get("/movies/{title}", s.handler.GetMovieByTitle)
			r.Post("/library/scan", s.handler.ScanLibrary)

			r.Get("/media/{id}/stream", s.handler.StreamMedia)

			r.Post("/progress/{id}", s.handler.ReportProgress)
			r.Get("/progress/continue", s.handler.GetContinueWatching)
			r.Get("/progress/{id}", s.handler.GetProgress)

			r.Get("/subtitles", s.handler.ListSubtitles)
			r.Get("/subtitles/{title}", s.handler.ListSubtitlesForTitle)
			r.Get("/subtitles/{title}/{language}", s.handler.GetSubtitleVTT)
		})
	})
}

func (s *Server) SetScanner(scanner api.ScannerInterface) {
	s.handler.SetScanner(scanner)
}

func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.httpServer.Addr).
		Msg("starting server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}
