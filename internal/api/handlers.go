package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"homeflix/internal/auth"
	"homeflix/internal/catalog"
	"homeflix/internal/progress"
	"homeflix/internal/storage"
	"homeflix/internal/streaming"
	"homeflix/internal/subtitle"
)

const Version = "0.1.0"

type Handler struct {
	storage     *storage.SQLiteStorage
	logger      zerolog.Logger
	scanner     ScannerInterface
	streamer    *streaming.Handler
	auth        *auth.Service
	tracker     *progress.Tracker
	libraryPath string
}

type ScannerInterface interface {
	ScanPath(path string) error
	IsScanning() bool
}

func NewHandler(store *storage.SQLiteStorage, logger zerolog.Logger, authSvc *auth.Service, tracker *progress.Tracker, libraryPath string) *Handler {
	return &Handler{
		storage:     store,
		logger:      logger,
		streamer:    streaming.NewHandler(),
		auth:        authSvc,
		tracker:     tracker,
		libraryPath: libraryPath,
	}
}

func (h *Handler) SetScanner(scanner ScannerInterface) {
	h.scanner = scanner
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	writeJSON(w, http.StatusOK, resp)
}

// Auth handlers

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
	})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Username and password are required")
		return
	}

	user, err := h.auth.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Error().Err(err).Str("username", req.Username).Msg("failed to create user")
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Could not create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// Catalog handlers

// GetCatalog rebuilds the Movies/Shows/Seasons/Episodes tree from the
// stored flat record list. The tree is never persisted; every request
// gets a fresh build.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	records, err := h.storage.ListMediaRecords()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load media records")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load catalog")
		return
	}

	parsed := catalog.Build(records)
	if parsed.Movies == nil {
		parsed.Movies = []catalog.Movie{}
	}
	if parsed.TVShows == nil {
		parsed.TVShows = []catalog.TVShow{}
	}

	writeJSON(w, http.StatusOK, parsed)
}

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	records, err := h.storage.ListMediaRecords()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load media records")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load movies")
		return
	}

	if records == nil {
		records = []catalog.MediaRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) GetMovieByTitle(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")

	rec, err := h.storage.GetMediaRecordByTitle(title)
	if err != nil {
		h.logger.Error().Err(err).Str("title", title).Msg("failed to get movie")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get movie")
		return
	}

	if rec == nil {
		writeError(w, http.StatusNotFound, "MOVIE_NOT_FOUND", "Movie not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) ScanLibrary(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Scanner not initialized")
		return
	}

	if h.scanner.IsScanning() {
		writeJSON(w, http.StatusOK, ScanResponse{
			Status:  "in_progress",
			Message: "Scan already in progress",
		})
		return
	}

	if h.libraryPath == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "No library path configured")
		return
	}

	go func() {
		if err := h.scanner.ScanPath(h.libraryPath); err != nil {
			h.logger.Error().Err(err).Msg("scan failed")
		}
	}()

	writeJSON(w, http.StatusAccepted, ScanResponse{
		Status:  "started",
		Message: "Library scan started",
	})
}

// Streaming

func (h *Handler) StreamMedia(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "id")

	rec, err := h.storage.GetMediaRecord(mediaID)
	if err != nil {
		h.logger.Error().Err(err).Str("id", mediaID).Msg("failed to get media for streaming")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get media")
		return
	}

	if rec == nil {
		writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media not found")
		return
	}

	fullPath := filepath.Join(h.libraryPath, filepath.FromSlash(rec.RelativePath))
	h.streamer.ServeFile(w, r, fullPath)
}

// Progress handlers

func (h *Handler) ReportProgress(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())

	rec, err := h.storage.GetMediaRecord(mediaID)
	if err != nil {
		h.logger.Error().Err(err).Str("id", mediaID).Msg("failed to get media for progress")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get media")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "MEDIA_NOT_FOUND", "Media not found")
		return
	}

	var req ReportProgressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return
	}

	stored, err := h.tracker.Report(r.Context(), userID, mediaID, req.Percent)
	if err != nil {
		h.logger.Error().Err(err).Str("id", mediaID).Msg("failed to save progress")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save progress")
		return
	}

	h.logger.Debug().
		Str("user_id", userID).
		Str("media_id", mediaID).
		Float64("percent", stored.Percent).
		Msg("progress saved")

	writeJSON(w, http.StatusOK, stored)
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	mediaID := chi.URLParam(r, "id")
	userID := auth.UserID(r.Context())

	rec, err := h.tracker.Get(r.Context(), userID, mediaID)
	if err != nil {
		if errors.Is(err, progress.ErrNoProgress) {
			// Absent is not zero: the client uses this to skip the
			// resume prompt entirely.
			writeError(w, http.StatusNotFound, "NO_PROGRESS", "No progress recorded")
			return
		}
		h.logger.Error().Err(err).Str("id", mediaID).Msg("failed to get progress")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get progress")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) GetContinueWatching(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	items, err := h.tracker.ContinueWatching(r.Context(), userID, 20)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to get continue watching")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get continue watching")
		return
	}

	if items == nil {
		items = []progress.Entry{}
	}

	writeJSON(w, http.StatusOK, ContinueWatchingResponse{Items: items})
}

// Subtitle handlers

func (h *Handler) ListSubtitles(w http.ResponseWriter, r *http.Request) {
	subs, err := h.storage.ListSubtitles()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list subtitles")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list subtitles")
		return
	}

	if subs == nil {
		subs = []storage.Subtitle{}
	}
	writeJSON(w, http.StatusOK, SubtitlesResponse{Subtitles: subs})
}

func (h *Handler) ListSubtitlesForTitle(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")

	subs, err := h.storage.ListSubtitlesByTitle(title)
	if err != nil {
		h.logger.Error().Err(err).Str("title", title).Msg("failed to list subtitles")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list subtitles")
		return
	}

	if len(subs) == 0 {
		writeError(w, http.StatusNotFound, "SUBTITLES_NOT_FOUND", "No subtitles found for this title")
		return
	}

	writeJSON(w, http.StatusOK, SubtitlesResponse{Subtitles: subs})
}

// GetSubtitleVTT serves a stored SRT file transcoded to WebVTT.
func (h *Handler) GetSubtitleVTT(w http.ResponseWriter, r *http.Request) {
	title := pathParam(r, "title")
	language := chi.URLParam(r, "language")

	sub, err := h.storage.GetSubtitle(title, language)
	if err != nil {
		h.logger.Error().Err(err).Str("title", title).Msg("failed to get subtitle")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get subtitle")
		return
	}
	if sub == nil {
		writeError(w, http.StatusNotFound, "SUBTITLE_NOT_FOUND", "Subtitle not found")
		return
	}

	fullPath := filepath.Join(h.libraryPath, filepath.FromSlash(sub.Path))
	file, err := os.Open(fullPath)
	if err != nil {
		writeError(w, http.StatusNotFound, "SUBTITLE_NOT_FOUND", "Subtitle file not found on disk")
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "text/vtt")
	if err := subtitle.ConvertToVTT(file, w); err != nil {
		h.logger.Error().Err(err).Str("path", sub.Path).Msg("subtitle conversion failed")
	}
}

// pathParam returns a chi URL parameter with percent-escapes decoded,
// so titles with spaces round-trip through the URL.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(value); err == nil {
		return decoded
	}
	return value
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
