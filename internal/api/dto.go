package api

import (
	"homeflix/internal/progress"
	"homeflix/internal/storage"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ScanResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Progress DTOs

type ReportProgressRequest struct {
	Percent float64 `json:"percent"`
}

type ContinueWatchingResponse struct {
	Items []progress.Entry `json:"items"`
}

type SubtitlesResponse struct {
	Subtitles []storage.Subtitle `json:"subtitles"`
}
