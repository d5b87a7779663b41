package storage

import "time"

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
}

// Subtitle links a sidecar subtitle file to a media title.
// One row per (MediaTitle, Language); a rescan replaces the path.
type Subtitle struct {
	ID         string    `json:"id"`
	MediaTitle string    `json:"media_title"`
	Language   string    `json:"language"`
	Path       string    `json:"path"`
	CreatedAt  time.Time `json:"-"`
}
