package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"homeflix/internal/catalog"
	"homeflix/internal/progress"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &SQLiteStorage{db: db}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *SQLiteStorage) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS media_records (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		path TEXT NOT NULL UNIQUE,
		file_modified_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_media_title ON media_records(title);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS progress (
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		media_id TEXT NOT NULL,
		percent REAL NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, media_id)
	);

	CREATE INDEX IF NOT EXISTS idx_progress_updated ON progress(user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS subtitles (
		id TEXT PRIMARY KEY,
		media_title TEXT NOT NULL,
		language TEXT NOT NULL,
		path TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (media_title, language)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Media records

// UpsertMediaRecord inserts a scanned record, updating title and mtime
// if the path is already known.
func (s *SQLiteStorage) UpsertMediaRecord(rec *catalog.MediaRecord, modifiedAt time.Time) error {
	_, err := s.db.Exec(`
		INSERT INTO media_records (id, title, path, file_modified_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			file_modified_at = excluded.file_modified_at,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Title, rec.RelativePath, modifiedAt, time.Now(), time.Now())

	return err
}

func (s *SQLiteStorage) GetMediaRecord(id string) (*catalog.MediaRecord, error) {
	row := s.db.QueryRow(`SELECT id, title, path FROM media_records WHERE id = ?`, id)

	var rec catalog.MediaRecord
	err := row.Scan(&rec.ID, &rec.Title, &rec.RelativePath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func (s *SQLiteStorage) GetMediaRecordByTitle(title string) (*catalog.MediaRecord, error) {
	row := s.db.QueryRow(`SELECT id, title, path FROM media_records WHERE title = ?`, title)

	var rec catalog.MediaRecord
	err := row.Scan(&rec.ID, &rec.Title, &rec.RelativePath)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListMediaRecords returns the flat record list the catalog is built from.
func (s *SQLiteStorage) ListMediaRecords() ([]catalog.MediaRecord, error) {
	rows, err := s.db.Query(`SELECT id, title, path FROM media_records ORDER BY title`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []catalog.MediaRecord
	for rows.Next() {
		var rec catalog.MediaRecord
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.RelativePath); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// AllMediaPaths returns id -> relative path for every record, for the
// scanner's cleanup pass.
func (s *SQLiteStorage) AllMediaPaths() (map[string]string, error) {
	rows, err := s.db.Query("SELECT id, path FROM media_records")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	paths := make(map[string]string)
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			return nil, err
		}
		paths[id] = path
	}
	return paths, rows.Err()
}

func (s *SQLiteStorage) DeleteMediaRecord(id string) error {
	_, err := s.db.Exec("DELETE FROM media_records WHERE id = ?", id)
	return err
}

// Users

func (s *SQLiteStorage) CreateUser(u *User) error {
	_, err := s.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, u.ID, u.Username, u.Email, u.PasswordHash, time.Now())
	return err
}

func (s *SQLiteStorage) GetUserByUsername(username string) (*User, error) {
	row := s.db.QueryRow(`
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE username = ?
	`, username)

	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// Progress
//
// These satisfy progress.Store. The single-statement upsert is what
// makes concurrent heartbeats for one (user, media) key last-writer-wins
// instead of a torn write.

func (s *SQLiteStorage) UpsertProgress(ctx context.Context, rec *progress.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (user_id, media_id, percent, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, media_id) DO UPDATE SET
			percent = excluded.percent,
			updated_at = excluded.updated_at
	`, rec.UserID, rec.MediaID, rec.Percent, rec.UpdatedAt)
	return err
}

func (s *SQLiteStorage) FetchProgress(ctx context.Context, userID, mediaID string) (*progress.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, media_id, percent, updated_at
		FROM progress WHERE user_id = ? AND media_id = ?
	`, userID, mediaID)

	var rec progress.Record
	err := row.Scan(&rec.UserID, &rec.MediaID, &rec.Percent, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ListInProgress returns the user's partially watched media, most recent
// first. Percent between 2 and 95 counts as "in progress".
func (s *SQLiteStorage) ListInProgress(ctx context.Context, userID string, limit int) ([]progress.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.user_id, p.media_id, p.percent, p.updated_at, m.title, m.path
		FROM progress p
		JOIN media_records m ON p.media_id = m.id
		WHERE p.user_id = ? AND p.percent > 2 AND p.percent < 95
		ORDER BY p.updated_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []progress.Entry
	for rows.Next() {
		var e progress.Entry
		if err := rows.Scan(
			&e.Record.UserID, &e.Record.MediaID, &e.Record.Percent, &e.Record.UpdatedAt,
			&e.Title, &e.Path,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Subtitles

func (s *SQLiteStorage) UpsertSubtitle(sub *Subtitle) error {
	_, err := s.db.Exec(`
		INSERT INTO subtitles (id, media_title, language, path, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(media_title, language) DO UPDATE SET path = excluded.path
	`, sub.ID, sub.MediaTitle, sub.Language, sub.Path, time.Now())
	return err
}

func (s *SQLiteStorage) ListSubtitles() ([]Subtitle, error) {
	rows, err := s.db.Query(`
		SELECT id, media_title, language, path, created_at
		FROM subtitles ORDER BY media_title, language
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubtitles(rows)
}

func (s *SQLiteStorage) ListSubtitlesByTitle(title string) ([]Subtitle, error) {
	rows, err := s.db.Query(`
		SELECT id, media_title, language, path, created_at
		FROM subtitles WHERE media_title = ? ORDER BY language
	`, title)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubtitles(rows)
}

func (s *SQLiteStorage) GetSubtitle(title, language string) (*Subtitle, error) {
	row := s.db.QueryRow(`
		SELECT id, media_title, language, path, created_at
		FROM subtitles WHERE media_title = ? AND language = ?
	`, title, language)

	var sub Subtitle
	err := row.Scan(&sub.ID, &sub.MediaTitle, &sub.Language, &sub.Path, &sub.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

func (s *SQLiteStorage) DeleteSubtitle(id string) error {
	_, err := s.db.Exec("DELETE FROM subtitles WHERE id = ?", id)
	return err
}

func scanSubtitles(rows *sql.Rows) ([]Subtitle, error) {
	var subs []Subtitle
	for rows.Next() {
		var sub Subtitle
		if err := rows.Scan(&sub.ID, &sub.MediaTitle, &sub.Language, &sub.Path, &sub.CreatedAt); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
