package media

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/google/uuid"

	"homeflix/internal/catalog"
	"homeflix/internal/storage"
)

// Scanner walks the library root and records every supported video file
// as a flat MediaRecord. Paths are stored relative to the root with
// forward slashes, which is the contract the catalog parser relies on.
type Scanner struct {
	storage  *storage.SQLiteStorage
	logger   zerolog.Logger
	scanning bool
	mu       sync.Mutex
}

func NewScanner(store *storage.SQLiteStorage, logger zerolog.Logger) *Scanner {
	return &Scanner{
		storage: store,
		logger:  logger,
	}
}

func (s *Scanner) IsScanning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scanning
}

// ScanPath scans the library rooted at libraryPath. Only one scan runs
// at a time; a second call while scanning is a no-op.
func (s *Scanner) ScanPath(libraryPath string) error {
	s.mu.Lock()
	if s.scanning {
		s.mu.Unlock()
		return nil
	}
	s.scanning = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.scanning = false
		s.mu.Unlock()
	}()

	if libraryPath == "" {
		s.logger.Warn().Msg("no library path configured")
		return nil
	}

	info, err := os.Stat(libraryPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return nil
	}

	libraryPath = filepath.Clean(libraryPath)
	s.logger.Info().Str("path", libraryPath).Msg("scanning library")

	// Cleanup deleted files first
	if err := s.CleanupDeletedFiles(libraryPath); err != nil {
		s.logger.Warn().Err(err).Msg("cleanup failed, continuing with scan")
	}

	return s.walkLibrary(libraryPath)
}

func (s *Scanner) walkLibrary(root string) error {
	var added int

	err := filepath.WalkDir(root, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Error().Err(err).Str("path", fullPath).Msg("walk error")
			return nil
		}

		if d.IsDir() {
			// Skip hidden directories
			if strings.HasPrefix(d.Name(), ".") && fullPath != root {
				return filepath.SkipDir
			}
			return nil
		}

		if IsSupportedVideo(d.Name()) {
			if err := s.recordVideo(root, fullPath, d); err != nil {
				s.logger.Error().Err(err).Str("path", fullPath).Msg("failed to record media")
			} else {
				added++
			}
			return nil
		}

		if IsSubtitleFile(d.Name()) {
			if err := s.recordSubtitle(root, fullPath); err != nil {
				s.logger.Error().Err(err).Str("path", fullPath).Msg("failed to record subtitle")
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int("media", added).Msg("scan completed")
	return nil
}

func (s *Scanner) recordVideo(root, fullPath string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return err
	}

	relPath, err := relativePath(root, fullPath)
	if err != nil {
		return err
	}

	title := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
	rec := &catalog.MediaRecord{
		ID:           generateID(relPath),
		Title:        title,
		RelativePath: relPath,
	}

	if err := s.storage.UpsertMediaRecord(rec, info.ModTime()); err != nil {
		return err
	}

	s.logger.Debug().Str("title", title).Str("path", relPath).Msg("added media record")
	return nil
}

// subtitleLangRe matches a language code embedded in the filename, e.g.
// "movie.en.srt". When absent the subtitle defaults to English.
var subtitleLangRe = regexp.MustCompile(`(?i)\.([a-z]{2,3})\.srt$`)

func (s *Scanner) recordSubtitle(root, fullPath string) error {
	relPath, err := relativePath(root, fullPath)
	if err != nil {
		return err
	}

	name := filepath.Base(fullPath)
	language := "en"
	title := strings.TrimSuffix(name, ".srt")
	if m := subtitleLangRe.FindStringSubmatch(name); m != nil {
		language = strings.ToLower(m[1])
		title = strings.TrimSuffix(name, m[0])
	}

	sub := &storage.Subtitle{
		ID:         uuid.NewString(),
		MediaTitle: title,
		Language:   language,
		Path:       relPath,
	}

	if err := s.storage.UpsertSubtitle(sub); err != nil {
		return err
	}

	s.logger.Debug().Str("title", title).Str("language", language).Msg("added subtitle")
	return nil
}

// relativePath converts fullPath to a root-relative, slash-separated
// path. Backslash separators from Windows sources are normalized here so
// downstream code only ever sees "/".
func relativePath(root, fullPath string) (string, error) {
	rel, err := filepath.Rel(root, fullPath)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

func generateID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

// CleanupDeletedFiles removes database entries for files that no longer
// exist on disk.
func (s *Scanner) CleanupDeletedFiles(root string) error {
	paths, err := s.storage.AllMediaPaths()
	if err != nil {
		return err
	}

	deleted := 0
	for id, relPath := range paths {
		fullPath := filepath.Join(root, filepath.FromSlash(relPath))
		if _, err := os.Stat(fullPath); os.IsNotExist(err) {
			if err := s.storage.DeleteMediaRecord(id); err != nil {
				s.logger.Error().Err(err).Str("path", relPath).Msg("failed to delete media record")
			} else {
				deleted++
				s.logger.Debug().Str("path", relPath).Msg("deleted missing media record")
			}
		}
	}

	if deleted > 0 {
		s.logger.Info().Int("media", deleted).Msg("cleanup completed")
	}

	return nil
}
