// Package progress tracks per-user watch position as a percentage,
// keyed by (user, media). State lives entirely in the backing store;
// concurrent reports for the same key resolve last-writer-wins through
// the store's single-statement upsert.
package progress

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// ErrNoProgress is returned by Get when no progress has ever been
// reported for the key. Callers branch on it to tell "never watched"
// apart from "watched 0%".
var ErrNoProgress = errors.New("no progress recorded")

// Record is one user's watch state for one media item.
// Percent is always within [0, 100].
type Record struct {
	UserID    string    `json:"user_id"`
	MediaID   string    `json:"media_id"`
	Percent   float64   `json:"percent"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Entry pairs a progress record with the media it belongs to, for
// continue-watching lists.
type Entry struct {
	Record Record `json:"progress"`
	Title  string `json:"title"`
	Path   string `json:"path"`
}

// Store is the persistence boundary. Upsert must be atomic per
// (UserID, MediaID) key; Fetch returns (nil, nil) when no record exists.
type Store interface {
	UpsertProgress(ctx context.Context, rec *Record) error
	FetchProgress(ctx context.Context, userID, mediaID string) (*Record, error)
	ListInProgress(ctx context.Context, userID string, limit int) ([]Entry, error)
}

type Tracker struct {
	store  Store
	logger zerolog.Logger
	now    func() time.Time
}

func NewTracker(store Store, logger zerolog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Report upserts the watch percentage for (userID, mediaID). Out-of-range
// and non-finite input is clamped, never rejected: playback heartbeats
// must not fail on a client rounding a position past the duration.
func (t *Tracker) Report(ctx context.Context, userID, mediaID string, rawPercent float64) (*Record, error) {
	percent := clamp(rawPercent)
	if percent != rawPercent {
		t.logger.Debug().
			Str("user_id", userID).
			Str("media_id", mediaID).
			Float64("raw", rawPercent).
			Float64("clamped", percent).
			Msg("clamped out-of-range progress")
	}

	rec := &Record{
		UserID:    userID,
		MediaID:   mediaID,
		Percent:   percent,
		UpdatedAt: t.now().UTC(),
	}
	if err := t.store.UpsertProgress(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get returns the stored record, or ErrNoProgress when none exists.
func (t *Tracker) Get(ctx context.Context, userID, mediaID string) (*Record, error) {
	rec, err := t.store.FetchProgress(ctx, userID, mediaID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrNoProgress
	}
	return rec, nil
}

// ContinueWatching lists the user's partially watched media, most
// recently updated first.
func (t *Tracker) ContinueWatching(ctx context.Context, userID string, limit int) ([]Entry, error) {
	return t.store.ListInProgress(ctx, userID, limit)
}

// clamp constrains percent to [0, 100]. NaN maps to 0: a heartbeat with
// a garbage position reads as "not watched" rather than poisoning the
// record.
func clamp(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
