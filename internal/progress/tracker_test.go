package progress

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	records map[[2]string]*Record
}

func newMemStore() *memStore {
	return &memStore{records: make(map[[2]string]*Record)}
}

func (m *memStore) UpsertProgress(_ context.Context, rec *Record) error {
	cp := *rec
	m.records[[2]string{rec.UserID, rec.MediaID}] = &cp
	return nil
}

func (m *memStore) FetchProgress(_ context.Context, userID, mediaID string) (*Record, error) {
	rec, ok := m.records[[2]string{userID, mediaID}]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *memStore) ListInProgress(_ context.Context, userID string, limit int) ([]Entry, error) {
	var entries []Entry
	for key, rec := range m.records {
		if key[0] != userID || len(entries) >= limit {
			continue
		}
		entries = append(entries, Entry{Record: *rec})
	}
	return entries, nil
}

func newTestTracker() (*Tracker, *memStore) {
	store := newMemStore()
	tr := NewTracker(store, zerolog.Nop())
	tr.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return tr, store
}

func TestTracker_ReportAndGet(t *testing.T) {
	tr, _ := newTestTracker()
	ctx := context.Background()

	rec, err := tr.Report(ctx, "u1", "m1", 42)
	require.NoError(t, err)
	assert.Equal(t, 42.0, rec.Percent)

	got, err := tr.Get(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 42.0, got.Percent)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "m1", got.MediaID)
}

func TestTracker_GetBeforeAnyReport(t *testing.T) {
	tr, _ := newTestTracker()

	_, err := tr.Get(context.Background(), "u1", "m1")
	assert.ErrorIs(t, err, ErrNoProgress)
}

func TestTracker_ReportOverwrites(t *testing.T) {
	tr, _ := newTestTracker()
	ctx := context.Background()

	_, err := tr.Report(ctx, "u1", "m1", 10)
	require.NoError(t, err)
	_, err = tr.Report(ctx, "u1", "m1", 55)
	require.NoError(t, err)

	got, err := tr.Get(ctx, "u1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 55.0, got.Percent)
}

func TestTracker_KeysAreIndependent(t *testing.T) {
	tr, _ := newTestTracker()
	ctx := context.Background()

	_, err := tr.Report(ctx, "u1", "m1", 30)
	require.NoError(t, err)

	_, err = tr.Get(ctx, "u2", "m1")
	assert.ErrorIs(t, err, ErrNoProgress)
	_, err = tr.Get(ctx, "u1", "m2")
	assert.ErrorIs(t, err, ErrNoProgress)
}

func TestTracker_Clamping(t *testing.T) {
	tests := []struct {
		name string
		raw  float64
		want float64
	}{
		{"above range", 150, 100},
		{"below range", -30, 0},
		{"upper bound", 100, 100},
		{"lower bound", 0, 0},
		{"nan", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 100},
		{"negative infinity", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, _ := newTestTracker()
			ctx := context.Background()

			rec, err := tr.Report(ctx, "u1", "m1", tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Percent)

			got, err := tr.Get(ctx, "u1", "m1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Percent)
		})
	}
}

func TestTracker_ReportSetsUpdatedAt(t *testing.T) {
	tr, _ := newTestTracker()

	rec, err := tr.Report(context.Background(), "u1", "m1", 5)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), rec.UpdatedAt)
}
