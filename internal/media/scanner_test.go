package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeflix/internal/storage"
)

func setupScanner(t *testing.T) (*Scanner, *storage.SQLiteStorage, string) {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	root := t.TempDir()
	return NewScanner(store, zerolog.Nop()), store, root
}

func writeFile(t *testing.T, root string, parts ...string) string {
	t.Helper()
	full := filepath.Join(append([]string{root}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0644))
	return full
}

func TestScanner_RecordsVideosWithRelativeSlashPaths(t *testing.T) {
	scanner, store, root := setupScanner(t)

	writeFile(t, root, "Movies", "Dune.mkv")
	writeFile(t, root, "TV Shows", "Show", "Season 01", "Show - S01E02.mkv")
	writeFile(t, root, "Movies", "notes.txt")

	require.NoError(t, scanner.ScanPath(root))

	records, err := store.ListMediaRecords()
	require.NoError(t, err)
	require.Len(t, records, 2)

	paths := []string{records[0].RelativePath, records[1].RelativePath}
	assert.Contains(t, paths, "Movies/Dune.mkv")
	assert.Contains(t, paths, "TV Shows/Show/Season 01/Show - S01E02.mkv")
}

func TestScanner_TitleIsFilenameWithoutExtension(t *testing.T) {
	scanner, store, root := setupScanner(t)

	writeFile(t, root, "Movies", "Dune.mkv")
	require.NoError(t, scanner.ScanPath(root))

	rec, err := store.GetMediaRecordByTitle("Dune")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotEmpty(t, rec.ID)
}

func TestScanner_RescanIsStable(t *testing.T) {
	scanner, store, root := setupScanner(t)

	writeFile(t, root, "Movies", "Dune.mkv")

	require.NoError(t, scanner.ScanPath(root))
	require.NoError(t, scanner.ScanPath(root))

	records, err := store.ListMediaRecords()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestScanner_CleanupRemovesDeletedFiles(t *testing.T) {
	scanner, store, root := setupScanner(t)

	writeFile(t, root, "Movies", "Keep.mkv")
	gone := writeFile(t, root, "Movies", "Gone.mkv")

	require.NoError(t, scanner.ScanPath(root))
	require.NoError(t, os.Remove(gone))
	require.NoError(t, scanner.ScanPath(root))

	records, err := store.ListMediaRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Keep", records[0].Title)
}

func TestScanner_SkipsHiddenDirectories(t *testing.T) {
	scanner, store, root := setupScanner(t)

	writeFile(t, root, ".trash", "Deleted.mkv")
	writeFile(t, root, "Movies", "Dune.mkv")

	require.NoError(t, scanner.ScanPath(root))

	records, err := store.ListMediaRecords()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Dune", records[0].Title)
}

func TestScanner_SubtitleSidecars(t *testing.T) {
	scanner, store, root := setupScanner(t)

	writeFile(t, root, "Movies", "Dune.mkv")
	writeFile(t, root, "Movies", "Dune.en.srt")
	writeFile(t, root, "Movies", "Dune.fr.srt")
	writeFile(t, root, "Movies", "Heat.srt")

	require.NoError(t, scanner.ScanPath(root))

	subs, err := store.ListSubtitlesByTitle("Dune")
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "en", subs[0].Language)
	assert.Equal(t, "fr", subs[1].Language)

	// No language code in the filename defaults to English.
	heat, err := store.GetSubtitle("Heat", "en")
	require.NoError(t, err)
	require.NotNil(t, heat)
	assert.Equal(t, "Movies/Heat.srt", heat.Path)
}
