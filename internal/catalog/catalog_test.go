package catalog

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slateplayer/slate/internal/playlist"
	"github.com/slateplayer/slate/internal/scan"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schemaSQL)
	require.NoError(t, err)
	return NewStore(db)
}

func sampleResult() *scan.Result {
	return &scan.Result{
		Entries: []playlist.Entry{
			{Path: "/media/a.mp4", Format: playlist.FormatMP4},
			{Path: "/media/b.mkv", Format: playlist.FormatMKV},
			{Path: "/media/c.gif", Format: playlist.FormatGIF},
		},
		Warnings: []scan.Warning{{Path: "/media/locked"}},
		Markers:  []string{"/media/private/.ignore"},
	}
}

func TestSaveScan_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	started := time.Now().Add(-time.Minute)
	finished := time.Now()

	id, err := store.SaveScan([]string{"/media"}, started, finished, sampleResult())
	require.NoError(t, err)
	require.NotZero(t, id)

	scans, err := store.ListScans(0)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, id, scans[0].ID)
	assert.Equal(t, []string{"/media"}, scans[0].Roots)
	assert.Equal(t, 3, scans[0].EntryCount)
	assert.Equal(t, 1, scans[0].WarningCount)

	entries, err := store.Entries(id)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Playlist order is the persisted position order.
	assert.Equal(t, "/media/a.mp4", entries[0].Path)
	assert.Equal(t, playlist.FormatMP4, entries[0].Format)
	assert.Equal(t, "/media/c.gif", entries[2].Path)

	markers, err := store.Markers(id)
	require.NoError(t, err)
	assert.Equal(t, []string{"/media/private/.ignore"}, markers)
}

func TestSaveScan_DuplicatePathRejected(t *testing.T) {
	store := setupTestStore(t)
	res := &scan.Result{
		Entries: []playlist.Entry{
			{Path: "/media/a.mp4", Format: playlist.FormatMP4},
			{Path: "/media/a.mp4", Format: playlist.FormatMP4},
		},
	}

	_, err := store.SaveScan([]string{"/media"}, time.Now(), time.Now(), res)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSaveScan_FailureRollsBack(t *testing.T) {
	store := setupTestStore(t)
	res := &scan.Result{
		Entries: []playlist.Entry{
			{Path: "/media/a.mp4", Format: playlist.FormatMP4},
			{Path: "/media/a.mp4", Format: playlist.FormatMP4},
		},
	}
	_, err := store.SaveScan([]string{"/media"}, time.Now(), time.Now(), res)
	require.Error(t, err)

	scans, err := store.ListScans(0)
	require.NoError(t, err)
	assert.Empty(t, scans, "a failed save must leave no partial scan behind")
}

func TestListScans_NewestFirstWithLimit(t *testing.T) {
	store := setupTestStore(t)
	for i := 0; i < 3; i++ {
		_, err := store.SaveScan([]string{"/media"}, time.Now(), time.Now(), sampleResult())
		require.NoError(t, err)
	}

	scans, err := store.ListScans(2)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Greater(t, scans[0].ID, scans[1].ID)
}

func TestPrune_RemovesOldScansAndEntries(t *testing.T) {
	store := setupTestStore(t)
	old := time.Now().Add(-48 * time.Hour)
	oldID, err := store.SaveScan([]string{"/media"}, old, old, sampleResult())
	require.NoError(t, err)
	newID, err := store.SaveScan([]string{"/media"}, time.Now(), time.Now(), sampleResult())
	require.NoError(t, err)

	n, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	scans, err := store.ListScans(0)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, newID, scans[0].ID)

	// ON DELETE CASCADE clears the pruned scan's entries.
	entries, err := store.Entries(oldID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOpen_CreatesFileAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slate.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	id, err := store.SaveScan([]string{"/media"}, time.Now(), time.Now(), sampleResult())
	require.NoError(t, err)
	assert.NotZero(t, id)
}
