package usage

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTracker(t *testing.T) *Tracker {
	t.Helper()
	path := filepath.Join(t.TempDir(), "module_usage.json")
	return Open(context.Background(), path)
}

func TestTracker_RecordSpawn(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.RecordSpawn("oscillator"))
	require.NoError(t, tracker.RecordSpawn("oscillator"))
	require.NoError(t, tracker.RecordSpawn("delay"))

	assert.Equal(t, 2, tracker.SpawnCount("oscillator"))
	assert.Equal(t, 1, tracker.SpawnCount("delay"))
	assert.Equal(t, 0, tracker.SpawnCount("never_used"))
}

func TestTracker_Favorites(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t)

	fav, err := tracker.ToggleFavorite("bitcrusher")
	require.NoError(t, err)
	assert.True(t, fav)
	require.NoError(t, tracker.SetFavorite("envelope", true))

	assert.True(t, tracker.IsFavorite("bitcrusher"))
	assert.Equal(t, []string{"bitcrusher", "envelope"}, tracker.Favorites())

	fav, err = tracker.ToggleFavorite("bitcrusher")
	require.NoError(t, err)
	assert.False(t, fav)
	assert.False(t, tracker.IsFavorite("bitcrusher"))
}

func TestTracker_Persistence(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "module_usage.json")

	first := Open(context.Background(), path)
	require.NoError(t, first.RecordSpawn("oscillator"))
	require.NoError(t, first.SetFavorite("delay", true))

	second := Open(context.Background(), path)
	assert.Equal(t, 1, second.SpawnCount("oscillator"))
	assert.True(t, second.IsFavorite("delay"))
}

func TestTracker_CorruptFileStartsFresh(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "module_usage.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	tracker := Open(context.Background(), path)
	assert.Equal(t, 0, tracker.SpawnCount("oscillator"))

	// A write after the failed load replaces the corrupt file.
	require.NoError(t, tracker.RecordSpawn("oscillator"))
	reloaded := Open(context.Background(), path)
	assert.Equal(t, 1, reloaded.SpawnCount("oscillator"))
}

func TestTracker_QuickAccess(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, tracker.RecordSpawn("oscillator"))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, tracker.RecordSpawn("delay"))
	}
	require.NoError(t, tracker.RecordSpawn("clip"))
	require.NoError(t, tracker.SetFavorite("envelope", true))
	require.NoError(t, tracker.SetFavorite("delay", true))

	// Favorites lead, ordered by use, then the rest by use.
	assert.Equal(t, []string{"delay", "envelope", "oscillator", "clip"}, tracker.QuickAccess(0))
	assert.Equal(t, []string{"delay", "envelope"}, tracker.QuickAccess(2))
}

func TestTracker_RecentlyUsed(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	tracker.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}

	require.NoError(t, tracker.RecordSpawn("oscillator"))
	require.NoError(t, tracker.RecordSpawn("delay"))
	require.NoError(t, tracker.RecordSpawn("clip"))

	assert.Equal(t, []string{"clip", "delay", "oscillator"}, tracker.RecentlyUsed(0))
	assert.Equal(t, []string{"clip", "delay"}, tracker.RecentlyUsed(2))
}

func TestTracker_Clear(t *testing.T) {
	t.Parallel()
	tracker := newTestTracker(t)

	require.NoError(t, tracker.RecordSpawn("oscillator"))
	require.NoError(t, tracker.SetFavorite("oscillator", true))

	require.NoError(t, tracker.ClearUsage())
	assert.Equal(t, 0, tracker.SpawnCount("oscillator"))
	assert.True(t, tracker.IsFavorite("oscillator"))

	require.NoError(t, tracker.ClearAll())
	assert.False(t, tracker.IsFavorite("oscillator"))
	assert.Empty(t, tracker.Favorites())
}
