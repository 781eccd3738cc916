// Package usage tracks module usage statistics and favorites.
//
// Spawn counts, last-used timestamps and favorite flags persist across
// sessions in a small JSON file, and feed the quick-access and recents
// listings of the module browser.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/vk/patchbaygo/internal/ctxlog"
)

// MaxQuickAccess is the default length of the quick-access list.
const MaxQuickAccess = 8

const fileVersion = 1

// Stats holds the usage data of a single module type.
type Stats struct {
	Name       string     `json:"name"`
	SpawnCount int        `json:"spawn_count"`
	LastUsed   *time.Time `json:"last_used,omitempty"`
	Favorite   bool       `json:"is_favorite"`
}

// fileFormat is the on-disk envelope.
type fileFormat struct {
	Version int               `json:"version"`
	Modules map[string]*Stats `json:"modules"`
}

// Tracker records and persists module usage.
type Tracker struct {
	mu   sync.Mutex
	path string
	data map[string]*Stats
	now  func() time.Time
}

// DefaultPath returns the per-user location of the usage file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}
	return filepath.Join(dir, "patchbay", "module_usage.json"), nil
}

// Open loads the tracker from path. A missing file starts empty; a corrupt
// file is logged and treated as empty rather than blocking startup.
func Open(ctx context.Context, path string) *Tracker {
	t := &Tracker{
		path: path,
		data: make(map[string]*Stats),
		now:  time.Now,
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			ctxlog.FromContext(ctx).Warn("Could not read usage data.", "path", path, "error", err)
		}
		return t
	}

	var f fileFormat
	if err := json.Unmarshal(raw, &f); err != nil {
		ctxlog.FromContext(ctx).Warn("Could not parse usage data, starting fresh.", "path", path, "error", err)
		return t
	}

	for name, stats := range f.Modules {
		stats.Name = name
		t.data[name] = stats
	}
	return t
}

// save writes the current state back to disk, creating the directory on
// first use. Callers hold t.mu.
func (t *Tracker) save() error {
	if err := os.MkdirAll(filepath.Dir(t.path), 0o755); err != nil {
		return fmt.Errorf("failed to create usage data dir: %w", err)
	}

	raw, err := json.MarshalIndent(fileFormat{Version: fileVersion, Modules: t.data}, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(t.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write usage data: %w", err)
	}
	return nil
}

func (t *Tracker) stats(name string) *Stats {
	s, ok := t.data[name]
	if !ok {
		s = &Stats{Name: name}
		t.data[name] = s
	}
	return s
}

// RecordSpawn notes that a module of the given type was instantiated.
func (t *Tracker) RecordSpawn(name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats(name)
	s.SpawnCount++
	now := t.now()
	s.LastUsed = &now
	return t.save()
}

// ToggleFavorite flips the favorite flag and returns the new state.
func (t *Tracker) ToggleFavorite(name string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats(name)
	s.Favorite = !s.Favorite
	return s.Favorite, t.save()
}

// SetFavorite sets the favorite flag explicitly.
func (t *Tracker) SetFavorite(name string, favorite bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stats(name).Favorite = favorite
	return t.save()
}

// IsFavorite reports whether a module is favorited.
func (t *Tracker) IsFavorite(name string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.data[name]
	return ok && s.Favorite
}

// SpawnCount returns how often a module has been instantiated.
func (t *Tracker) SpawnCount(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s, ok := t.data[name]; ok {
		return s.SpawnCount
	}
	return 0
}

// Favorites returns the favorited module names in sorted order.
func (t *Tracker) Favorites() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []string
	for name, s := range t.data {
		if s.Favorite {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// QuickAccess returns up to max module names for the quick-access bar:
// favorites first (by spawn count), then the most used of the rest. Modules
// never spawned and not favorited don't qualify.
func (t *Tracker) QuickAccess(max int) []string {
	if max <= 0 {
		max = MaxQuickAccess
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var favorites, others []*Stats
	for _, s := range t.data {
		switch {
		case s.Favorite:
			favorites = append(favorites, s)
		case s.SpawnCount > 0:
			others = append(others, s)
		}
	}

	byUse := func(list []*Stats) {
		sort.Slice(list, func(i, j int) bool {
			if list[i].SpawnCount != list[j].SpawnCount {
				return list[i].SpawnCount > list[j].SpawnCount
			}
			return list[i].Name < list[j].Name
		})
	}
	byUse(favorites)
	byUse(others)

	out := make([]string, 0, max)
	for _, s := range favorites {
		if len(out) == max {
			return out
		}
		out = append(out, s.Name)
	}
	for _, s := range others {
		if len(out) == max {
			return out
		}
		out = append(out, s.Name)
	}
	return out
}

// RecentlyUsed returns up to max module names ordered by last use, newest
// first.
func (t *Tracker) RecentlyUsed(max int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var used []*Stats
	for _, s := range t.data {
		if s.LastUsed != nil {
			used = append(used, s)
		}
	}
	sort.Slice(used, func(i, j int) bool {
		if !used[i].LastUsed.Equal(*used[j].LastUsed) {
			return used[i].LastUsed.After(*used[j].LastUsed)
		}
		return used[i].Name < used[j].Name
	})

	if max > 0 && len(used) > max {
		used = used[:max]
	}
	out := make([]string, len(used))
	for i, s := range used {
		out[i] = s.Name
	}
	return out
}

// ClearUsage resets spawn counts and timestamps but keeps favorites.
func (t *Tracker) ClearUsage() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, s := range t.data {
		s.SpawnCount = 0
		s.LastUsed = nil
	}
	return t.save()
}

// ClearAll wipes everything including favorites.
func (t *Tracker) ClearAll() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data = make(map[string]*Stats)
	return t.save()
}
