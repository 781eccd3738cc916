// Package library indexes the on-disk patch collection.
//
// The library directory is scanned recursively for patch files; folder
// structure becomes the category, mirroring how the module catalog is
// organized. Lookups, category listing, and search back the patch browsing
// operations of the CLI.
package library

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/patchbaygo/internal/ctxlog"
	"github.com/vk/patchbaygo/internal/fsutil"
	"github.com/vk/patchbaygo/internal/patch"
	"github.com/vk/patchbaygo/internal/registry"
)

// Entry is one discovered patch file.
type Entry struct {
	// Name is the file stem and the key used to load the patch.
	Name string

	// Path is the full path to the patch file.
	Path string

	// Category is the slash-joined, title-cased folder path, or
	// "Uncategorized" for files at the library root.
	Category string
}

// DisplayName formats the entry name for listings.
func (e Entry) DisplayName() string {
	return strings.NewReplacer("_", " ", "-", " ").Replace(e.Name)
}

// Library is a scanned snapshot of the patch collection.
type Library struct {
	dir     string
	entries map[string]Entry
}

// Scan walks the library directory and indexes every patch file. Later
// duplicates of a name shadow earlier ones, matching the flat namespace the
// original browser kept.
func Scan(ctx context.Context, dir string) (*Library, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindFilesByExtension(dir, patch.Extension)
	if err != nil {
		return nil, fmt.Errorf("failed to scan patch library %s: %w", dir, err)
	}

	lib := &Library{dir: dir, entries: make(map[string]Entry, len(files))}
	for _, file := range files {
		rel, err := filepath.Rel(dir, file)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(file), patch.Extension)
		lib.entries[name] = Entry{
			Name:     name,
			Path:     file,
			Category: categoryFor(rel),
		}
	}

	logger.Debug("Patch library scanned.", "dir", dir, "patches", len(lib.entries))
	return lib, nil
}

// categoryFor derives the display category from a file's path relative to
// the library root.
func categoryFor(rel string) string {
	dir := filepath.Dir(rel)
	if dir == "." {
		return "Uncategorized"
	}

	parts := strings.Split(filepath.ToSlash(dir), "/")
	for i, part := range parts {
		parts[i] = registry.DisplayCategory(part)
	}
	return strings.Join(parts, "/")
}

// Get returns the entry for a patch name.
func (l *Library) Get(name string) (Entry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// Entries returns all patches sorted by name.
func (l *Library) Entries() []Entry {
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Categories returns the distinct categories in sorted order.
func (l *Library) Categories() []string {
	seen := make(map[string]struct{})
	for _, e := range l.entries {
		seen[e.Category] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// InCategory returns the patches of one category sorted by name.
func (l *Library) InCategory(category string) []Entry {
	var out []Entry
	for _, e := range l.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Search returns patches whose name contains the query, case-insensitively,
// sorted by name.
func (l *Library) Search(query string) []Entry {
	q := strings.ToLower(query)
	var out []Entry
	for _, e := range l.entries {
		if strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.DisplayName()), q) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
