// Package export holds the static table of exported directories.
//
// The table is built once at startup from configuration and is immutable
// afterwards, so it is shared by all requests without locking.
package export

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Options carries the per-export settings from configuration. Enforcement of
// read_only and client lists happens outside the protocol core; the fields
// are surfaced informationally (EXPORT groups) and kept for operators.
type Options struct {
	ReadOnly bool
	AnonUID  uint32
	AnonGID  uint32
	Clients  []string
}

// Entry is a single exported directory: the filesystem path being served and
// the mount name clients request in MNT.
type Entry struct {
	// Name is the identifier clients pass to the MNT procedure.
	Name string

	// Path is the absolute filesystem path of the export root.
	Path string

	Options Options
}

// Table is the process-wide list of exports, ordered as configured.
type Table struct {
	entries []Entry
}

// NewTable validates the entries and builds an immutable table.
func NewTable(entries []Entry) (*Table, error) {
	names := make(map[string]bool, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("export[%d]: empty mount name", i)
		}
		if !filepath.IsAbs(e.Path) {
			return nil, fmt.Errorf("export[%d] %q: path %q is not absolute", i, e.Name, e.Path)
		}
		if names[e.Name] {
			return nil, fmt.Errorf("export[%d]: duplicate mount name %q", i, e.Name)
		}
		names[e.Name] = true
	}

	cleaned := make([]Entry, len(entries))
	copy(cleaned, entries)
	for i := range cleaned {
		cleaned[i].Path = filepath.Clean(cleaned[i].Path)
	}

	return &Table{entries: cleaned}, nil
}

// LookupByName returns the export published under the given mount name.
func (t *Table) LookupByName(name string) (Entry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// RootForPath returns the most specific export whose path is a prefix of
// (or equal to) the candidate path. Used to decide which export root to scan
// when resolving a handle.
func (t *Table) RootForPath(candidate string) (Entry, bool) {
	candidate = filepath.Clean(candidate)

	var best Entry
	found := false
	for _, e := range t.entries {
		if !pathHasPrefix(candidate, e.Path) {
			continue
		}
		if !found || len(e.Path) > len(best.Path) {
			best = e
			found = true
		}
	}
	return best, found
}

// List returns the exports in configuration order. The returned slice is a
// copy; callers may not mutate table state through it.
func (t *Table) List() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of configured exports.
func (t *Table) Len() int {
	return len(t.entries)
}

func pathHasPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}
	return strings.HasPrefix(path, prefix+string(filepath.Separator))
}
