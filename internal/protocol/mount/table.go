package mount

import "sync"

// MountEntry records one active mount as reported by DUMP.
type MountEntry struct {
	Hostname  string
	Directory string
}

// mountTable tracks which clients have mounted which exports. The table is
// advisory only (UMNT from a crashed client never arrives), matching how
// rpc.mountd treats its rmtab.
type mountTable struct {
	mu      sync.Mutex
	entries []MountEntry
}

func newMountTable() *mountTable {
	return &mountTable{}
}

// Add records a mount, collapsing duplicates from retransmitted MNT calls.
func (t *mountTable) Add(hostname, directory string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, e := range t.entries {
		if e.Hostname == hostname && e.Directory == directory {
			return
		}
	}
	t.entries = append(t.entries, MountEntry{Hostname: hostname, Directory: directory})
}

// Remove drops a single mount record. Removing an absent entry is a no-op,
// which keeps UMNT idempotent.
func (t *mountTable) Remove(hostname, directory string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Hostname == hostname && e.Directory == directory {
			continue
		}
		kept = append(kept, e)
	}
	t.entries = kept
}

// RemoveAll drops every mount record for the given client.
func (t *mountTable) RemoveAll(hostname string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.entries[:0]
	for _, e := range t.entries {
		if e.Hostname == hostname {
			continue
		}
		kept = append(kept, e)
	}
	t.entries = kept
}

// List returns a snapshot of the current mount records.
func (t *mountTable) List() []MountEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]MountEntry, len(t.entries))
	copy(out, t.entries)
	return out
}
