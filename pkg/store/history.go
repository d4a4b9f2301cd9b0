package store

import (
	"fmt"
	"time"

	"github.com/netremedy/hierconf/pkg/hier"
)

// HistoryEntry is a snapshot of a committed configuration tree.
type HistoryEntry struct {
	Tree      *hier.Tree
	Timestamp time.Time
	Comment   string
}

// History is a bounded ring of configuration snapshots for rollback.
type History struct {
	entries []*HistoryEntry
	maxSize int
}

// NewHistory creates a History keeping at most maxSize entries.
func NewHistory(maxSize int) *History {
	return &History{maxSize: maxSize}
}

// Push adds a snapshot, evicting the oldest when full.
func (h *History) Push(entry *HistoryEntry) {
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
	}
}

// Get returns the nth most recent entry (0 = most recent).
func (h *History) Get(n int) (*HistoryEntry, error) {
	if n < 0 || n >= len(h.entries) {
		return nil, fmt.Errorf("rollback %d: no such configuration (have %d entries)",
			n+1, len(h.entries))
	}
	// entries are stored oldest first, so index from the end
	return h.entries[len(h.entries)-1-n], nil
}

// Len returns the number of entries held.
func (h *History) Len() int { return len(h.entries) }

// List returns all entries, most recent first.
func (h *History) List() []*HistoryEntry {
	out := make([]*HistoryEntry, len(h.entries))
	for i, entry := range h.entries {
		out[len(h.entries)-1-i] = entry
	}
	return out
}
