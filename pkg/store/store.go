// Package store manages active and candidate configuration trees with
// commit history and rollback, persisting trees as flat dump records.
// It is the working-state layer a remediation workflow drives: load
// the device's running config as active, stage an intended config as
// candidate, commit to promote it.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/netremedy/hierconf/pkg/hier"
)

// Store holds one active tree and, while editing, one candidate tree.
type Store struct {
	mu        sync.RWMutex
	opts      *hier.Options
	active    *hier.Tree
	candidate *hier.Tree
	history   *History
	dirty     bool
	editing   bool
	filePath  string
}

// New creates a store persisting to filePath. All trees it builds use
// opts.
func New(filePath string, opts *hier.Options) *Store {
	return &Store{
		opts:     opts,
		active:   hier.New(opts),
		history:  NewHistory(50),
		filePath: filePath,
	}
}

// Load reads the active tree from disk. A missing file leaves the
// store empty.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store: %w", err)
	}

	var records []hier.DumpLine
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decode store: %w", err)
	}
	tree := hier.New(s.opts)
	if err := tree.LoadFromDump(records); err != nil {
		return fmt.Errorf("rebuild store: %w", err)
	}
	s.active = tree
	return nil
}

// Save persists the active tree to disk as dump-record JSON.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return writeTree(s.filePath, s.active)
}

func writeTree(path string, tree *hier.Tree) error {
	data, err := json.MarshalIndent(tree.Dump(nil), "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// EnterEdit starts an edit session by cloning the active tree into the
// candidate.
func (s *Store) EnterEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidate = s.active.Clone()
	s.editing = true
	s.dirty = false
}

// ExitEdit discards the candidate and ends the edit session.
func (s *Store) ExitEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidate = nil
	s.editing = false
	s.dirty = false
}

// InEditMode reports whether an edit session is open.
func (s *Store) InEditMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.editing
}

// IsDirty reports whether the candidate has diverged from active.
func (s *Store) IsDirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// LoadCandidateText replaces the candidate with a tree parsed from raw
// CLI text.
func (s *Store) LoadCandidateText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return fmt.Errorf("not in edit mode")
	}
	tree := hier.New(s.opts)
	if err := tree.LoadFromString(text); err != nil {
		return err
	}
	s.candidate = tree
	s.dirty = true
	return nil
}

// MergeCandidateText parses raw CLI text and merges the resulting
// sections into the candidate.
func (s *Store) MergeCandidateText(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return fmt.Errorf("not in edit mode")
	}
	tree := hier.New(s.opts)
	if err := tree.LoadFromString(text); err != nil {
		return err
	}
	s.candidate.Merge(tree)
	s.dirty = true
	return nil
}

// TransformCandidate runs the ordering and sectional-exiting passes on
// the candidate, and the tag rules when any are given.
func (s *Store) TransformCandidate(tagRules []hier.TagRule, stripNegation bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return fmt.Errorf("not in edit mode")
	}
	s.candidate.SetOrderWeight()
	s.candidate.AddSectionalExiting()
	if len(tagRules) > 0 {
		s.candidate.AddTags(tagRules, stripNegation)
	}
	s.dirty = true
	return nil
}

// Commit promotes the candidate to active, pushing the previous active
// onto the history ring and persisting to disk. The candidate is
// re-cloned from the new active so the edit session continues.
func (s *Store) Commit(comment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return fmt.Errorf("not in edit mode")
	}

	s.history.Push(&HistoryEntry{
		Tree:      s.active.Clone(),
		Timestamp: time.Now(),
		Comment:   comment,
	})

	s.active = s.candidate
	s.candidate = s.active.Clone()
	s.dirty = false

	if s.filePath != "" {
		if err := writeTree(s.filePath, s.active); err != nil {
			return fmt.Errorf("commit saved in memory but not on disk: %w", err)
		}
	}
	return nil
}

// Rollback reverts the candidate: n=0 to the current active, n>0 to
// the nth previous commit.
func (s *Store) Rollback(n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.candidate == nil {
		return fmt.Errorf("not in edit mode")
	}
	if n == 0 {
		s.candidate = s.active.Clone()
		s.dirty = false
		return nil
	}
	entry, err := s.history.Get(n - 1)
	if err != nil {
		return err
	}
	s.candidate = entry.Tree.Clone()
	s.dirty = true
	return nil
}

// Active returns a clone of the active tree.
func (s *Store) Active() *hier.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// ShowActive renders the active tree as CLI-style text.
func (s *Store) ShowActive() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Format()
}

// ShowCandidate renders the candidate tree, or "" outside an edit
// session.
func (s *Store) ShowCandidate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.candidate == nil {
		return ""
	}
	return s.candidate.Format()
}

// History returns the commit history.
func (s *Store) History() *History {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history
}
