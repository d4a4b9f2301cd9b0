package hier

import "strings"

// Tree is the handle for one configuration hierarchy: a distinguished
// root node plus the compiled options driving parsing and the
// rule-driven transforms.
//
// A Tree has no internal locking. Parses and transforms are single
// whole-tree passes; callers sharing one tree across goroutines must
// serialize access themselves.
type Tree struct {
	Root    *Node
	Options *Options

	stats ParseStats
}

// ParseStats counts work done by LoadFromString. Counters accumulate
// across parses on the same tree and never decrease.
type ParseStats struct {
	Lines         int // input lines seen
	Nodes         int // nodes created from normal lines
	Banners       int // banner blocks collapsed
	Substitutions int // full-text and per-line rewrites applied
}

// New returns an empty tree. A nil opts behaves as an Options value
// with all five rule collections empty.
func New(opts *Options) *Tree {
	if opts == nil {
		opts = &Options{}
	}
	return &Tree{
		Root:    NewRoot(),
		Options: opts,
	}
}

// ParseStats returns the accumulated parse counters.
func (t *Tree) ParseStats() ParseStats { return t.stats }

// AllChildren returns every node of the tree in pre-order, insertion
// order among siblings.
func (t *Tree) AllChildren() []*Node { return t.Root.AllChildren() }

// Tags aggregates the tags of the root's direct children only. This is
// a shallow aggregate: descendant tags below depth 1 are not included.
func (t *Tree) Tags() []string {
	set := make(map[string]struct{})
	for _, child := range t.Root.Children() {
		for _, tag := range child.Tags() {
			set[tag] = struct{}{}
		}
	}
	return sortedSet(set)
}

// Merge adds deep copies of other's top-level sections into t,
// coalescing sections whose text already exists.
func (t *Tree) Merge(other *Tree) {
	for _, child := range other.Root.Children() {
		t.Root.AddDeepCopyOf(child, true)
	}
}

// Clone returns an independent deep copy of the tree sharing t's
// options.
func (t *Tree) Clone() *Tree {
	clone := New(t.Options)
	for _, child := range t.Root.Children() {
		clone.Root.AddDeepCopyOf(child, false)
	}
	clone.stats = t.stats
	return clone
}

// Equal reports whether both trees hold structurally equal hierarchies
// in sorted output order.
func (t *Tree) Equal(other *Tree) bool {
	return t.Root.Equal(other.Root)
}

// Format renders the tree as CLI-style text: one line per node,
// indented by one space per nesting level below the top. Banner nodes
// are written verbatim with their embedded newlines.
func (t *Tree) Format() string {
	var b strings.Builder
	for _, n := range t.AllChildrenSorted() {
		b.WriteString(strings.Repeat(" ", n.Depth()-1))
		b.WriteString(n.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
