// Package hier implements a hierarchical model of network-device
// configuration text. Vendor CLI output (indentation-nested command
// syntax) is parsed into a tree of nodes, rule-driven transforms
// annotate the tree, and the result serializes to a flat record
// stream that round-trips losslessly.
package hier

import "sort"

// DefaultOrderWeight is the order weight assigned to every new node.
// Transforms move nodes earlier or later on output by writing values
// below or above it.
const DefaultOrderWeight = 500

// SectionalExitWeight is assigned to synthetic exit lines so they sort
// after every ordinary sibling.
const SectionalExitWeight = 999

// Node is one configuration line, or one collapsed banner block whose
// Text contains embedded newlines. The root of a tree is a Node with a
// nil parent and empty Text; it never represents a payload line.
type Node struct {
	// Text is the normalized line content: internal whitespace runs
	// collapsed to single spaces, no leading or trailing whitespace.
	Text string

	// NewInConfig is carried through copies and dumps. Its meaning is
	// assigned by the remediation layer, not interpreted here.
	NewInConfig bool

	// OrderWeight influences sibling ordering on output only; it never
	// affects parse-order placement.
	OrderWeight int

	tags     map[string]struct{}
	comments map[string]struct{}

	parent   *Node
	children []*Node

	// realIndentLevel is scratch state for one parser run. Two siblings
	// may have been created from different raw indentation widths, so it
	// is not a semantic property of the finished tree.
	realIndentLevel int
}

// NewRoot returns a root node for a fresh tree.
func NewRoot() *Node {
	return &Node{
		OrderWeight:     DefaultOrderWeight,
		realIndentLevel: -1,
	}
}

// IsRoot reports whether n is the root of its tree.
func (n *Node) IsRoot() bool { return n.parent == nil }

// Parent returns n's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns n's children in insertion order. The slice is the
// node's own storage; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

// Depth returns the number of ancestors between n and the root.
// The root has depth 0.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// Lineage returns n's ancestor chain excluding the root, outermost
// first, ending with n itself. The root's lineage is empty. Every rule
// match, ancestor copy, and filtered dump in this package uses this one
// convention.
func (n *Node) Lineage() []*Node {
	if n.parent == nil {
		return nil
	}
	depth := n.Depth()
	chain := make([]*Node, depth)
	cur := n
	for i := depth - 1; i >= 0; i-- {
		chain[i] = cur
		cur = cur.parent
	}
	return chain
}

// AddChild appends a child with the given text and returns it. When
// forceDuplicate is false and a child with identical text already
// exists, that child is returned instead of creating a second one.
func (n *Node) AddChild(text string, forceDuplicate bool) *Node {
	if !forceDuplicate {
		if existing := n.ChildByText(text); existing != nil {
			return existing
		}
	}
	child := &Node{
		Text:        text,
		OrderWeight: DefaultOrderWeight,
		parent:      n,
	}
	n.children = append(n.children, child)
	return child
}

// ChildByText returns the first direct child whose text equals text,
// or nil.
func (n *Node) ChildByText(text string) *Node {
	for _, child := range n.children {
		if child.Text == text {
			return child
		}
	}
	return nil
}

// DeleteChildByText removes every direct child whose text equals text.
// It reports whether anything was removed.
func (n *Node) DeleteChildByText(text string) bool {
	removed := false
	kept := n.children[:0]
	for _, child := range n.children {
		if child.Text == text {
			child.parent = nil
			removed = true
			continue
		}
		kept = append(kept, child)
	}
	n.children = kept
	return removed
}

// removeChild removes child (by identity) from n's children.
func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// AllChildren returns every descendant of n in pre-order, insertion
// order among siblings. n itself is not included.
func (n *Node) AllChildren() []*Node {
	var out []*Node
	n.appendAllChildren(&out)
	return out
}

func (n *Node) appendAllChildren(out *[]*Node) {
	for _, child := range n.children {
		*out = append(*out, child)
		child.appendAllChildren(out)
	}
}

// Tags returns n's tags sorted.
func (n *Node) Tags() []string { return sortedSet(n.tags) }

// HasTag reports whether n carries the given tag.
func (n *Node) HasTag(tag string) bool {
	_, ok := n.tags[tag]
	return ok
}

// AppendTags adds the given tags to n's tag set.
func (n *Node) AppendTags(tags []string) {
	if len(tags) == 0 {
		return
	}
	if n.tags == nil {
		n.tags = make(map[string]struct{}, len(tags))
	}
	for _, t := range tags {
		n.tags[t] = struct{}{}
	}
}

// RemoveTags removes the given tags from n's tag set. Tags not present
// are ignored.
func (n *Node) RemoveTags(tags []string) {
	for _, t := range tags {
		delete(n.tags, t)
	}
}

// Comments returns n's comments sorted. Comments are opaque metadata:
// carried through copies and dumps, never interpreted.
func (n *Node) Comments() []string { return sortedSet(n.comments) }

// AppendComments adds the given comments to n's comment set.
func (n *Node) AppendComments(comments []string) {
	if len(comments) == 0 {
		return
	}
	if n.comments == nil {
		n.comments = make(map[string]struct{}, len(comments))
	}
	for _, c := range comments {
		n.comments[c] = struct{}{}
	}
}

// AddShallowCopyOf adds a copy of other (text, tags, comments, weight,
// flags) as a child of n, without other's children. When merged is
// true an existing same-text child is reused and other's annotations
// are unioned into it.
func (n *Node) AddShallowCopyOf(other *Node, merged bool) *Node {
	child := n.AddChild(other.Text, !merged)
	child.AppendTags(other.Tags())
	child.AppendComments(other.Comments())
	child.OrderWeight = other.OrderWeight
	if other.NewInConfig {
		child.NewInConfig = true
	}
	return child
}

// AddDeepCopyOf adds a copy of other and its entire subtree under n.
func (n *Node) AddDeepCopyOf(other *Node, merged bool) *Node {
	child := n.AddShallowCopyOf(other, merged)
	for _, grandchild := range other.children {
		child.AddDeepCopyOf(grandchild, merged)
	}
	return child
}

// AddAncestorCopyOf adds shallow copies of other's lineage under n and
// returns the copy corresponding to other itself.
func (n *Node) AddAncestorCopyOf(other *Node) *Node {
	base := n
	for _, ancestor := range other.Lineage() {
		base = base.AddShallowCopyOf(ancestor, true)
	}
	return base
}

// Equal reports whether n and other have identical text and
// structurally equal subtrees, comparing siblings in sorted output
// order.
func (n *Node) Equal(other *Node) bool {
	if n.Text != other.Text {
		return false
	}
	a, b := n.sortedChildren(), other.sortedChildren()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (n *Node) String() string { return n.Text }

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
