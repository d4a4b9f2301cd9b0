package hier

import "sort"

// sortedChildren returns n's children sorted by order weight. The sort
// is stable, so equal weights keep insertion order.
func (n *Node) sortedChildren() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderWeight < out[j].OrderWeight
	})
	return out
}

// AllChildrenSorted returns every node of the tree in canonical output
// order: pre-order with siblings sorted by order weight, insertion
// order breaking ties.
func (t *Tree) AllChildrenSorted() []*Node {
	var out []*Node
	appendSorted(t.Root, &out)
	return out
}

func appendSorted(n *Node, out *[]*Node) {
	for _, child := range n.sortedChildren() {
		*out = append(*out, child)
		appendSorted(child, out)
	}
}

// AllChildrenSortedWithLineageRules returns the minimal
// ancestor-complete subset of the sorted traversal containing every
// node matched by the rules plus all descendants of matched nodes.
// Ancestors of a match that were not themselves emitted yet are
// emitted outermost first, immediately ahead of it, keeping the
// sequence depth-monotonic and reconstructible by LoadFromDump.
func (t *Tree) AllChildrenSortedWithLineageRules(rules []LineageRule) []*Node {
	var out []*Node
	yielded := make(map[*Node]struct{})
	matched := make(map[*Node]struct{})

	for _, node := range t.AllChildrenSorted() {
		if underMatched(node, matched) {
			out = append(out, node)
			yielded[node] = struct{}{}
			continue
		}
		for _, rule := range rules {
			if !rule.Matches(node, false) {
				continue
			}
			matched[node] = struct{}{}
			for _, ancestor := range node.Lineage() {
				if _, ok := yielded[ancestor]; ok {
					continue
				}
				out = append(out, ancestor)
				yielded[ancestor] = struct{}{}
			}
			break
		}
	}
	return out
}

// underMatched reports whether any node of n's lineage has already
// matched a rule directly.
func underMatched(n *Node, matched map[*Node]struct{}) bool {
	for _, ancestor := range n.Lineage() {
		if _, ok := matched[ancestor]; ok {
			return true
		}
	}
	return false
}
