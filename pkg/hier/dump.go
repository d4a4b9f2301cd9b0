package hier

import "fmt"

// DumpLine is one flat serialized record. A dump is an ordered
// sequence of these; parent/child structure is recoverable from the
// depth progression alone.
type DumpLine struct {
	Depth       int      `json:"depth"`
	Text        string   `json:"text"`
	Tags        []string `json:"tags"`
	Comments    []string `json:"comments"`
	NewInConfig bool     `json:"new_in_config"`
}

// Dump flattens the tree into records in canonical sorted order. With
// lineage rules given, only the filtered ancestor-preserving subset is
// emitted; pass nil for the whole tree.
func (t *Tree) Dump(rules []LineageRule) []DumpLine {
	var nodes []*Node
	if len(rules) > 0 {
		nodes = t.AllChildrenSortedWithLineageRules(rules)
	} else {
		nodes = t.AllChildrenSorted()
	}

	out := make([]DumpLine, 0, len(nodes))
	for _, n := range nodes {
		tags := n.Tags()
		if tags == nil {
			tags = []string{}
		}
		comments := n.Comments()
		if comments == nil {
			comments = []string{}
		}
		out = append(out, DumpLine{
			Depth:       n.Depth(),
			Text:        n.Text,
			Tags:        tags,
			Comments:    comments,
			NewInConfig: n.NewInConfig,
		})
	}
	return out
}

// LoadFromDump rebuilds tree structure from flat records. Each
// record's parent is resolved from its depth relative to the
// previously loaded record; a depth below 1 or a forward jump of more
// than one level is a malformed dump and fails before any wrong
// attachment can happen. Records always create new children, never
// coalescing with an existing same-text sibling.
func (t *Tree) LoadFromDump(records []DumpLine) error {
	last := t.Root
	lastDepth := 0
	for i, rec := range records {
		if rec.Depth < 1 {
			return fmt.Errorf("dump record %d (%q): depth %d, must be >= 1", i, rec.Text, rec.Depth)
		}
		if rec.Depth > lastDepth+1 {
			return fmt.Errorf("dump record %d (%q): depth jumps from %d to %d", i, rec.Text, lastDepth, rec.Depth)
		}

		var parent *Node
		switch {
		case rec.Depth == 1:
			parent = t.Root
		case rec.Depth == lastDepth:
			parent = last.parent
		case rec.Depth == lastDepth+1:
			parent = last
		default:
			// Record sits closer to the root than the last one: find the
			// ancestor at the parent depth.
			for _, ancestor := range last.Lineage() {
				if ancestor.Depth() == rec.Depth-1 {
					parent = ancestor
					break
				}
			}
		}
		if parent == nil {
			return fmt.Errorf("dump record %d (%q): no ancestor at depth %d", i, rec.Text, rec.Depth-1)
		}

		node := parent.AddChild(rec.Text, true)
		node.AppendTags(rec.Tags)
		node.AppendComments(rec.Comments)
		node.NewInConfig = rec.NewInConfig
		last = node
		lastDepth = rec.Depth
	}
	return nil
}
