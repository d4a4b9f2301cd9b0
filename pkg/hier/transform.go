package hier

// AddTags applies tag rules to every node of the tree. Rules apply in
// list order and accumulate: each match unions the rule's AddTags into
// the node's tag set and removes its RemoveTags, so a later rule may
// undo an earlier one on the same node. Calling it again with the same
// rules is a no-op.
func (t *Tree) AddTags(rules []TagRule, stripNegation bool) {
	for _, rule := range rules {
		for _, node := range t.AllChildren() {
			if !rule.Lineage.Matches(node, stripNegation) {
				continue
			}
			node.AppendTags(rule.AddTags)
			node.RemoveTags(rule.RemoveTags)
		}
	}
}

// SetOrderWeight applies the options' ordering rules to every node.
// Unlike AddTags this overwrites: rules are tested in list order per
// node and the last matching rule's weight wins.
func (t *Tree) SetOrderWeight() {
	for _, node := range t.AllChildren() {
		for _, rule := range t.Options.Ordering {
			if rule.Lineage.Matches(node, false) {
				node.OrderWeight = rule.Order
			}
		}
	}
}

// AddSectionalExiting appends the synthetic trailing line certain
// nested blocks require before the next section begins. Any existing
// direct child with the exit text is removed first, so repeated calls
// leave exactly one exit child per matching node. The exit child's
// weight forces it last on sorted output.
func (t *Tree) AddSectionalExiting() {
	nodes := t.AllChildren()
	for _, node := range nodes {
		for _, rule := range t.Options.SectionalExiting {
			if !rule.Lineage.Matches(node, false) {
				continue
			}
			node.DeleteChildByText(rule.ExitText)
			exit := node.AddChild(rule.ExitText, false)
			exit.OrderWeight = SectionalExitWeight
		}
	}
}
