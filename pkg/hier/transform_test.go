package hier

import (
	"reflect"
	"testing"
)

func TestAddTagsPropagates(t *testing.T) {
	tree := New(nil)
	text := `interface GigabitEthernet0/1
 description uplink
 no shutdown
vlan 100
`
	if err := tree.LoadFromString(text); err != nil {
		t.Fatalf("parse: %v", err)
	}

	rules := []TagRule{
		{
			Lineage: LineageRule{MustMatchSpec(MatchStartsWith, false, "interface")},
			AddTags: []string{"net"},
		},
		{
			Lineage: LineageRule{
				MustMatchSpec(MatchStartsWith, false, "interface"),
				MustMatchSpec(MatchRegex, false, `.*`),
			},
			AddTags: []string{"net"},
		},
	}
	tree.AddTags(rules, false)

	iface := tree.Root.Children()[0]
	if !iface.HasTag("net") {
		t.Error("interface line missing tag")
	}
	for _, child := range iface.Children() {
		if !child.HasTag("net") {
			t.Errorf("%q missing tag", child.Text)
		}
	}
	if tree.Root.Children()[1].HasTag("net") {
		t.Error("vlan line must not be tagged")
	}

	// Tree-level aggregate reads direct children only.
	if !reflect.DeepEqual(tree.Tags(), []string{"net"}) {
		t.Errorf("tree tags = %v, want [net]", tree.Tags())
	}
}

func TestAddTagsLaterRuleUndoesEarlier(t *testing.T) {
	tree := New(nil)
	if err := tree.LoadFromString("interface eth0\n"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	rules := []TagRule{
		{
			Lineage: LineageRule{MustMatchSpec(MatchStartsWith, false, "interface")},
			AddTags: []string{"a", "b"},
		},
		{
			Lineage:    LineageRule{MustMatchSpec(MatchStartsWith, false, "interface")},
			RemoveTags: []string{"a"},
		},
	}
	tree.AddTags(rules, false)

	iface := tree.Root.Children()[0]
	if !reflect.DeepEqual(iface.Tags(), []string{"b"}) {
		t.Errorf("tags = %v, want [b]", iface.Tags())
	}

	// Reapplying the same rules changes nothing.
	tree.AddTags(rules, false)
	if !reflect.DeepEqual(iface.Tags(), []string{"b"}) {
		t.Errorf("tags after second pass = %v, want [b]", iface.Tags())
	}
}

func TestSetOrderWeightLastMatchWins(t *testing.T) {
	opts := &Options{
		Ordering: []OrderRule{
			{Lineage: LineageRule{MustMatchSpec(MatchStartsWith, false, "ntp")}, Order: 700},
			{Lineage: LineageRule{MustMatchSpec(MatchContains, false, "server")}, Order: 200},
		},
	}
	tree := New(opts)
	if err := tree.LoadFromString("ntp server 10.0.0.1\nhostname rtr1\n"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree.SetOrderWeight()

	ntp := tree.Root.Children()[0]
	if ntp.OrderWeight != 200 {
		t.Errorf("weight = %d, want 200 (last matching rule overwrites)", ntp.OrderWeight)
	}
	host := tree.Root.Children()[1]
	if host.OrderWeight != DefaultOrderWeight {
		t.Errorf("unmatched node weight = %d, want default %d", host.OrderWeight, DefaultOrderWeight)
	}
}

func TestAddSectionalExitingIdempotent(t *testing.T) {
	opts := &Options{
		SectionalExiting: []ExitRule{
			{
				Lineage:  LineageRule{MustMatchSpec(MatchStartsWith, false, "router bgp")},
				ExitText: "exit",
			},
		},
	}
	tree := New(opts)
	if err := tree.LoadFromString("router bgp 65000\n neighbor 10.0.0.1\n"); err != nil {
		t.Fatalf("parse: %v", err)
	}

	tree.AddSectionalExiting()
	tree.AddSectionalExiting()

	bgp := tree.Root.Children()[0]
	count := 0
	for _, child := range bgp.Children() {
		if child.Text == "exit" {
			count++
			if child.OrderWeight != SectionalExitWeight {
				t.Errorf("exit weight = %d, want %d", child.OrderWeight, SectionalExitWeight)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 exit child after two passes, got %d", count)
	}

	// The exit line sorts last among siblings.
	sorted := bgp.sortedChildren()
	if sorted[len(sorted)-1].Text != "exit" {
		t.Errorf("exit not last in sorted order: %v", sorted)
	}
}

func TestZeroMatchRulesAreNotErrors(t *testing.T) {
	opts := &Options{
		Ordering: []OrderRule{
			{Lineage: LineageRule{MustMatchSpec(MatchEquals, false, "nonexistent")}, Order: 1},
		},
		SectionalExiting: []ExitRule{
			{Lineage: LineageRule{MustMatchSpec(MatchEquals, false, "nonexistent")}, ExitText: "exit"},
		},
	}
	tree := New(opts)
	if err := tree.LoadFromString("hostname rtr1\n"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree.SetOrderWeight()
	tree.AddSectionalExiting()
	tree.AddTags([]TagRule{{Lineage: LineageRule{MustMatchSpec(MatchEquals, false, "nonexistent")}, AddTags: []string{"x"}}}, false)

	if len(tree.AllChildren()) != 1 {
		t.Error("rule passes over a non-matching tree must not mutate it")
	}
}
