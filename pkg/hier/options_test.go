package hier

import (
	"reflect"
	"strings"
	"testing"
)

const optionsDoc = `
full_text_sub:
- search: '(?m)^Building configuration.*$'
  replace: ''
per_line_sub:
- search: '^ +ntp clock-period .*'
  replace: ''
indent_adjust:
- start_expression: '^address-family'
  end_expression: '^exit-address-family'
ordering:
- lineage:
  - startswith: ntp
  order: 700
sectional_exiting:
- lineage:
  - startswith: router bgp
  exit_text: exit
`

func TestLoadOptions(t *testing.T) {
	opts, err := LoadOptions([]byte(optionsDoc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(opts.FullTextSub) != 1 || len(opts.PerLineSub) != 1 {
		t.Errorf("substitution counts = %d/%d, want 1/1", len(opts.FullTextSub), len(opts.PerLineSub))
	}
	if len(opts.IndentAdjust) != 1 {
		t.Errorf("indent_adjust count = %d, want 1", len(opts.IndentAdjust))
	}
	if len(opts.Ordering) != 1 || opts.Ordering[0].Order != 700 {
		t.Errorf("ordering = %+v", opts.Ordering)
	}
	if len(opts.SectionalExiting) != 1 || opts.SectionalExiting[0].ExitText != "exit" {
		t.Errorf("sectional_exiting = %+v", opts.SectionalExiting)
	}

	// The loaded bundle drives a parse end to end.
	tree := New(opts)
	if err := tree.LoadFromString("ntp server 10.0.0.1\n"); err != nil {
		t.Fatalf("parse: %v", err)
	}
	tree.SetOrderWeight()
	if got := tree.Root.Children()[0].OrderWeight; got != 700 {
		t.Errorf("weight = %d, want 700", got)
	}
}

func TestLoadOptionsEmptyCollectionsAllowed(t *testing.T) {
	doc := `
full_text_sub: []
per_line_sub: []
indent_adjust: []
ordering: []
sectional_exiting: []
`
	if _, err := LoadOptions([]byte(doc)); err != nil {
		t.Fatalf("empty collections must load: %v", err)
	}
}

func TestLoadOptionsMissingKey(t *testing.T) {
	doc := `
full_text_sub: []
per_line_sub: []
indent_adjust: []
ordering: []
`
	_, err := LoadOptions([]byte(doc))
	if err == nil {
		t.Fatal("expected error for missing key")
	}
	if !strings.Contains(err.Error(), "sectional_exiting") {
		t.Errorf("error %q should name the missing key", err)
	}
}

func TestLoadOptionsInvalidRegex(t *testing.T) {
	doc := `
full_text_sub:
- search: '(unclosed'
  replace: ''
per_line_sub: []
indent_adjust: []
ordering: []
sectional_exiting: []
`
	if _, err := LoadOptions([]byte(doc)); err == nil {
		t.Fatal("expected compile error for invalid pattern")
	}
}

func TestLoadTagRules(t *testing.T) {
	doc := `
- lineage:
  - startswith: interface
  add_tags: net
- lineage:
  - startswith:
    - ip name-server
    - ntp
  add_tags: [basics, safe]
  remove_tags: net
- lineage:
  - re: '^vlan \d+$'
    negate: true
  add_tags: other
`
	rules, err := LoadTagRules([]byte(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 3 {
		t.Fatalf("rule count = %d, want 3", len(rules))
	}
	if !reflect.DeepEqual(rules[0].AddTags, []string{"net"}) {
		t.Errorf("scalar add_tags = %v", rules[0].AddTags)
	}
	if !reflect.DeepEqual(rules[1].AddTags, []string{"basics", "safe"}) {
		t.Errorf("list add_tags = %v", rules[1].AddTags)
	}
	if !reflect.DeepEqual(rules[1].RemoveTags, []string{"net"}) {
		t.Errorf("remove_tags = %v", rules[1].RemoveTags)
	}
	if len(rules[1].Lineage) != 1 || len(rules[1].Lineage[0].Values) != 2 {
		t.Errorf("lineage values = %+v", rules[1].Lineage)
	}
	if !rules[2].Lineage[0].Negate {
		t.Error("negate flag not honored")
	}
}

func TestLoadTagRulesBadLineage(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown kind", "- lineage:\n  - glob: 'x*'\n  add_tags: t\n"},
		{"no kind", "- lineage:\n  - negate: true\n  add_tags: t\n"},
		{"bad regex", "- lineage:\n  - re: '(bad'\n  add_tags: t\n"},
	}
	for _, tt := range tests {
		if _, err := LoadTagRules([]byte(tt.doc)); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestLoadLineageRules(t *testing.T) {
	doc := `
- lineage:
  - startswith: interface
  - contains: shutdown
`
	rules, err := LoadLineageRules([]byte(doc))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(rules) != 1 || len(rules[0]) != 2 {
		t.Fatalf("rules = %+v", rules)
	}
	if rules[0][1].Kind != MatchContains {
		t.Errorf("kind = %v, want contains", rules[0][1].Kind)
	}
}
