package hier

import (
	"fmt"
	"regexp"

	yaml "gopkg.in/yaml.v2"
)

// MatchKind selects how one lineage specifier compares against a
// node's text.
type MatchKind int

const (
	MatchEquals MatchKind = iota
	MatchStartsWith
	MatchEndsWith
	MatchContains
	MatchRegex
)

func (k MatchKind) String() string {
	switch k {
	case MatchEquals:
		return "equals"
	case MatchStartsWith:
		return "startswith"
	case MatchEndsWith:
		return "endswith"
	case MatchContains:
		return "contains"
	case MatchRegex:
		return "re"
	default:
		return "unknown"
	}
}

// MatchSpec is one per-level specifier of a lineage rule. It accepts a
// node text when any of its values matches under Kind; Negate inverts
// that result.
type MatchSpec struct {
	Kind   MatchKind
	Values []string
	Negate bool

	res []*regexp.Regexp // compiled Values, MatchRegex only
}

// NewMatchSpec builds a specifier, compiling regex values immediately.
// An invalid pattern is a configuration-authoring error and is
// reported here rather than at match time.
func NewMatchSpec(kind MatchKind, negate bool, values ...string) (MatchSpec, error) {
	spec := MatchSpec{Kind: kind, Values: values, Negate: negate}
	if kind == MatchRegex {
		spec.res = make([]*regexp.Regexp, len(values))
		for i, v := range values {
			re, err := regexp.Compile(v)
			if err != nil {
				return MatchSpec{}, fmt.Errorf("compile %q: %w", v, err)
			}
			spec.res[i] = re
		}
	}
	return spec, nil
}

// MustMatchSpec is NewMatchSpec that panics on invalid patterns.
// Intended for fixed rules in tests and tooling.
func MustMatchSpec(kind MatchKind, negate bool, values ...string) MatchSpec {
	spec, err := NewMatchSpec(kind, negate, values...)
	if err != nil {
		panic(err)
	}
	return spec
}

// LineageRule is an ordered list of per-level specifiers, tested
// positionally against a node's lineage. It matches only nodes whose
// depth equals the rule's length.
type LineageRule []MatchSpec

// TagRule adds and removes tags on every node its lineage matches.
type TagRule struct {
	Lineage    LineageRule
	AddTags    []string
	RemoveTags []string
}

// OrderRule overwrites the order weight of every node its lineage
// matches.
type OrderRule struct {
	Lineage LineageRule
	Order   int
}

// ExitRule appends a synthetic trailing child to every node its
// lineage matches.
type ExitRule struct {
	Lineage  LineageRule
	ExitText string
}

// SubRule is a compiled regex rewrite.
type SubRule struct {
	Search  string
	Replace string

	re *regexp.Regexp
}

// NewSubRule compiles a rewrite rule.
func NewSubRule(search, replace string) (SubRule, error) {
	re, err := regexp.Compile(search)
	if err != nil {
		return SubRule{}, fmt.Errorf("compile %q: %w", search, err)
	}
	return SubRule{Search: search, Replace: replace, re: re}, nil
}

// IndentRule opens a virtual indent level when a line matches Start
// and closes it again on the first later line matching End.
type IndentRule struct {
	Start *regexp.Regexp
	End   *regexp.Regexp
}

// NewIndentRule compiles an indent-adjust rule.
func NewIndentRule(start, end string) (IndentRule, error) {
	s, err := regexp.Compile(start)
	if err != nil {
		return IndentRule{}, fmt.Errorf("compile start %q: %w", start, err)
	}
	e, err := regexp.Compile(end)
	if err != nil {
		return IndentRule{}, fmt.Errorf("compile end %q: %w", end, err)
	}
	return IndentRule{Start: s, End: e}, nil
}

// Options is the five-collection rule bundle consumed by the parser
// and the transforms. Build it programmatically with the rule
// constructors or load it from YAML with LoadOptions; either way all
// patterns are compiled exactly once and reused across lines and
// nodes.
type Options struct {
	FullTextSub      []SubRule
	PerLineSub       []SubRule
	IndentAdjust     []IndentRule
	Ordering         []OrderRule
	SectionalExiting []ExitRule
}

// requiredOptionKeys are the collections an options document must
// declare, even when empty.
var requiredOptionKeys = []string{
	"full_text_sub",
	"per_line_sub",
	"indent_adjust",
	"ordering",
	"sectional_exiting",
}

type rawSub struct {
	Search  string `yaml:"search"`
	Replace string `yaml:"replace"`
}

type rawIndent struct {
	Start string `yaml:"start_expression"`
	End   string `yaml:"end_expression"`
}

type rawLineageItem map[interface{}]interface{}

type rawOrder struct {
	Lineage []rawLineageItem `yaml:"lineage"`
	Order   int              `yaml:"order"`
}

type rawExit struct {
	Lineage  []rawLineageItem `yaml:"lineage"`
	ExitText string           `yaml:"exit_text"`
}

type rawOptions struct {
	FullTextSub      []rawSub    `yaml:"full_text_sub"`
	PerLineSub       []rawSub    `yaml:"per_line_sub"`
	IndentAdjust     []rawIndent `yaml:"indent_adjust"`
	Ordering         []rawOrder  `yaml:"ordering"`
	SectionalExiting []rawExit   `yaml:"sectional_exiting"`
}

// LoadOptions parses and compiles an options document. All five
// collections must be present; any invalid regex fails the whole load.
func LoadOptions(data []byte) (*Options, error) {
	var keys map[string]interface{}
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	for _, key := range requiredOptionKeys {
		if _, ok := keys[key]; !ok {
			return nil, fmt.Errorf("options: missing required key %q", key)
		}
	}

	var raw rawOptions
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	opts := &Options{}
	for i, s := range raw.FullTextSub {
		rule, err := NewSubRule(s.Search, s.Replace)
		if err != nil {
			return nil, fmt.Errorf("options: full_text_sub[%d]: %w", i, err)
		}
		opts.FullTextSub = append(opts.FullTextSub, rule)
	}
	for i, s := range raw.PerLineSub {
		rule, err := NewSubRule(s.Search, s.Replace)
		if err != nil {
			return nil, fmt.Errorf("options: per_line_sub[%d]: %w", i, err)
		}
		opts.PerLineSub = append(opts.PerLineSub, rule)
	}
	for i, a := range raw.IndentAdjust {
		rule, err := NewIndentRule(a.Start, a.End)
		if err != nil {
			return nil, fmt.Errorf("options: indent_adjust[%d]: %w", i, err)
		}
		opts.IndentAdjust = append(opts.IndentAdjust, rule)
	}
	for i, o := range raw.Ordering {
		lineage, err := parseLineage(o.Lineage)
		if err != nil {
			return nil, fmt.Errorf("options: ordering[%d]: %w", i, err)
		}
		opts.Ordering = append(opts.Ordering, OrderRule{Lineage: lineage, Order: o.Order})
	}
	for i, e := range raw.SectionalExiting {
		lineage, err := parseLineage(e.Lineage)
		if err != nil {
			return nil, fmt.Errorf("options: sectional_exiting[%d]: %w", i, err)
		}
		opts.SectionalExiting = append(opts.SectionalExiting, ExitRule{Lineage: lineage, ExitText: e.ExitText})
	}
	return opts, nil
}

type rawTagRule struct {
	Lineage    []rawLineageItem `yaml:"lineage"`
	AddTags    interface{}      `yaml:"add_tags"`
	RemoveTags interface{}      `yaml:"remove_tags"`
}

// LoadTagRules parses a tag-rule document: a list of lineage rules,
// each carrying add_tags and/or remove_tags (scalar or list).
func LoadTagRules(data []byte) ([]TagRule, error) {
	var raw []rawTagRule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("tag rules: %w", err)
	}
	rules := make([]TagRule, 0, len(raw))
	for i, r := range raw {
		lineage, err := parseLineage(r.Lineage)
		if err != nil {
			return nil, fmt.Errorf("tag rules: rule %d: %w", i, err)
		}
		add, err := stringList(r.AddTags)
		if err != nil {
			return nil, fmt.Errorf("tag rules: rule %d: add_tags: %w", i, err)
		}
		remove, err := stringList(r.RemoveTags)
		if err != nil {
			return nil, fmt.Errorf("tag rules: rule %d: remove_tags: %w", i, err)
		}
		rules = append(rules, TagRule{Lineage: lineage, AddTags: add, RemoveTags: remove})
	}
	return rules, nil
}

type rawLineageRule struct {
	Lineage []rawLineageItem `yaml:"lineage"`
}

// LoadLineageRules parses a document holding bare lineage rules, as
// used for filtered dumps.
func LoadLineageRules(data []byte) ([]LineageRule, error) {
	var raw []rawLineageRule
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("lineage rules: %w", err)
	}
	rules := make([]LineageRule, 0, len(raw))
	for i, r := range raw {
		lineage, err := parseLineage(r.Lineage)
		if err != nil {
			return nil, fmt.Errorf("lineage rules: rule %d: %w", i, err)
		}
		rules = append(rules, lineage)
	}
	return rules, nil
}

var matchKindNames = map[string]MatchKind{
	"equals":     MatchEquals,
	"startswith": MatchStartsWith,
	"endswith":   MatchEndsWith,
	"contains":   MatchContains,
	"re":         MatchRegex,
}

func parseLineage(items []rawLineageItem) (LineageRule, error) {
	rule := make(LineageRule, 0, len(items))
	for i, item := range items {
		negate := false
		if v, ok := item["negate"]; ok {
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("lineage[%d]: negate must be a bool", i)
			}
			negate = b
		}

		var spec *MatchSpec
		for key, value := range item {
			name, ok := key.(string)
			if !ok || name == "negate" {
				continue
			}
			kind, ok := matchKindNames[name]
			if !ok {
				return nil, fmt.Errorf("lineage[%d]: unknown match kind %q", i, name)
			}
			if spec != nil {
				return nil, fmt.Errorf("lineage[%d]: multiple match kinds in one specifier", i)
			}
			values, err := stringList(value)
			if err != nil {
				return nil, fmt.Errorf("lineage[%d]: %s: %w", i, name, err)
			}
			s, err := NewMatchSpec(kind, negate, values...)
			if err != nil {
				return nil, fmt.Errorf("lineage[%d]: %s: %w", i, name, err)
			}
			spec = &s
		}
		if spec == nil {
			return nil, fmt.Errorf("lineage[%d]: no match kind given", i)
		}
		rule = append(rule, *spec)
	}
	return rule, nil
}

// stringList accepts a YAML scalar or sequence of scalars.
func stringList(v interface{}) ([]string, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{val}, nil
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected string, got %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected string or list of strings, got %T", v)
	}
}
