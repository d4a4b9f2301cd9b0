package hier

import "strings"

// negationPrefixes are the removal/reset forms a command can take.
// Stripping them lets one rule match a command and its negation.
var negationPrefixes = []string{"no ", "default "}

func stripNegationPrefix(text string) string {
	for _, prefix := range negationPrefixes {
		if strings.HasPrefix(text, prefix) {
			return text[len(prefix):]
		}
	}
	return text
}

// Matches tests rule positionally against n's lineage, outermost
// first. The rule matches only when its length equals n's depth and
// every position accepts the corresponding ancestor's text. When
// stripNegation is set, negation prefixes are removed from each text
// before comparison.
func (rule LineageRule) Matches(n *Node, stripNegation bool) bool {
	lineage := n.Lineage()
	if len(rule) != len(lineage) {
		return false
	}
	for i, spec := range rule {
		if !spec.matchText(lineage[i].Text, stripNegation) {
			return false
		}
	}
	return true
}

func (s MatchSpec) matchText(text string, stripNegation bool) bool {
	if stripNegation {
		text = stripNegationPrefix(text)
	}
	hit := false
	for i, value := range s.Values {
		switch s.Kind {
		case MatchEquals:
			hit = text == value
		case MatchStartsWith:
			hit = strings.HasPrefix(text, value)
		case MatchEndsWith:
			hit = strings.HasSuffix(text, value)
		case MatchContains:
			hit = strings.Contains(text, value)
		case MatchRegex:
			hit = s.res[i].MatchString(text)
		}
		if hit {
			break
		}
	}
	if s.Negate {
		return !hit
	}
	return hit
}
