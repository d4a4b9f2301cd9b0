package hier

import (
	"fmt"
	"regexp"
	"strings"
)

// bannerKeyword marks the start of a multi-line banner block.
const bannerKeyword = "banner "

// universalBannerEnds terminate a banner regardless of its declared
// delimiter.
var universalBannerEnds = []string{"EOF", "%", "!"}

// parser holds the state of one LoadFromString run. Banner-delimiter
// heuristics derived from the input stay local to a single parse and
// never leak into the next one.
type parser struct {
	tree *Tree
	opts *Options

	currentSection *Node
	mostRecentItem *Node

	indentAdjust int
	pendingEnds  []*regexp.Regexp

	inBanner          bool
	banner            []string
	bannerEndLines    []string
	bannerEndContains []string
}

// LoadFromString parses vendor CLI text into nodes under t's root.
// Parsing is one streaming pass; it fails if the input ends while a
// banner block is still open.
func (t *Tree) LoadFromString(text string) error {
	p := &parser{
		tree:           t,
		opts:           t.Options,
		currentSection: t.Root,
		mostRecentItem: t.Root,
		bannerEndLines: append([]string(nil), universalBannerEnds...),
	}
	return p.run(text)
}

func (p *parser) run(text string) error {
	for _, sub := range p.opts.FullTextSub {
		text = sub.re.ReplaceAllString(text, sub.Replace)
		p.tree.stats.Substitutions++
	}

	p.tree.Root.realIndentLevel = -1

	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		p.tree.stats.Lines++

		if p.inBanner {
			p.bannerLine(line)
			continue
		}
		if strings.HasPrefix(line, bannerKeyword) {
			p.enterBanner(line)
			continue
		}
		p.normalLine(line)
	}

	if p.inBanner {
		return fmt.Errorf("parse: input ended inside banner block (no terminator seen)")
	}
	return nil
}

// enterBanner switches to banner mode and derives terminator
// heuristics from the banner's delimiter token: the token appearing
// anywhere in a later line ends the banner, as do lines equal to its
// one- or two-character prefixes.
func (p *parser) enterBanner(line string) {
	p.inBanner = true
	p.banner = append(p.banner, line)
	words := strings.Fields(line)
	if len(words) > 2 {
		delim := words[2]
		p.bannerEndContains = append(p.bannerEndContains, delim)
		p.bannerEndLines = append(p.bannerEndLines, delim[:1])
		if len(delim) >= 2 {
			p.bannerEndLines = append(p.bannerEndLines, delim[:2])
		}
	}
}

// bannerLine buffers one line of an open banner and closes the banner
// when the line is a terminator. The whole block, start line and
// terminator included, becomes a single depth-1 node with embedded
// newlines.
func (p *parser) bannerLine(line string) {
	if line != "!" {
		p.banner = append(p.banner, line)
	}
	if !p.endOfBanner(line) {
		return
	}
	p.inBanner = false
	node := p.tree.Root.AddChild(strings.Join(p.banner, "\n"), true)
	node.realIndentLevel = 0
	p.mostRecentItem = node
	p.currentSection = p.tree.Root
	p.banner = nil
	p.tree.stats.Banners++
}

func (p *parser) endOfBanner(line string) bool {
	if strings.HasPrefix(line, "^") {
		return true
	}
	for _, end := range p.bannerEndLines {
		if line == end {
			return true
		}
	}
	for _, token := range p.bannerEndContains {
		if strings.Contains(line, token) {
			return true
		}
	}
	return false
}

// normalLine normalizes whitespace, applies per-line rewrites, and
// places the resulting node. Placement is relative to the previous
// node's recorded indent, not to fixed per-depth columns, so irregular
// indent widths are tolerated as long as they nest consistently.
func (p *parser) normalLine(line string) {
	rawIndent := indentWidth(line)
	line = strings.Repeat(" ", rawIndent) + strings.Join(strings.Fields(line), " ")
	for _, sub := range p.opts.PerLineSub {
		line = sub.re.ReplaceAllString(line, sub.Replace)
		p.tree.stats.Substitutions++
	}
	line = strings.TrimRight(line, " \t")
	if line == "" {
		return
	}

	// The accumulator in force for this line; start-expression matches
	// below only affect subsequent lines.
	thisIndent := indentWidth(line) + p.indentAdjust
	line = strings.TrimLeft(line, " \t")

	for thisIndent <= p.currentSection.realIndentLevel {
		p.currentSection = p.currentSection.parent
	}
	if thisIndent > p.mostRecentItem.realIndentLevel {
		p.currentSection = p.mostRecentItem
	}

	node := p.currentSection.AddChild(line, true)
	node.realIndentLevel = thisIndent
	p.mostRecentItem = node
	p.tree.stats.Nodes++

	for _, rule := range p.opts.IndentAdjust {
		if rule.Start.MatchString(line) {
			p.indentAdjust++
			p.pendingEnds = append(p.pendingEnds, rule.End)
			break
		}
	}
	if len(p.pendingEnds) > 0 && p.pendingEnds[0].MatchString(line) {
		p.indentAdjust--
		p.pendingEnds = p.pendingEnds[1:]
	}
}

func indentWidth(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}
