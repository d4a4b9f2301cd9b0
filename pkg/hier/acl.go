package hier

import (
	"strconv"
	"strings"
)

// Vendor-specific access-list rewrites. None of these run during
// parsing; a caller working with the relevant vendor family invokes
// them explicitly after the tree is built.

const (
	ipv4ACLPrefix = "ip access-list"
	ipv6ACLPrefix = "ipv6 access-list "
)

// AddACLSequenceNumbers numbers the entries of every top-level IPv4
// access-list block in steps of 10 starting at 10, prepending the
// number to each entry's text. Only permit/deny entries are numbered
// unless numberRemarks is set, which numbers remark entries too.
func (t *Tree) AddACLSequenceNumbers(numberRemarks bool) {
	prefixes := []string{"permit", "deny"}
	if numberRemarks {
		prefixes = append(prefixes, "remark")
	}
	for _, acl := range t.Root.Children() {
		if !strings.HasPrefix(acl.Text, ipv4ACLPrefix) {
			continue
		}
		seq := 10
		for _, entry := range acl.Children() {
			if !hasAnyPrefix(entry.Text, prefixes) {
				continue
			}
			entry.Text = strconv.Itoa(seq) + " " + entry.Text
			seq += 10
		}
	}
}

// RemoveIPv6ACLSequenceNumbers strips the leading "sequence <n>"
// tokens from IPv6 access-list entries.
func (t *Tree) RemoveIPv6ACLSequenceNumbers() {
	for _, acl := range t.Root.Children() {
		if !strings.HasPrefix(acl.Text, ipv6ACLPrefix) {
			continue
		}
		for _, entry := range acl.Children() {
			if !strings.HasPrefix(entry.Text, "sequence") {
				continue
			}
			fields := strings.Fields(entry.Text)
			if len(fields) > 2 {
				entry.Text = strings.Join(fields[2:], " ")
			}
		}
	}
}

// RemoveACLRemarks deletes remark entries from IPv4 access-list
// blocks.
func (t *Tree) RemoveACLRemarks() {
	for _, acl := range t.Root.Children() {
		if !strings.HasPrefix(acl.Text, ipv4ACLPrefix+" ") {
			continue
		}
		var remarks []*Node
		for _, entry := range acl.Children() {
			if strings.HasPrefix(entry.Text, "remark") {
				remarks = append(remarks, entry)
			}
		}
		for _, entry := range remarks {
			acl.removeChild(entry)
		}
	}
}

func hasAnyPrefix(text string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
