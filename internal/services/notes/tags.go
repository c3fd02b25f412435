package notes

import (
	"regexp"
	"sort"
	"strings"
)

var tagPattern = regexp.MustCompile(`#([^\s#]+)`)

// tagTrailing is punctuation that ends a sentence rather than a tag.
const tagTrailing = ".,;:!?)]}\"'"

// ExtractTags returns the distinct tag names embedded in content, in order of
// first appearance and without the leading '#'.
func ExtractTags(content string) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, m := range tagPattern.FindAllStringSubmatch(content, -1) {
		name := strings.TrimRight(m[1], tagTrailing)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// HasTag reports whether n carries tag, ignoring a leading '#' on the query.
func HasTag(n *Note, tag string) bool {
	tag = strings.TrimPrefix(tag, "#")
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// SortTagStats orders stats by count, most used first, then by name.
func SortTagStats(stats []TagStat) {
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Tag < stats[j].Tag
	})
}
