package inbox

import (
	"fmt"
	"strings"
	"time"
)

// FormatTagLabel renders a summary for the tag sidebar as "#tag(count) MM-DD",
// using the local date of the latest update, or "--" when unknown.
func FormatTagLabel(ts TagSummary) string {
	date := "--"
	if ts.LatestUpdatedAt != nil && !ts.LatestUpdatedAt.IsZero() {
		date = ts.LatestUpdatedAt.In(time.Local).Format("01-02")
	}
	prefix := "#"
	if strings.HasPrefix(ts.Tag, "#") {
		prefix = ""
	}
	return fmt.Sprintf("%s%s(%d) %s", prefix, ts.Tag, ts.Count, date)
}

// ParseTagLabel recovers the tag name from a label built by FormatTagLabel.
// Plain tag names pass through without their leading '#'.
func ParseTagLabel(label string) string {
	name := label
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(strings.TrimSpace(name), "#")
}

// ApplyTagSummaries stores the detailed universe and its display labels.
func ApplyTagSummaries(s State, summaries []TagSummary) State {
	tags := make([]TagSummary, len(summaries))
	copy(tags, summaries)

	labels := make([]string, 0, len(tags))
	for _, ts := range tags {
		labels = append(labels, FormatTagLabel(ts))
	}

	s.Tags = tags
	s.TagLabels = labels
	s.LoadingTags = Idle
	return s
}
