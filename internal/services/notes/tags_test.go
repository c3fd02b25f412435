package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"no tags here", []string{}},
		{"#work plan", []string{"work"}},
		{"Call mom #home #urgent", []string{"home", "urgent"}},
		{"dup #a and #a again", []string{"a"}},
		{"end of sentence #done.", []string{"done"}},
		{"(see #ref)", []string{"ref"}},
		{"adjacent #a#b", []string{"a", "b"}},
		{"lone # sign", []string{}},
		{"unicode #café", []string{"café"}},
		{"#!", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.content, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTags(tt.content))
		})
	}
}

func TestHasTag(t *testing.T) {
	n := &Note{Tags: []string{"work", "home"}}
	assert.True(t, HasTag(n, "work"))
	assert.True(t, HasTag(n, "#home"))
	assert.False(t, HasTag(n, "wor"))
	assert.False(t, HasTag(&Note{}, "work"))
}

func TestSortTagStats(t *testing.T) {
	stats := []TagStat{{Tag: "b", Count: 1}, {Tag: "c", Count: 4}, {Tag: "a", Count: 1}}
	SortTagStats(stats)
	assert.Equal(t, []TagStat{{Tag: "c", Count: 4}, {Tag: "a", Count: 1}, {Tag: "b", Count: 1}}, stats)
}
