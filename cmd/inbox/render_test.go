package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"note-inbox/internal/services/inbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrinter(t *testing.T) {
	for _, f := range []string{"", "table", "json", "yaml"} {
		p, err := newPrinter(&bytes.Buffer{}, f)
		require.NoError(t, err, f)
		assert.NotEmpty(t, p.format)
	}
	_, err := newPrinter(&bytes.Buffer{}, "csv")
	assert.ErrorIs(t, err, errOutputFormat)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a b c", truncate("a\n  b\tc", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "日本語…", truncate("日本語テキスト", 4))
}

func TestFormatTags(t *testing.T) {
	assert.Equal(t, "-", formatTags(nil))
	assert.Equal(t, "#a #b", formatTags([]string{"a", "#b"}))
}

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, formatTable)
	require.NoError(t, err)

	require.NoError(t, p.notes([]inbox.Note{
		{ID: 1, Content: "first", Tags: []string{"a"}},
		{ID: 1234, Content: "second", Tags: []string{"longer"}, UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	col := strings.Index(lines[0], "CONTENT")
	require.Positive(t, col)
	assert.Equal(t, col, strings.Index(lines[1], "first"))
	assert.Equal(t, col, strings.Index(lines[2], "second"))
}

func TestYAMLOutput(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, formatYAML)
	require.NoError(t, err)

	require.NoError(t, p.comments(nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, p.text("plan home"))
	assert.Equal(t, "text: plan home\n", buf.String())
}

func TestNoticeOnlyInTableMode(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, formatJSON)
	require.NoError(t, err)
	require.NoError(t, p.notice("hello"))
	assert.Empty(t, buf.String())
}
