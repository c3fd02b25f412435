package gateway

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"note-inbox/internal/services/inbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestNormalizePage(t *testing.T) {
	q := inbox.ListQuery{Limit: 2, Offset: 4}

	tests := []struct {
		name        string
		body        string
		wantIDs     []inbox.NoteID
		wantNext    int
		wantHasMore bool
		wantAnomaly bool
	}{
		{name: "bare full page", body: `[{"id":1},{"id":2}]`, wantIDs: []inbox.NoteID{1, 2}, wantNext: 6, wantHasMore: true},
		{name: "bare short page", body: `[{"id":1}]`, wantIDs: []inbox.NoteID{1}, wantNext: 5},
		{name: "bare empty", body: `[]`, wantIDs: []inbox.NoteID{}, wantNext: 4},
		{name: "bare overfull page", body: `[{"id":1},{"id":2},{"id":3}]`, wantIDs: []inbox.NoteID{1, 2, 3}, wantNext: 7, wantHasMore: true},
		{name: "envelope empty batch ends list", body: `{"notes":[],"offset":4,"hasMore":true}`, wantIDs: []inbox.NoteID{}, wantNext: 4},
		{name: "envelope empty batch without hints", body: `{"notes":[]}`, wantIDs: []inbox.NoteID{}, wantNext: 4},
		{name: "envelope trusted", body: `{"notes":[{"id":1}],"offset":9,"hasMore":true}`, wantIDs: []inbox.NoteID{1}, wantNext: 9, wantHasMore: true},
		{name: "envelope offset never behind batch", body: `{"notes":[{"id":1},{"id":2}],"offset":0,"hasMore":false}`, wantIDs: []inbox.NoteID{1, 2}, wantNext: 6},
		{name: "envelope without hints", body: `{"notes":[{"id":1},{"id":2}]}`, wantIDs: []inbox.NoteID{1, 2}, wantNext: 6, wantHasMore: true},
		{name: "envelope missing notes", body: `{"items":[]}`, wantIDs: []inbox.NoteID{}, wantNext: 4, wantAnomaly: true},
		{name: "envelope null notes", body: `{"notes":null}`, wantIDs: []inbox.NoteID{}, wantNext: 4, wantAnomaly: true},
		{name: "scalar", body: `42`, wantIDs: []inbox.NoteID{}, wantNext: 4, wantAnomaly: true},
		{name: "string", body: `"oops"`, wantIDs: []inbox.NoteID{}, wantNext: 4, wantAnomaly: true},
		{name: "empty", body: ``, wantIDs: []inbox.NoteID{}, wantNext: 4, wantAnomaly: true},
		{name: "broken json", body: `[{"id":`, wantIDs: []inbox.NoteID{}, wantNext: 4, wantAnomaly: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, buf := captureLogger()
			page := NormalizePage([]byte(tt.body), q, log)

			ids := make([]inbox.NoteID, 0, len(page.Notes))
			for _, n := range page.Notes {
				ids = append(ids, n.ID)
				assert.NotNil(t, n.Tags)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantNext, page.NextOffset)
			assert.Equal(t, tt.wantHasMore, page.HasMore)
			if tt.wantAnomaly {
				assert.Contains(t, buf.String(), "anomalous list response")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestWireNoteDecoding(t *testing.T) {
	body := `[
		{"id":"7","content":"a","tags":null,"created_at":"2025-06-01T23:00:26Z","updated_at":"2025-06-01 23:05:00"},
		{"id":8,"content":"b","tags":["x"],"created_at":1748818826,"updated_at":null},
		{"id":9,"content":"c","created_at":"yesterday","updated_at":"2025-06-01T23:00:26.123456"}
	]`
	log, _ := captureLogger()
	page := NormalizePage([]byte(body), inbox.ListQuery{Limit: 50}, log)
	require.Len(t, page.Notes, 3)

	want := time.Date(2025, 6, 1, 23, 0, 26, 0, time.UTC)

	assert.Equal(t, inbox.NoteID(7), page.Notes[0].ID)
	assert.Equal(t, []string{}, page.Notes[0].Tags)
	assert.Equal(t, want, page.Notes[0].CreatedAt)
	assert.Equal(t, want.Add(4*time.Minute+34*time.Second), page.Notes[0].UpdatedAt)

	assert.Equal(t, []string{"x"}, page.Notes[1].Tags)
	assert.Equal(t, want, page.Notes[1].CreatedAt)
	assert.True(t, page.Notes[1].UpdatedAt.IsZero())

	assert.True(t, page.Notes[2].CreatedAt.IsZero())
	assert.Equal(t, want.Add(123456*time.Microsecond), page.Notes[2].UpdatedAt)
}

func TestTagSummaryDecoding(t *testing.T) {
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	camel := wireTagSummary{Tag: "a", Count: 2, LatestCamel: wireTime{ts}}.toSummary()
	require.NotNil(t, camel.LatestUpdatedAt)
	assert.Equal(t, ts, *camel.LatestUpdatedAt)

	snake := wireTagSummary{Tag: "b", LatestSnake: wireTime{ts}}.toSummary()
	require.NotNil(t, snake.LatestUpdatedAt)

	none := wireTagSummary{Tag: "c"}.toSummary()
	assert.Nil(t, none.LatestUpdatedAt)
}
