package gateway

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"note-inbox/internal/services/inbox"
)

// timeLayouts are the timestamp formats seen from note stores, most
// specific first.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// wireTime accepts RFC 3339 and the common naive layouts, or unix seconds.
// Anything unparseable decodes to the zero time.
type wireTime struct {
	time.Time
}

func (t *wireTime) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		t.Time = parseTime(unquoted)
		return nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		t.Time = time.Unix(0, int64(secs*float64(time.Second))).UTC()
	}
	return nil
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// wireID accepts numbers and numeric strings.
type wireID int64

func (id *wireID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*id = wireID(v)
	return nil
}

type wireNote struct {
	ID        wireID   `json:"id"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags"`
	CreatedAt wireTime `json:"created_at"`
	UpdatedAt wireTime `json:"updated_at"`
}

func (w wireNote) toNote() inbox.Note {
	tags := w.Tags
	if tags == nil {
		tags = []string{}
	}
	return inbox.Note{
		ID:        inbox.NoteID(w.ID),
		Content:   w.Content,
		Tags:      tags,
		CreatedAt: w.CreatedAt.Time,
		UpdatedAt: w.UpdatedAt.Time,
	}
}

func toNotes(in []wireNote) []inbox.Note {
	out := make([]inbox.Note, 0, len(in))
	for _, w := range in {
		out = append(out, w.toNote())
	}
	return out
}

type wireEnvelope struct {
	Notes   *[]wireNote `json:"notes"`
	Offset  *int        `json:"offset"`
	HasMore *bool       `json:"hasMore"`
}

type wireTagSummary struct {
	Tag         string   `json:"tag"`
	Count       int      `json:"count"`
	LatestCamel wireTime `json:"latestUpdatedAt"`
	LatestSnake wireTime `json:"latest_updated_at"`
}

func (w wireTagSummary) toSummary() inbox.TagSummary {
	s := inbox.TagSummary{Tag: w.Tag, Count: w.Count}
	latest := w.LatestCamel.Time
	if latest.IsZero() {
		latest = w.LatestSnake.Time
	}
	if !latest.IsZero() {
		s.LatestUpdatedAt = &latest
	}
	return s
}

type wireComment struct {
	ID        wireID   `json:"id"`
	NoteID    wireID   `json:"note_id"`
	Content   string   `json:"content"`
	CreatedAt wireTime `json:"created_at"`
}

func (w wireComment) toComment() inbox.Comment {
	return inbox.Comment{
		ID:        inbox.CommentID(w.ID),
		NoteID:    inbox.NoteID(w.NoteID),
		Content:   w.Content,
		CreatedAt: w.CreatedAt.Time,
	}
}

// NormalizePage turns a list response of either shape into the canonical
// page. A bare array gets hasMore synthesized from its length. An envelope's
// hasMore is trusted when present, and its offset is read as the next
// offset but never allowed behind what the batch itself advanced to. An
// empty batch always ends the list. Any other shape becomes an empty final
// page and is logged as an anomaly.
func NormalizePage(raw []byte, q inbox.ListQuery, log *slog.Logger) inbox.Page {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 {
		return anomaly(log, q, "empty body")
	}

	switch body[0] {
	case '[':
		var list []wireNote
		if err := json.Unmarshal(body, &list); err != nil {
			return anomaly(log, q, "undecodable note array: "+err.Error())
		}
		return inbox.SynthesizePage(q, toNotes(list))

	case '{':
		var env wireEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return anomaly(log, q, "undecodable envelope: "+err.Error())
		}
		if env.Notes == nil {
			return anomaly(log, q, "envelope without notes")
		}
		page := inbox.SynthesizePage(q, toNotes(*env.Notes))
		if env.HasMore != nil && len(page.Notes) > 0 {
			page.HasMore = *env.HasMore
		}
		if env.Offset != nil && *env.Offset > page.NextOffset {
			page.NextOffset = *env.Offset
		}
		return page
	}

	return anomaly(log, q, "unexpected list shape")
}

func anomaly(log *slog.Logger, q inbox.ListQuery, reason string) inbox.Page {
	log.Warn("anomalous list response, treating as end of list",
		"reason", reason,
		"offset", q.Offset,
		"limit", q.Limit,
		"tag", q.Tag,
	)
	return inbox.Page{Notes: []inbox.Note{}, NextOffset: q.Offset, HasMore: false}
}
