package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"note-inbox/internal/services/inbox"
)

type contentBody struct {
	Content string `json:"content"`
}

func notePath(id inbox.NoteID) string {
	return "/inbox/notes/" + strconv.FormatInt(int64(id), 10)
}

func listValues(q inbox.ListQuery) url.Values {
	v := url.Values{}
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	if q.Tag != "" {
		v.Set("tag", q.Tag)
	}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	return v
}

// ListNotes fetches one window of notes.
func (c *Client) ListNotes(ctx context.Context, q inbox.ListQuery) (inbox.Page, error) {
	raw, err := c.do(ctx, http.MethodGet, "/inbox/notes", listValues(q), nil)
	if err != nil {
		return inbox.Page{}, err
	}
	return NormalizePage(raw, q, c.log), nil
}

// CreateNote posts a new note. A 2xx answer without a record yields a nil note.
func (c *Client) CreateNote(ctx context.Context, content string) (*inbox.Note, error) {
	raw, err := c.do(ctx, http.MethodPost, "/inbox/notes", nil, contentBody{Content: content})
	if err != nil {
		return nil, err
	}
	if isEmptyBody(raw) {
		return nil, nil
	}

	var w wireNote
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, malformed("create", err)
	}
	if w.ID == 0 {
		return nil, nil
	}
	n := w.toNote()
	return &n, nil
}

// UpdateNote replaces the content of a note. Any 2xx answer is success.
func (c *Client) UpdateNote(ctx context.Context, id inbox.NoteID, content string) error {
	_, err := c.do(ctx, http.MethodPut, notePath(id), nil, contentBody{Content: content})
	return err
}

// DeleteNote removes a note. A 404 unwraps to inbox.ErrNotFound.
func (c *Client) DeleteNote(ctx context.Context, id inbox.NoteID) error {
	_, err := c.do(ctx, http.MethodDelete, notePath(id), nil, nil)
	return err
}

// ListTags returns the tag names known to the store.
func (c *Client) ListTags(ctx context.Context) ([]string, error) {
	raw, err := c.do(ctx, http.MethodGet, "/inbox/tags", nil, nil)
	if err != nil {
		return nil, err
	}
	tags := []string{}
	if isEmptyBody(raw) {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, malformed("tags", err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

// ListDetailedTags returns tag usage statistics.
func (c *Client) ListDetailedTags(ctx context.Context) ([]inbox.TagSummary, error) {
	raw, err := c.do(ctx, http.MethodGet, "/inbox/tags/detailed", nil, nil)
	if err != nil {
		return nil, err
	}
	out := []inbox.TagSummary{}
	if isEmptyBody(raw) {
		return out, nil
	}
	var wire []wireTagSummary
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, malformed("detailed tags", err)
	}
	for _, w := range wire {
		out = append(out, w.toSummary())
	}
	return out, nil
}

// ListComments returns the comments of a note.
func (c *Client) ListComments(ctx context.Context, noteID inbox.NoteID) ([]inbox.Comment, error) {
	raw, err := c.do(ctx, http.MethodGet, notePath(noteID)+"/comments", nil, nil)
	if err != nil {
		return nil, err
	}
	out := []inbox.Comment{}
	if isEmptyBody(raw) {
		return out, nil
	}
	var wire []wireComment
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, malformed("comments", err)
	}
	for _, w := range wire {
		out = append(out, w.toComment())
	}
	return out, nil
}

// AddComment posts a comment. A 2xx answer without a record yields a nil comment.
func (c *Client) AddComment(ctx context.Context, noteID inbox.NoteID, content string) (*inbox.Comment, error) {
	raw, err := c.do(ctx, http.MethodPost, notePath(noteID)+"/comments", nil, contentBody{Content: content})
	if err != nil {
		return nil, err
	}
	if isEmptyBody(raw) {
		return nil, nil
	}
	var w wireComment
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, malformed("comment", err)
	}
	cm := w.toComment()
	return &cm, nil
}
