package inbox

import "time"

// NoteID is the server-assigned note identifier.
type NoteID int64

// CommentID is the server-assigned comment identifier.
type CommentID int64

// Note is a cached inbox note. Tags is never nil once the note is in the cache.
type Note struct {
	ID        NoteID    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// NotePatch carries the fields replaced by NoteList.Replace. Nil fields are kept.
type NotePatch struct {
	Content   *string
	Tags      []string
	UpdatedAt *time.Time
}

// TagSummary is one entry of the detailed tag universe.
type TagSummary struct {
	Tag             string     `json:"tag" yaml:"tag"`
	Count           int        `json:"count" yaml:"count"`
	LatestUpdatedAt *time.Time `json:"latest_updated_at,omitempty" yaml:"latest_updated_at,omitempty"`
}

// Comment belongs to a single note.
type Comment struct {
	ID        CommentID `json:"id" yaml:"id"`
	NoteID    NoteID    `json:"note_id" yaml:"note_id"`
	Content   string    `json:"content" yaml:"content"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// ListQuery is what a single pagination fetch asks the gateway for.
type ListQuery struct {
	Limit  int
	Offset int
	Tag    string
	Search string
	SortBy string
}

// Page is the canonical list response produced by the gateway adapter,
// whatever shape the remote store answered with.
type Page struct {
	Notes      []Note
	NextOffset int
	HasMore    bool
}

// NoteEvent is a change notification published by the remote store.
type NoteEvent struct {
	Type string `json:"type" yaml:"type"` // "created", "updated", "deleted"
	Note *Note  `json:"note" yaml:"note"`
}

func ensureTags(n Note) Note {
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return n
}
