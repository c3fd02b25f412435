package notes

import "time"

// Note is an inbox note as stored and served by the note store.
type Note struct {
	ID        int64     `bson:"_id" json:"id"`
	Content   string    `bson:"content" json:"content"`
	Tags      []string  `bson:"tags" json:"tags"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Comment is attached to a single note.
type Comment struct {
	ID        int64     `bson:"_id" json:"id"`
	NoteID    int64     `bson:"note_id" json:"note_id"`
	Content   string    `bson:"content" json:"content"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// TagStat summarizes one tag across all notes.
type TagStat struct {
	Tag             string    `bson:"_id" json:"tag"`
	Count           int       `bson:"count" json:"count"`
	LatestUpdatedAt time.Time `bson:"latest_updated_at" json:"latestUpdatedAt"`
}

// Event types published on the hub.
const (
	EventCreated = "created"
	EventUpdated = "updated"
	EventDeleted = "deleted"
)

// NoteEvent represents an event that occurred on a note
type NoteEvent struct {
	Type string `json:"type"`
	Note *Note  `json:"note"`
}
