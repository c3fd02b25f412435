package notes

import (
	"context"
	"time"
)

// Sort orders accepted by List.
const (
	SortNewest  = "newest"
	SortOldest  = "oldest"
	SortUpdated = "updated"
)

// Repository defines the interface for notes repository operations
type Repository interface {
	// Create assigns the note its id.
	Create(ctx context.Context, n *Note) error
	// List returns at most req.Limit notes after skipping req.Offset, filtered
	// and ordered as the request says.
	List(ctx context.Context, req ListNotesRequest) ([]*Note, error)
	Update(ctx context.Context, id int64, content string, tags []string, at time.Time) (*Note, error)
	Delete(ctx context.Context, id int64) error

	TagStats(ctx context.Context) ([]TagStat, error)

	ListComments(ctx context.Context, noteID int64) ([]*Comment, error)
	// AddComment assigns the comment its id and fails with ErrNoteNotFound
	// when the note is absent.
	AddComment(ctx context.Context, c *Comment) error
}

// Bus defines the interface for event broadcasting
type Bus interface {
	Broadcast(ctx context.Context, ev NoteEvent)
}
