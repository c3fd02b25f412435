package inbox

import "context"

// Gateway defines the remote note store operations the inbox depends on.
//
// Implementations classify failures: a 404 unwraps to ErrNotFound, other
// non-2xx answers to ErrServer, transport failures and timeouts to ErrNetwork.
type Gateway interface {
	ListNotes(ctx context.Context, q ListQuery) (Page, error)
	// CreateNote returns a nil note and nil error when the store acknowledged
	// the create with an empty body.
	CreateNote(ctx context.Context, content string) (*Note, error)
	UpdateNote(ctx context.Context, id NoteID, content string) error
	DeleteNote(ctx context.Context, id NoteID) error

	ListTags(ctx context.Context) ([]string, error)
	ListDetailedTags(ctx context.Context) ([]TagSummary, error)

	ListComments(ctx context.Context, noteID NoteID) ([]Comment, error)
	AddComment(ctx context.Context, noteID NoteID, content string) (*Comment, error)
}
