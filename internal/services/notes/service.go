package notes

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"note-inbox/internal/utils/sanitize"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Service handles notes business logic
type Service struct {
	repo Repository
	bus  Bus
	log  *slog.Logger
	now  func() time.Time
}

// NewService creates a new notes service
func NewService(repo Repository, bus Bus, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		bus:  bus,
		log:  log,
		now:  time.Now,
	}
}

// CreateNoteRequest represents a note creation request
type CreateNoteRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// UpdateNoteRequest represents a note update request
type UpdateNoteRequest struct {
	Content string `json:"content" validate:"required,max=20000"`
}

// CreateCommentRequest represents a comment creation request
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

// ListNotesRequest represents a list notes request
type ListNotesRequest struct {
	Limit  int      `query:"limit"   validate:"omitempty,min=1,max=200"`
	Offset int      `query:"offset"  validate:"min=0"`
	Tag    string   `query:"tag"     validate:"omitempty,max=128"`
	Tags   []string `query:"tags"    validate:"omitempty,dive,max=128"`
	Search string   `query:"search"  validate:"omitempty,max=256"`
	SortBy string   `query:"sort_by" validate:"omitempty,oneof=newest oldest updated"`
}

// ListNotesResponse is the envelope answer of a list request.
type ListNotesResponse struct {
	Notes   []*Note `json:"notes"`
	Offset  int     `json:"offset"`
	HasMore bool    `json:"hasMore"`
}

// Create creates a new note
func (s *Service) Create(ctx context.Context, req CreateNoteRequest) (*Note, error) {
	content := sanitize.StripHTML(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	now := s.now().UTC()
	note := &Note{
		Content:   content,
		Tags:      ExtractTags(content),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		s.log.Error(ErrCreateNote.Error(), "error", err)
		return nil, ErrCreateNote
	}

	s.bus.Broadcast(ctx, NoteEvent{
		Type: EventCreated,
		Note: note,
	})

	return note, nil
}

// List retrieves a window of notes. Offset in the response is the offset of
// the next window.
func (s *Service) List(ctx context.Context, req ListNotesRequest) (*ListNotesResponse, error) {
	if req.Limit == 0 {
		req.Limit = DefaultListLimit
	}
	if req.Limit < 0 || req.Limit > MaxListLimit || req.Offset < 0 {
		return nil, ErrInvalidLimit
	}

	// Fetch limit+1 to determine if there are more results
	fetchReq := req
	fetchReq.Limit = req.Limit + 1

	notes, err := s.repo.List(ctx, fetchReq)
	if err != nil {
		s.log.Error(ErrListNotes.Error(), "error", err, "tag", req.Tag)
		return nil, ErrListNotes
	}

	hasMore := len(notes) > req.Limit
	if hasMore {
		notes = notes[:req.Limit]
	}

	return &ListNotesResponse{
		Notes:   notes,
		Offset:  req.Offset + len(notes),
		HasMore: hasMore,
	}, nil
}

// Update replaces the content of a note and re-derives its tags
func (s *Service) Update(ctx context.Context, id int64, req UpdateNoteRequest) (*Note, error) {
	content := sanitize.StripHTML(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	updated, err := s.repo.Update(ctx, id, content, ExtractTags(content), s.now().UTC())
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for update", "note_id", id)
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrUpdateNote.Error(), "error", err, "note_id", id)
		return nil, ErrUpdateNote
	}

	s.bus.Broadcast(ctx, NoteEvent{
		Type: EventUpdated,
		Note: updated,
	})

	return updated, nil
}

// Delete deletes a note
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for delete", "note_id", id)
			return ErrNoteNotFound
		}
		s.log.Error(ErrDeleteNote.Error(), "error", err, "note_id", id)
		return ErrDeleteNote
	}

	s.bus.Broadcast(ctx, NoteEvent{
		Type: EventDeleted,
		Note: &Note{ID: id},
	})

	return nil
}

// Tags returns every tag name, most used first
func (s *Service) Tags(ctx context.Context) ([]string, error) {
	stats, err := s.DetailedTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(stats))
	for _, st := range stats {
		out = append(out, st.Tag)
	}
	return out, nil
}

// DetailedTags returns usage count and latest update per tag
func (s *Service) DetailedTags(ctx context.Context) ([]TagStat, error) {
	stats, err := s.repo.TagStats(ctx)
	if err != nil {
		s.log.Error(ErrListTags.Error(), "error", err)
		return nil, ErrListTags
	}
	if stats == nil {
		stats = []TagStat{}
	}
	return stats, nil
}

// Comments lists the comments of a note
func (s *Service) Comments(ctx context.Context, noteID int64) ([]*Comment, error) {
	comments, err := s.repo.ListComments(ctx, noteID)
	if err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrListComments.Error(), "error", err, "note_id", noteID)
		return nil, ErrListComments
	}
	if comments == nil {
		comments = []*Comment{}
	}
	return comments, nil
}

// AddComment attaches a comment to a note
func (s *Service) AddComment(ctx context.Context, noteID int64, req CreateCommentRequest) (*Comment, error) {
	content := sanitize.StripHTML(req.Content)
	if content == "" {
		return nil, ErrEmptyContent
	}

	c := &Comment{
		NoteID:    noteID,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		if errors.Is(err, ErrNoteNotFound) {
			s.log.Info("note not found for comment", "note_id", noteID)
			return nil, ErrNoteNotFound
		}
		s.log.Error(ErrAddComment.Error(), "error", err, "note_id", noteID)
		return nil, ErrAddComment
	}
	return c, nil
}
