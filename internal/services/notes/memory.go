package notes

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryRepo keeps notes and comments in process memory.
type MemoryRepo struct {
	mu            sync.RWMutex
	notes         map[int64]*Note
	comments      map[int64][]*Comment
	nextNoteID    int64
	nextCommentID int64
}

// NewMemoryRepo creates an empty in-memory repository.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		notes:    make(map[int64]*Note),
		comments: make(map[int64][]*Comment),
	}
}

func cloneNote(n *Note) *Note {
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	return &c
}

// Create stores a copy of n and assigns its id.
func (r *MemoryRepo) Create(_ context.Context, n *Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextNoteID++
	n.ID = r.nextNoteID
	r.notes[n.ID] = cloneNote(n)
	return nil
}

// List filters, orders and windows the stored notes.
func (r *MemoryRepo) List(_ context.Context, req ListNotesRequest) ([]*Note, error) {
	r.mu.RLock()
	matched := make([]*Note, 0, len(r.notes))
	for _, n := range r.notes {
		if matches(n, req) {
			matched = append(matched, cloneNote(n))
		}
	}
	r.mu.RUnlock()

	sortNotes(matched, req.SortBy)

	if req.Offset >= len(matched) {
		return []*Note{}, nil
	}
	end := len(matched)
	if req.Limit > 0 && req.Offset+req.Limit < end {
		end = req.Offset + req.Limit
	}
	return matched[req.Offset:end], nil
}

func matches(n *Note, req ListNotesRequest) bool {
	if req.Tag != "" && !HasTag(n, req.Tag) {
		return false
	}
	for _, t := range req.Tags {
		if !HasTag(n, t) {
			return false
		}
	}
	if req.Search != "" && !strings.Contains(strings.ToLower(n.Content), strings.ToLower(req.Search)) {
		return false
	}
	return true
}

func sortNotes(list []*Note, sortBy string) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch sortBy {
		case SortOldest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.ID < b.ID
		case SortUpdated:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.After(b.UpdatedAt)
			}
			return a.ID > b.ID
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
	})
}

// Update replaces content and tags of an existing note.
func (r *MemoryRepo) Update(_ context.Context, id int64, content string, tags []string, at time.Time) (*Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok {
		return nil, ErrNoteNotFound
	}
	n.Content = content
	n.Tags = append([]string{}, tags...)
	n.UpdatedAt = at
	return cloneNote(n), nil
}

// Delete removes a note together with its comments.
func (r *MemoryRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[id]; !ok {
		return ErrNoteNotFound
	}
	delete(r.notes, id)
	delete(r.comments, id)
	return nil
}

// TagStats aggregates tag usage over all notes.
func (r *MemoryRepo) TagStats(_ context.Context) ([]TagStat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byTag := make(map[string]*TagStat)
	for _, n := range r.notes {
		for _, t := range n.Tags {
			st, ok := byTag[t]
			if !ok {
				st = &TagStat{Tag: t}
				byTag[t] = st
			}
			st.Count++
			if n.UpdatedAt.After(st.LatestUpdatedAt) {
				st.LatestUpdatedAt = n.UpdatedAt
			}
		}
	}

	out := make([]TagStat, 0, len(byTag))
	for _, st := range byTag {
		out = append(out, *st)
	}
	SortTagStats(out)
	return out, nil
}

// ListComments returns the comments of a note, oldest first.
func (r *MemoryRepo) ListComments(_ context.Context, noteID int64) ([]*Comment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.notes[noteID]; !ok {
		return nil, ErrNoteNotFound
	}
	out := make([]*Comment, 0, len(r.comments[noteID]))
	for _, c := range r.comments[noteID] {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// AddComment appends a comment to an existing note.
func (r *MemoryRepo) AddComment(_ context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[c.NoteID]; !ok {
		return ErrNoteNotFound
	}
	r.nextCommentID++
	c.ID = r.nextCommentID
	cp := *c
	r.comments[c.NoteID] = append(r.comments[c.NoteID], &cp)
	return nil
}
