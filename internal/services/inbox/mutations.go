package inbox

import (
	"strings"
	"time"
)

// SubmitKind distinguishes the two operations sharing the submit guard.
type SubmitKind uint8

const (
	SubmitCreate SubmitKind = iota + 1
	SubmitUpdate
)

func (k SubmitKind) String() string {
	if k == SubmitUpdate {
		return "update"
	}
	return "create"
}

// SubmitEffect is a pending create or update planned by PlanCreate/PlanUpdate.
type SubmitEffect struct {
	Kind        SubmitKind
	NoteID      NoteID
	Content     string
	SubmittedAt time.Time
}

func blank(content string) bool {
	return strings.TrimSpace(content) == ""
}

// PlanCreate validates content and claims the submit guard.
func PlanCreate(s State, content string, now time.Time) (State, *SubmitEffect, error) {
	if blank(content) {
		return s, nil, ErrEmptyContent
	}
	if s.Submitting == Pending {
		return s, nil, ErrBusy
	}
	s.Submitting = Pending
	return s, &SubmitEffect{Kind: SubmitCreate, Content: content, SubmittedAt: now}, nil
}

// PlanUpdate validates content and claims the submit guard.
func PlanUpdate(s State, id NoteID, content string, now time.Time) (State, *SubmitEffect, error) {
	if blank(content) {
		return s, nil, ErrEmptyContent
	}
	if s.Submitting == Pending {
		return s, nil, ErrBusy
	}
	s.Submitting = Pending
	return s, &SubmitEffect{Kind: SubmitUpdate, NoteID: id, Content: content, SubmittedAt: now}, nil
}

// ApplyCreated prepends the created record with an empty tag set. When the
// store acknowledged without a record it reports that a full reload is due.
func ApplyCreated(s State, _ SubmitEffect, created *Note) (State, bool) {
	s.Submitting = Idle
	if created == nil {
		return s, true
	}
	n := *created
	n.Tags = []string{}
	s.Notes = s.Notes.Prepend(n)
	return s, false
}

// ApplyUpdated replaces the cached content and stamps the local submission
// time. The tag set is left as it was until the next full reload.
func ApplyUpdated(s State, eff SubmitEffect) State {
	s.Submitting = Idle
	content := eff.Content
	at := eff.SubmittedAt
	s.Notes, _ = s.Notes.Replace(eff.NoteID, NotePatch{Content: &content, UpdatedAt: &at})
	return s
}

// ApplySubmitFailure releases the guard and leaves the cache untouched.
func ApplySubmitFailure(s State, _ SubmitEffect) State {
	s.Submitting = Idle
	return s
}

// PlanDelete claims the per-note delete guard. Deletes of different notes
// may overlap; a second delete of the same note is rejected.
func PlanDelete(s State, id NoteID) (State, error) {
	if s.Deleting(id) {
		return s, ErrBusy
	}
	return s.withDeleting(id, true), nil
}

// ApplyDeleted removes the acknowledged note from the cache.
func ApplyDeleted(s State, id NoteID) State {
	s = s.withDeleting(id, false)
	s.Notes, _ = s.Notes.Remove(id)
	return s
}

// ApplyDeleteFailure releases the guard and keeps the note cached, including
// when the store answered not found.
func ApplyDeleteFailure(s State, id NoteID) State {
	return s.withDeleting(id, false)
}
