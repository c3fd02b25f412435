package inbox

import "time"

// CommentThread is the comment panel of the selected note.
type CommentThread struct {
	NoteID   NoteID
	Selected bool
	Open     bool
	Draft    string
	Caret    int
	Items    []Comment
	Posting  OpStatus
}

// ZettelID formats t as the YYYYMMDDHHMMSS link id used to seed comment drafts.
func ZettelID(t time.Time) string {
	return t.UTC().Format("20060102150405")
}

// CommentEffect is a pending comment post.
type CommentEffect struct {
	NoteID  NoteID
	Content string
}

// OpenComments selects the cached note and opens the comment editor with a
// draft linking back to it.
func OpenComments(s State, id NoteID) (State, error) {
	n, ok := s.Notes.Find(id)
	if !ok {
		return s, ErrNotFound
	}
	draft := "[[" + ZettelID(n.CreatedAt) + "]] "
	s.Comments = CommentThread{
		NoteID:   id,
		Selected: true,
		Open:     true,
		Draft:    draft,
		Caret:    len([]rune(draft)),
		Items:    []Comment{},
	}
	return ClearSuggestions(s), nil
}

// ApplyComments stores the fetched thread unless another note was selected
// in the meantime.
func ApplyComments(s State, id NoteID, items []Comment) (State, bool) {
	if !s.Comments.Selected || s.Comments.NoteID != id {
		return s, false
	}
	out := make([]Comment, len(items))
	copy(out, items)
	s.Comments.Items = out
	return s, true
}

// PlanComment validates the draft and claims the posting guard.
func PlanComment(s State) (State, *CommentEffect, error) {
	if !s.Comments.Selected {
		return s, nil, ErrNoCommentTarget
	}
	if blank(s.Comments.Draft) {
		return s, nil, ErrEmptyContent
	}
	if s.Comments.Posting == Pending {
		return s, nil, ErrBusy
	}
	s.Comments.Posting = Pending
	return s, &CommentEffect{NoteID: s.Comments.NoteID, Content: s.Comments.Draft}, nil
}

// ApplyCommentPosted clears the draft and closes the comment editor. The
// note stays selected so its thread can be refetched.
func ApplyCommentPosted(s State, _ CommentEffect) State {
	s.Comments.Posting = Idle
	s.Comments.Draft = ""
	s.Comments.Caret = 0
	s.Comments.Open = false
	return ClearSuggestions(s)
}

// ApplyCommentFailure releases the guard and keeps the draft.
func ApplyCommentFailure(s State, _ CommentEffect) State {
	s.Comments.Posting = Idle
	return s
}

// CancelComment closes the comment editor and drops its draft.
func CancelComment(s State) State {
	s.Comments.Open = false
	s.Comments.Draft = ""
	s.Comments.Caret = 0
	return ClearSuggestions(s)
}
