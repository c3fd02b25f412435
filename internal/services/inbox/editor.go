package inbox

import (
	"note-inbox/internal/utils/sanitize"
)

// EditorMode tells whether the note editor is closed, composing a new note or
// editing a cached one. It is never both.
type EditorMode uint8

const (
	EditorClosed EditorMode = iota
	EditorCreating
	EditorEditing
)

func (m EditorMode) String() string {
	switch m {
	case EditorCreating:
		return "creating"
	case EditorEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Editor is the note edit session. Draft survives closing a create session
// so the text is restored the next time one is opened.
type Editor struct {
	Mode      EditorMode
	NoteID    NoteID
	Content   string
	Caret     int
	Draft     string
	Highlight string
}

// BeginCreate opens the editor for a new note seeded with the saved draft.
func BeginCreate(s State) State {
	s.Suggestions = NoSuggestions()
	s.Editor = openEditor(s.Editor.Draft, s.Editor.Draft)
	s.Editor.Mode = EditorCreating
	return s
}

// BeginEdit opens the editor on the cached note with the given id.
func BeginEdit(s State, id NoteID) (State, error) {
	n, ok := s.Notes.Find(id)
	if !ok {
		return s, ErrNotFound
	}
	s.Suggestions = NoSuggestions()
	s.Editor = openEditor(n.Content, s.Editor.Draft)
	s.Editor.Mode = EditorEditing
	s.Editor.NoteID = id
	return s, nil
}

func openEditor(content, draft string) Editor {
	return Editor{
		Content:   content,
		Caret:     len([]rune(content)),
		Draft:     draft,
		Highlight: sanitize.Highlight(content),
	}
}

// CloseEditor ends the session. A create session keeps its text as the draft;
// an edit session discards it.
func CloseEditor(s State) State {
	draft := s.Editor.Draft
	if s.Editor.Mode == EditorCreating {
		draft = s.Editor.Content
	}
	s.Editor = Editor{Draft: draft}
	return ClearSuggestions(s)
}

// ApplySubmitted closes the editor after a successful submit and forgets the
// draft of a created note.
func ApplySubmitted(s State, eff SubmitEffect) State {
	s = CloseEditor(s)
	if eff.Kind == SubmitCreate {
		s.Editor.Draft = ""
	}
	return s
}

// Input records an edit of the active text, the comment draft when the
// comment editor is open and the note editor otherwise, then plans the
// autocomplete fetch for the caret position.
func Input(s State, content string, caret int) (State, *SuggestEffect, error) {
	caret = clampCaret(caret, len([]rune(content)))

	switch {
	case s.Comments.Open:
		s.Comments.Draft = content
		s.Comments.Caret = caret
	case s.Editor.Mode != EditorClosed:
		s.Editor.Content = content
		s.Editor.Caret = caret
		s.Editor.Highlight = sanitize.Highlight(content)
	default:
		return s, nil, ErrNotEditing
	}

	s, eff := PlanSuggest(s, content, caret)
	return s, eff, nil
}

// activeText returns the text autocomplete currently works on.
func activeText(s State) (string, int, bool) {
	switch {
	case s.Comments.Open:
		return s.Comments.Draft, s.Comments.Caret, true
	case s.Editor.Mode != EditorClosed:
		return s.Editor.Content, s.Editor.Caret, true
	default:
		return "", 0, false
	}
}

// ApplySuggestion splices tag over the partial token at the caret of the
// active text and clears the suggestion list.
func ApplySuggestion(s State, tag string) State {
	text, caret, ok := activeText(s)
	if !ok {
		return ClearSuggestions(s)
	}

	text, caret = SpliceTag(text, caret, tag)
	if s.Comments.Open {
		s.Comments.Draft = text
		s.Comments.Caret = caret
	} else {
		s.Editor.Content = text
		s.Editor.Caret = caret
		s.Editor.Highlight = sanitize.Highlight(text)
	}
	return ClearSuggestions(s)
}

// AcceptSuggestion applies the selected suggestion, if any.
func AcceptSuggestion(s State) (State, bool) {
	sel, ok := s.Suggestions.Current()
	if !ok {
		return s, false
	}
	return ApplySuggestion(s, sel.Name), true
}
