package inbox

// Cursor describes fetch progress for the current filter context.
type Cursor struct {
	Offset   int
	PageSize int
	HasMore  bool
}

// NoteList is the ordered note cache plus its pagination cursor.
//
// It is a value type: every operation returns a new NoteList and leaves the
// receiver untouched, so snapshots handed out by the controller stay stable.
type NoteList struct {
	notes  []Note
	cursor Cursor
}

// NewNoteList returns an empty list for the given page size.
func NewNoteList(pageSize int) NoteList {
	return NoteList{cursor: Cursor{PageSize: pageSize, HasMore: true}}
}

// Reset clears the sequence, rewinds the offset and assumes more is available.
func (l NoteList) Reset() NoteList {
	return NewNoteList(l.cursor.PageSize)
}

// Append adds a fetched batch, advances the offset by the batch size and sets
// HasMore from the batch size versus the page size.
func (l NoteList) Append(batch []Note) NoteList {
	return l.ApplyPage(Page{
		Notes:      batch,
		NextOffset: l.cursor.Offset + len(batch),
		HasMore:    len(batch) > 0 && len(batch) >= l.cursor.PageSize,
	})
}

// ApplyPage appends a normalized page and adopts its cursor. Notes already
// cached under the same id are skipped; the offset still follows the page.
// An empty page exhausts the list whatever it claims.
func (l NoteList) ApplyPage(p Page) NoteList {
	out := NoteList{
		notes:  make([]Note, 0, len(l.notes)+len(p.Notes)),
		cursor: l.cursor,
	}
	out.notes = append(out.notes, l.notes...)

	seen := make(map[NoteID]struct{}, len(out.notes))
	for _, n := range out.notes {
		seen[n.ID] = struct{}{}
	}
	for _, n := range p.Notes {
		if _, dup := seen[n.ID]; dup {
			continue
		}
		seen[n.ID] = struct{}{}
		out.notes = append(out.notes, ensureTags(n))
	}

	out.cursor.Offset = p.NextOffset
	out.cursor.HasMore = p.HasMore && len(p.Notes) > 0
	return out
}

// Exhaust marks the list as having nothing more to fetch.
func (l NoteList) Exhaust() NoteList {
	l.cursor.HasMore = false
	return l
}

// Replace substitutes the supplied fields of the note with the given id,
// keeping its identity and every field the patch leaves nil.
func (l NoteList) Replace(id NoteID, patch NotePatch) (NoteList, bool) {
	idx := l.index(id)
	if idx < 0 {
		return l, false
	}

	notes := make([]Note, len(l.notes))
	copy(notes, l.notes)

	n := notes[idx]
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Tags != nil {
		n.Tags = patch.Tags
	}
	if patch.UpdatedAt != nil {
		n.UpdatedAt = *patch.UpdatedAt
	}
	notes[idx] = n

	return NoteList{notes: notes, cursor: l.cursor}, true
}

// Remove drops the note with the given id. Removing an absent id is a no-op.
func (l NoteList) Remove(id NoteID) (NoteList, bool) {
	idx := l.index(id)
	if idx < 0 {
		return l, false
	}

	notes := make([]Note, 0, len(l.notes)-1)
	notes = append(notes, l.notes[:idx]...)
	notes = append(notes, l.notes[idx+1:]...)

	return NoteList{notes: notes, cursor: l.cursor}, true
}

// Prepend puts n at the front, replacing any cached note with the same id.
func (l NoteList) Prepend(n Note) NoteList {
	rest := l
	if idx := l.index(n.ID); idx >= 0 {
		rest, _ = l.Remove(n.ID)
	}

	notes := make([]Note, 0, len(rest.notes)+1)
	notes = append(notes, ensureTags(n))
	notes = append(notes, rest.notes...)

	return NoteList{notes: notes, cursor: l.cursor}
}

// Find returns the cached note with the given id.
func (l NoteList) Find(id NoteID) (Note, bool) {
	idx := l.index(id)
	if idx < 0 {
		return Note{}, false
	}
	return l.notes[idx], true
}

// Notes returns a copy of the cached sequence.
func (l NoteList) Notes() []Note {
	out := make([]Note, len(l.notes))
	copy(out, l.notes)
	return out
}

// Len is the number of cached notes.
func (l NoteList) Len() int { return len(l.notes) }

// Cursor returns the pagination cursor.
func (l NoteList) Cursor() Cursor { return l.cursor }

func (l NoteList) index(id NoteID) int {
	for i, n := range l.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}
