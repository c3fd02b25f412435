package inbox

// OpStatus is the entry guard of one operation class.
type OpStatus uint8

const (
	Idle OpStatus = iota
	Pending
)

func (s OpStatus) String() string {
	if s == Pending {
		return "pending"
	}
	return "idle"
}

// State is the whole inbox session. Transition functions take a State and
// return a new one; shared slices and maps are never written in place, so a
// State obtained from Controller.Snapshot must be treated as read-only.
type State struct {
	Notes  NoteList
	Filter TagFilter
	Search string
	SortBy string

	// Generation identifies the current filter context. Every reset bumps it
	// and list responses issued under an older generation are discarded.
	Generation   uint64
	Loading      OpStatus
	Submitting   OpStatus
	Disconnected bool
	deleting     map[NoteID]struct{}

	Editor      Editor
	Suggestions SuggestionList
	suggestSeq  uint64

	Tags        []TagSummary
	TagLabels   []string
	LoadingTags OpStatus

	Comments CommentThread
}

// NewState returns an empty session for the given page size.
func NewState(pageSize int) State {
	return State{
		Notes:       NewNoteList(pageSize),
		Suggestions: NoSuggestions(),
		Tags:        []TagSummary{},
		TagLabels:   []string{},
	}
}

// Deleting reports whether a delete of id is in flight.
func (s State) Deleting(id NoteID) bool {
	_, ok := s.deleting[id]
	return ok
}

// query builds the list request for the current cursor and scope.
func (s State) query() ListQuery {
	c := s.Notes.Cursor()
	q := ListQuery{
		Limit:  c.PageSize,
		Offset: c.Offset,
		Search: s.Search,
		SortBy: s.SortBy,
	}
	if tag, ok := s.Filter.Active(); ok {
		q.Tag = tag
	}
	return q
}

func (s State) withDeleting(id NoteID, on bool) State {
	next := make(map[NoteID]struct{}, len(s.deleting)+1)
	for k := range s.deleting {
		next[k] = struct{}{}
	}
	if on {
		next[id] = struct{}{}
	} else {
		delete(next, id)
	}
	s.deleting = next
	return s
}
