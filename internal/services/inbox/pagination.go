package inbox

// ListEffect is a pending list fetch planned by PlanLoad.
type ListEffect struct {
	Query      ListQuery
	Generation uint64
}

// PlanLoad decides whether loadNotes(force) issues a fetch. Without force a
// fetch already in flight absorbs the call and no effect is returned. With
// force the cache is reset and a new generation starts, even if an older
// fetch is still outstanding.
func PlanLoad(s State, force bool) (State, *ListEffect) {
	if s.Loading == Pending && !force {
		return s, nil
	}

	s.Disconnected = false
	if force {
		s.Generation++
		s.Notes = s.Notes.Reset()
	}
	s.Loading = Pending

	return s, &ListEffect{Query: s.query(), Generation: s.Generation}
}

// ApplyPage folds a fetched page into the cache. It reports false and leaves
// the state untouched when the effect belongs to an older generation.
func ApplyPage(s State, eff ListEffect, p Page) (State, bool) {
	if eff.Generation != s.Generation {
		return s, false
	}
	s.Notes = s.Notes.ApplyPage(p)
	s.Loading = Idle
	return s, true
}

// ApplyLoadFailure stops automatic pagination until the next reset.
func ApplyLoadFailure(s State, eff ListEffect) (State, bool) {
	if eff.Generation != s.Generation {
		return s, false
	}
	s.Notes = s.Notes.Exhaust()
	s.Disconnected = true
	s.Loading = Idle
	return s, true
}

// CanLoadMore reports whether automatic pagination should fetch the next page.
func CanLoadMore(s State) bool {
	return s.Notes.Cursor().HasMore && !s.Disconnected && s.Loading == Idle
}

// SynthesizePage builds the page for a bare note sequence answered to q.
// A full (or overfull) batch means more may follow; an empty one never does.
func SynthesizePage(q ListQuery, notes []Note) Page {
	return Page{
		Notes:      notes,
		NextOffset: q.Offset + len(notes),
		HasMore:    len(notes) > 0 && len(notes) >= q.Limit,
	}
}
