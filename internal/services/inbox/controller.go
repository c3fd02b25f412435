package inbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options tune a Controller. Zero fields fall back to the defaults.
type Options struct {
	PageSize        int
	Timeout         time.Duration
	SuggestionLimit int
	Now             func() time.Time
}

const (
	DefaultPageSize = 50
	DefaultTimeout  = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.SuggestionLimit <= 0 {
		o.SuggestionLimit = DefaultSuggestionLimit
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Controller owns the inbox State and executes the effects planned by the
// transition functions against a Gateway. The lock is never held across a
// gateway call.
type Controller struct {
	mu    sync.Mutex
	state State
	gw    Gateway
	log   *slog.Logger
	opts  Options
}

// NewController creates a controller with an empty cache.
func NewController(gw Gateway, opts Options, log *slog.Logger) *Controller {
	opts = opts.withDefaults()
	return &Controller{
		state: NewState(opts.PageSize),
		gw:    gw,
		log:   log,
		opts:  opts,
	}
}

// Snapshot returns the current state. It must be treated as read-only.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) update(fn func(State) State) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = fn(c.state)
	return c.state
}

// call bounds a single gateway request and classifies its failure.
func (c *Controller) call(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()
	return classify(fn(ctx))
}

// LoadNotes fetches the next page into the cache. Without force it is a no-op
// while a fetch is in flight. With force the cache is reset first; responses
// of fetches issued before the reset are discarded on arrival.
func (c *Controller) LoadNotes(ctx context.Context, force bool) error {
	c.mu.Lock()
	next, eff := PlanLoad(c.state, force)
	c.state = next
	c.mu.Unlock()

	if eff == nil {
		c.log.Debug("load notes dropped, fetch in flight")
		return nil
	}

	var page Page
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		page, err = c.gw.ListNotes(ctx, eff.Query)
		return err
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		next, applied := ApplyLoadFailure(c.state, *eff)
		if !applied {
			c.log.Debug("stale load failure discarded", "generation", eff.Generation, "error", err)
			return nil
		}
		c.state = next
		c.log.Error("load notes failed", "error", err, "generation", eff.Generation,
			"offset", eff.Query.Offset, "tag", eff.Query.Tag)
		return err
	}

	next, applied := ApplyPage(c.state, *eff, page)
	if !applied {
		c.log.Debug("stale page discarded", "generation", eff.Generation, "current", c.state.Generation)
		return nil
	}
	c.state = next
	return nil
}

// LoadMore fetches the next page when the list is scrolled to its end.
func (c *Controller) LoadMore(ctx context.Context) error {
	if !CanLoadMore(c.Snapshot()) {
		return nil
	}
	return c.LoadNotes(ctx, false)
}

// SetTag toggles the tag filter and reloads the list.
func (c *Controller) SetTag(ctx context.Context, name string) error {
	c.update(func(s State) State {
		s.Filter = s.Filter.Toggle(name)
		return s
	})
	return c.LoadNotes(ctx, true)
}

// ClearTag removes the tag filter and reloads the list.
func (c *Controller) ClearTag(ctx context.Context) error {
	c.update(func(s State) State {
		s.Filter = s.Filter.Clear()
		return s
	})
	return c.LoadNotes(ctx, true)
}

// FilterByLabel toggles the filter for a tag sidebar label.
func (c *Controller) FilterByLabel(ctx context.Context, label string) error {
	return c.SetTag(ctx, ParseTagLabel(label))
}

// SetSort changes the sort method and reloads the list.
func (c *Controller) SetSort(ctx context.Context, method string) error {
	c.update(func(s State) State {
		s.SortBy = method
		return s
	})
	return c.LoadNotes(ctx, true)
}

// SetSearch changes the search query and reloads the list.
func (c *Controller) SetSearch(ctx context.Context, q string) error {
	c.update(func(s State) State {
		s.Search = q
		return s
	})
	return c.LoadNotes(ctx, true)
}

// SetView replaces the tag filter, search query and sort method together and
// reloads the list once. An empty tag clears the filter.
func (c *Controller) SetView(ctx context.Context, tag, search, sortBy string) error {
	c.update(func(s State) State {
		s.Filter = s.Filter.Clear().Toggle(tag)
		s.Search = search
		s.SortBy = sortBy
		return s
	})
	return c.LoadNotes(ctx, true)
}

// CreateNote submits a new note and prepends the created record. When the
// store acknowledges without a record the list is reloaded instead and the
// returned note is nil.
func (c *Controller) CreateNote(ctx context.Context, content string) (*Note, error) {
	c.mu.Lock()
	next, eff, err := PlanCreate(c.state, content, c.opts.Now())
	c.state = next
	c.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return c.create(ctx, *eff)
}

func (c *Controller) create(ctx context.Context, eff SubmitEffect) (*Note, error) {
	var created *Note
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		created, err = c.gw.CreateNote(ctx, eff.Content)
		return err
	})
	if err != nil {
		c.update(func(s State) State { return ApplySubmitFailure(s, eff) })
		c.log.Error("create note failed", "error", err)
		return nil, err
	}

	var reload bool
	c.update(func(s State) State {
		s, reload = ApplyCreated(s, eff, created)
		return s
	})
	if reload {
		c.log.Warn("create acknowledged without a record, reloading")
		// the note exists on the store; a failed reload must not invite a resubmit
		if err := c.LoadNotes(ctx, true); err != nil {
			c.log.Warn("reload after create failed", "error", err)
		}
		return nil, nil
	}

	n := *created
	n.Tags = []string{}
	return &n, nil
}

// UpdateNote submits new content for a note and patches the cached copy.
func (c *Controller) UpdateNote(ctx context.Context, id NoteID, content string) error {
	c.mu.Lock()
	next, eff, err := PlanUpdate(c.state, id, content, c.opts.Now())
	c.state = next
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.updateNote(ctx, *eff)
}

func (c *Controller) updateNote(ctx context.Context, eff SubmitEffect) error {
	err := c.call(ctx, func(ctx context.Context) error {
		return c.gw.UpdateNote(ctx, eff.NoteID, eff.Content)
	})
	if err != nil {
		c.update(func(s State) State { return ApplySubmitFailure(s, eff) })
		c.log.Error("update note failed", "error", err, "note_id", eff.NoteID)
		return err
	}
	c.update(func(s State) State { return ApplyUpdated(s, eff) })
	return nil
}

// DeleteNote deletes a note and removes it from the cache once acknowledged.
// A not-found answer leaves the cache untouched and returns ErrNotFound.
func (c *Controller) DeleteNote(ctx context.Context, id NoteID) error {
	c.mu.Lock()
	next, err := PlanDelete(c.state, id)
	c.state = next
	c.mu.Unlock()
	if err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		return c.gw.DeleteNote(ctx, id)
	})
	if err != nil {
		c.update(func(s State) State { return ApplyDeleteFailure(s, id) })
		if errors.Is(err, ErrNotFound) {
			c.log.Warn("delete target not found", "note_id", id)
		} else {
			c.log.Error("delete note failed", "error", err, "note_id", id)
		}
		return err
	}

	c.update(func(s State) State { return ApplyDeleted(s, id) })
	return nil
}

// LoadAllTags fetches the detailed tag universe. On failure both the tag
// list and its labels are emptied.
func (c *Controller) LoadAllTags(ctx context.Context) error {
	c.update(func(s State) State {
		s.LoadingTags = Pending
		return s
	})

	var summaries []TagSummary
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		summaries, err = c.gw.ListDetailedTags(ctx)
		return err
	})
	if err != nil {
		c.update(func(s State) State { return ApplyTagSummaries(s, nil) })
		c.log.Error("load tags failed", "error", err)
		return err
	}

	c.update(func(s State) State { return ApplyTagSummaries(s, summaries) })
	return nil
}

// RefreshData reloads the note list and the tag universe concurrently.
func (c *Controller) RefreshData(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return c.LoadNotes(ctx, true) })
	g.Go(func() error { return c.LoadAllTags(ctx) })
	return g.Wait()
}

// BeginCreate opens the editor for a new note.
func (c *Controller) BeginCreate() {
	c.update(BeginCreate)
}

// BeginEdit opens the editor on a cached note.
func (c *Controller) BeginEdit(id NoteID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	next, err := BeginEdit(c.state, id)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

// CancelEdit closes the note editor.
func (c *Controller) CancelEdit() {
	c.update(CloseEditor)
}

// Input records the active text and caret and refreshes the suggestions.
func (c *Controller) Input(ctx context.Context, content string, caret int) error {
	c.mu.Lock()
	next, eff, err := Input(c.state, content, caret)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.mu.Unlock()

	return c.fetchSuggestions(ctx, eff)
}

// UpdateSuggestions runs tag detection on text outside of an editor session.
func (c *Controller) UpdateSuggestions(ctx context.Context, text string, caret int) error {
	c.mu.Lock()
	next, eff := PlanSuggest(c.state, text, caret)
	c.state = next
	c.mu.Unlock()

	return c.fetchSuggestions(ctx, eff)
}

func (c *Controller) fetchSuggestions(ctx context.Context, eff *SuggestEffect) error {
	if eff == nil {
		return nil
	}

	var universe []string
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		universe, err = c.gw.ListTags(ctx)
		return err
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if next, ok := ApplySuggestFailure(c.state, *eff); ok {
			c.state = next
			c.log.Error("load tag suggestions failed", "error", err, "query", eff.Query)
			return err
		}
		return nil
	}

	if next, ok := ApplySuggestions(c.state, *eff, universe, c.opts.SuggestionLimit); ok {
		c.state = next
	}
	return nil
}

// SelectNext moves the suggestion selection down.
func (c *Controller) SelectNext() {
	c.update(func(s State) State {
		s.Suggestions = s.Suggestions.Next()
		return s
	})
}

// SelectPrev moves the suggestion selection up.
func (c *Controller) SelectPrev() {
	c.update(func(s State) State {
		s.Suggestions = s.Suggestions.Prev()
		return s
	})
}

// ApplySuggestion splices tag into the active text at the caret.
func (c *Controller) ApplySuggestion(tag string) {
	c.update(func(s State) State { return ApplySuggestion(s, tag) })
}

// AcceptSuggestion applies the selected suggestion. It reports false when
// nothing is selected.
func (c *Controller) AcceptSuggestion() bool {
	var ok bool
	c.update(func(s State) State {
		s, ok = AcceptSuggestion(s)
		return s
	})
	return ok
}

// Submit saves the editor content: an update when editing a note, a create
// otherwise. The editor closes on success.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	var (
		next State
		eff  *SubmitEffect
		err  error
	)
	switch c.state.Editor.Mode {
	case EditorEditing:
		next, eff, err = PlanUpdate(c.state, c.state.Editor.NoteID, c.state.Editor.Content, c.opts.Now())
	case EditorCreating:
		next, eff, err = PlanCreate(c.state, c.state.Editor.Content, c.opts.Now())
	default:
		err = ErrNotEditing
	}
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.mu.Unlock()

	if eff.Kind == SubmitUpdate {
		err = c.updateNote(ctx, *eff)
	} else {
		_, err = c.create(ctx, *eff)
	}
	if err != nil {
		return err
	}

	c.update(func(s State) State { return ApplySubmitted(s, *eff) })
	return nil
}

// OpenComments selects a note, seeds the comment draft and fetches its thread.
func (c *Controller) OpenComments(ctx context.Context, id NoteID) error {
	c.mu.Lock()
	next, err := OpenComments(c.state, id)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.mu.Unlock()

	return c.FetchComments(ctx)
}

// FetchComments reloads the thread of the selected note. On failure the
// thread is shown empty.
func (c *Controller) FetchComments(ctx context.Context) error {
	s := c.Snapshot()
	if !s.Comments.Selected {
		return ErrNoCommentTarget
	}
	id := s.Comments.NoteID

	var items []Comment
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		items, err = c.gw.ListComments(ctx, id)
		return err
	})
	if err != nil {
		c.log.Error("load comments failed", "error", err, "note_id", id)
		items = nil
	}

	c.update(func(s State) State {
		s, _ = ApplyComments(s, id, items)
		return s
	})
	return err
}

// SubmitComment posts the comment draft and refetches the thread.
func (c *Controller) SubmitComment(ctx context.Context) error {
	c.mu.Lock()
	next, eff, err := PlanComment(c.state)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = next
	c.mu.Unlock()

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.gw.AddComment(ctx, eff.NoteID, eff.Content)
		return err
	})
	if err != nil {
		c.update(func(s State) State { return ApplyCommentFailure(s, *eff) })
		c.log.Error("add comment failed", "error", err, "note_id", eff.NoteID)
		return err
	}

	c.update(func(s State) State { return ApplyCommentPosted(s, *eff) })
	return c.FetchComments(ctx)
}

// CancelComment closes the comment editor.
func (c *Controller) CancelComment() {
	c.update(CancelComment)
}
