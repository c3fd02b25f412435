package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"note-inbox/internal/services/inbox"

	"github.com/urfave/cli/v3"
)

var (
	errMissingID      = errors.New("a note id is required")
	errMissingContent = errors.New("note content is required")
)

func noteIDArg(cmd *cli.Command) (inbox.NoteID, error) {
	raw := cmd.Args().First()
	if raw == "" {
		return 0, errMissingID
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid note id %q", raw)
	}
	return inbox.NoteID(id), nil
}

// contentArgs joins the arguments after skip into the note text.
func contentArgs(cmd *cli.Command, skip int) (string, error) {
	args := cmd.Args().Slice()
	if len(args) <= skip {
		return "", errMissingContent
	}
	return strings.Join(args[skip:], " "), nil
}

// userError swaps a classified failure for its short user-facing message
// while keeping it matchable with errors.Is.
func userError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", inbox.UserMessage(err), err)
}

func listAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := s.ctrl.SetView(ctx, cmd.String("tag"), cmd.String("search"), cmd.String("sort")); err != nil {
		return userError(err)
	}
	if cmd.Bool("all") {
		for inbox.CanLoadMore(s.ctrl.Snapshot()) {
			if err := s.ctrl.LoadMore(ctx); err != nil {
				return userError(err)
			}
		}
	}

	st := s.ctrl.Snapshot()
	if err := s.out.notes(st.Notes.Notes()); err != nil {
		return err
	}
	if st.Notes.Cursor().HasMore {
		return s.out.notice("more notes available, use --all or --page-size")
	}
	return nil
}

func addAction(ctx context.Context, cmd *cli.Command) error {
	content, err := contentArgs(cmd, 0)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	created, err := s.ctrl.CreateNote(ctx, content)
	if err != nil {
		return userError(err)
	}
	if created == nil {
		return s.out.notice("note saved, the store returned no record")
	}
	return s.out.note(*created)
}

func editAction(ctx context.Context, cmd *cli.Command) error {
	id, err := noteIDArg(cmd)
	if err != nil {
		return err
	}
	content, err := contentArgs(cmd, 1)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := s.ctrl.UpdateNote(ctx, id, content); err != nil {
		return userError(err)
	}
	return s.out.notice("note %d updated", id)
}

func deleteAction(ctx context.Context, cmd *cli.Command) error {
	id, err := noteIDArg(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := s.ctrl.DeleteNote(ctx, id); err != nil {
		return userError(err)
	}
	return s.out.notice("note %d deleted", id)
}

func tagsAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if err := s.ctrl.LoadAllTags(ctx); err != nil {
		return userError(err)
	}
	st := s.ctrl.Snapshot()
	return s.out.tags(st.Tags, st.TagLabels)
}

func suggestAction(ctx context.Context, cmd *cli.Command) error {
	text, err := contentArgs(cmd, 0)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	caret := len([]rune(text))
	if cmd.IsSet("caret") {
		caret = int(cmd.Int("caret"))
	}

	s.ctrl.BeginCreate()
	if err := s.ctrl.Input(ctx, text, caret); err != nil {
		return userError(err)
	}

	if cmd.Bool("accept") {
		s.ctrl.SelectNext()
		if !s.ctrl.AcceptSuggestion() {
			return s.out.notice("no suggestion to accept")
		}
		return s.out.text(s.ctrl.Snapshot().Editor.Content)
	}
	return s.out.suggestions(s.ctrl.Snapshot().Suggestions.Items)
}

func commentsAction(ctx context.Context, cmd *cli.Command) error {
	id, err := noteIDArg(cmd)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if _, err := s.locate(ctx, id); err != nil {
		return userError(err)
	}
	if err := s.ctrl.OpenComments(ctx, id); err != nil {
		return userError(err)
	}
	return s.out.comments(s.ctrl.Snapshot().Comments.Items)
}

func commentAction(ctx context.Context, cmd *cli.Command) error {
	id, err := noteIDArg(cmd)
	if err != nil {
		return err
	}
	text, err := contentArgs(cmd, 1)
	if err != nil {
		return err
	}
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if _, err := s.locate(ctx, id); err != nil {
		return userError(err)
	}
	if err := s.ctrl.OpenComments(ctx, id); err != nil {
		return userError(err)
	}

	draft := text
	if !cmd.Bool("no-link") {
		draft = s.ctrl.Snapshot().Comments.Draft + text
	}
	if err := s.ctrl.Input(ctx, draft, len([]rune(draft))); err != nil {
		return userError(err)
	}
	if err := s.ctrl.SubmitComment(ctx); err != nil {
		return userError(err)
	}
	return s.out.comments(s.ctrl.Snapshot().Comments.Items)
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	s.log.Info("watching note store", "url", s.gw.BaseURL())
	var printErr error
	err = s.gw.Stream(ctx, func(ev inbox.NoteEvent) {
		if printErr == nil {
			printErr = s.out.event(ev)
		}
	})
	if err != nil {
		return userError(err)
	}
	return printErr
}
