package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"note-inbox/internal/clients/gateway"
	"note-inbox/internal/config"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/inbox"

	"github.com/urfave/cli/v3"
)

// session bundles what every subcommand needs: the store client, a controller
// over it and a printer bound to the command's output.
type session struct {
	cfg  config.Config
	log  *slog.Logger
	gw   *gateway.Client
	ctrl *inbox.Controller
	out  *printer
}

func newSession(cmd *cli.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if v := cmd.String("url"); v != "" {
		cfg.BaseURL = v
	}
	if v := int(cmd.Int("page-size")); v > 0 {
		cfg.PageSize = v
	}
	if cmd.Bool("verbose") {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg, errWriter(cmd))

	gw, err := gateway.NewFromConfig(cfg, log)
	if err != nil {
		return nil, err
	}

	ctrl := inbox.NewController(gw, inbox.Options{
		PageSize:        cfg.PageSize,
		Timeout:         cfg.RequestTimeout(),
		SuggestionLimit: cfg.SuggestionLimit,
	}, log)

	out, err := newPrinter(outWriter(cmd), cmd.String("output"))
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, log: log, gw: gw, ctrl: ctrl, out: out}, nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}

// locate pages through the list until id is cached or the list is exhausted.
func (s *session) locate(ctx context.Context, id inbox.NoteID) (inbox.Note, error) {
	if err := s.ctrl.LoadNotes(ctx, true); err != nil {
		return inbox.Note{}, err
	}
	for {
		st := s.ctrl.Snapshot()
		if n, ok := st.Notes.Find(id); ok {
			return n, nil
		}
		if !inbox.CanLoadMore(st) {
			return inbox.Note{}, fmt.Errorf("note %d: %w", id, inbox.ErrNotFound)
		}
		if err := s.ctrl.LoadMore(ctx); err != nil {
			return inbox.Note{}, err
		}
	}
}
