package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "inbox",
		Usage: "Capture, browse and tag notes in a remote note store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Aliases: []string{"u"},
				Usage:   "Note store base URL",
				Sources: cli.EnvVars("INBOX_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: table, json or yaml",
				Value:   formatTable,
				Sources: cli.EnvVars("INBOX_OUTPUT"),
			},
			&cli.IntFlag{
				Name:  "page-size",
				Usage: "Notes fetched per page (defaults to INBOX_PAGE_SIZE)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log gateway requests to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List notes, newest first",
				Action: listAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Only notes carrying this tag"},
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Case-insensitive content search"},
					&cli.StringFlag{Name: "sort", Usage: "Sort method: newest, oldest or updated"},
					&cli.BoolFlag{Name: "all", Aliases: []string{"a"}, Usage: "Keep paging until the list is exhausted"},
				},
			},
			{
				Name:      "add",
				Usage:     "Create a note",
				ArgsUsage: "<content...>",
				Action:    addAction,
			},
			{
				Name:      "edit",
				Usage:     "Replace the content of a note",
				ArgsUsage: "<id> <content...>",
				Action:    editAction,
			},
			{
				Name:      "delete",
				Aliases:   []string{"rm"},
				Usage:     "Delete a note",
				ArgsUsage: "<id>",
				Action:    deleteAction,
			},
			{
				Name:   "tags",
				Usage:  "Show tag usage with sidebar labels",
				Action: tagsAction,
			},
			{
				Name:      "suggest",
				Usage:     "Autocomplete the tag at the caret",
				ArgsUsage: "<text...>",
				Action:    suggestAction,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "caret", Usage: "Caret position in runes (defaults to the end of the text)"},
					&cli.BoolFlag{Name: "accept", Usage: "Splice the first suggestion into the text and print it"},
				},
			},
			{
				Name:      "comments",
				Usage:     "Show the comment thread of a note",
				ArgsUsage: "<id>",
				Action:    commentsAction,
			},
			{
				Name:      "comment",
				Usage:     "Add a comment to a note",
				ArgsUsage: "<id> <content...>",
				Action:    commentAction,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "no-link", Usage: "Do not prefix the comment with a link to the note"},
				},
			},
			{
				Name:   "watch",
				Usage:  "Print note changes as the store publishes them",
				Action: watchAction,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "inbox:", err)
		stop()
		os.Exit(1)
	}
}
