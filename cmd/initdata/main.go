package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"note-inbox/internal/clients/gateway"
	"note-inbox/internal/config"
	"note-inbox/internal/logger"
	"note-inbox/internal/services/inbox"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/sync/errgroup"
)

// ----------------------------------------------------------------------------
// Config ---------------------------------------------------------------------
var (
	baseURL  = flag.String("url", env("INBOX_BASE_URL", "http://localhost:5600"), "Note store base URL")
	nNotes   = flag.Int("n", envInt("COUNT", 500), "How many notes to create")
	comments = flag.Int("comments", envInt("COMMENTS", 2), "Max comments per note")
	workers  = flag.Int("workers", envInt("WORKERS", 8), "Concurrent requests")
)

var tagPool = []string{
	"work", "home", "idea", "todo", "reading", "travel",
	"health", "finance", "project/alpha", "project/beta",
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i > 0 {
			return i
		}
	}
	return def
}

// ----------------------------------------------------------------------------
// Main -----------------------------------------------------------------------
func main() {
	flag.Parse()

	log := logger.New(config.Config{LogLevel: "warn", LogFormat: "text"}, os.Stderr)
	client, err := gateway.New(*baseURL, 10*time.Second, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := client.Health(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL: store not healthy:", err)
		os.Exit(1)
	}

	fmt.Printf("Seeding %d notes on %s\n", *nNotes, client.BaseURL())

	if err := seed(ctx, client, *nNotes, *comments, *workers); err != nil {
		fmt.Fprintln(os.Stderr, "FATAL:", err)
		os.Exit(1)
	}

	fmt.Println("✔ done")
}

// noteContent builds a fake note body carrying one to three pool tags.
func noteContent(f *gofakeit.Faker) string {
	n := f.Number(1, 3)
	tags := make([]string, 0, n)
	seen := map[string]bool{}
	for len(tags) < n {
		t := tagPool[f.Number(0, len(tagPool)-1)]
		if seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, "#"+t)
	}
	return f.Sentence(f.Number(4, 12)) + " " + strings.Join(tags, " ")
}

// seed creates total notes, each with up to maxComments comments.
func seed(ctx context.Context, gw inbox.Gateway, total, maxComments, limit int) error {
	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))

	for i := 1; i <= total; i++ {
		g.Go(func() error {
			f := gofakeit.New(int64(i))

			note, err := gw.CreateNote(ctx, noteContent(f))
			if err != nil {
				return fmt.Errorf("create note %d: %w", i, err)
			}
			if note != nil && maxComments > 0 {
				for range f.Number(0, maxComments) {
					if _, err := gw.AddComment(ctx, note.ID, f.Sentence(6)); err != nil {
						return fmt.Errorf("comment on note %d: %w", note.ID, err)
					}
				}
			}

			if n := done.Add(1); n%50 == 0 || int(n) == total {
				fmt.Printf("  … %d/%d\n", n, total)
			}
			return nil
		})
	}
	return g.Wait()
}
