package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"note-inbox/internal/services/inbox"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var errOutputFormat = errors.New("output must be one of table, json, yaml")

const contentWidth = 60

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, format string) (*printer, error) {
	switch format {
	case "", formatTable:
		format = formatTable
	case formatJSON, formatYAML:
	default:
		return nil, errOutputFormat
	}
	return &printer{w: w, format: format}, nil
}

// structured writes v as JSON or YAML. It reports false in table mode.
func (p *printer) structured(v any) (bool, error) {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

// table renders rows with columns padded to their widest cell.
func (p *printer) table(headers []string, rows [][]string, styles []lipgloss.Style) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style func(int) lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			s := cellStyle.Width(widths[i] + 2)
			if i == len(cells)-1 {
				s = lipgloss.NewStyle()
			}
			parts[i] = s.Render(style(i).Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	var b strings.Builder
	b.WriteString(line(headers, func(int) lipgloss.Style { return headerStyle }))
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString(line(row, func(i int) lipgloss.Style {
			if i < len(styles) {
				return styles[i]
			}
			return lipgloss.NewStyle()
		}))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p *printer) notice(format string, args ...any) error {
	if p.format != formatTable {
		return nil
	}
	_, err := fmt.Fprintln(p.w, noticeStyle.Render(fmt.Sprintf(format, args...)))
	return err
}

func (p *printer) notes(notes []inbox.Note) error {
	if notes == nil {
		notes = []inbox.Note{}
	}
	if ok, err := p.structured(notes); ok {
		return err
	}
	if len(notes) == 0 {
		return p.notice("no notes")
	}
	rows := make([][]string, 0, len(notes))
	for _, n := range notes {
		rows = append(rows, []string{
			strconv.FormatInt(int64(n.ID), 10),
			formatTime(n.UpdatedAt),
			formatTags(n.Tags),
			truncate(n.Content, contentWidth),
		})
	}
	return p.table([]string{"ID", "UPDATED", "TAGS", "CONTENT"}, rows,
		[]lipgloss.Style{idStyle, lipgloss.NewStyle(), tagStyle})
}

func (p *printer) note(n inbox.Note) error {
	if ok, err := p.structured(n); ok {
		return err
	}
	return p.notes([]inbox.Note{n})
}

func (p *printer) tags(summaries []inbox.TagSummary, labels []string) error {
	if summaries == nil {
		summaries = []inbox.TagSummary{}
	}
	if ok, err := p.structured(summaries); ok {
		return err
	}
	if len(summaries) == 0 {
		return p.notice("no tags")
	}
	rows := make([][]string, 0, len(summaries))
	for i, ts := range summaries {
		latest := "--"
		if ts.LatestUpdatedAt != nil {
			latest = formatTime(*ts.LatestUpdatedAt)
		}
		rows = append(rows, []string{ts.Tag, strconv.Itoa(ts.Count), latest, labels[i]})
	}
	return p.table([]string{"TAG", "COUNT", "LATEST", "LABEL"}, rows, []lipgloss.Style{tagStyle})
}

func (p *printer) suggestions(items []inbox.Suggestion) error {
	if items == nil {
		items = []inbox.Suggestion{}
	}
	if ok, err := p.structured(items); ok {
		return err
	}
	if len(items) == 0 {
		return p.notice("no suggestions")
	}
	rows := make([][]string, 0, len(items))
	for _, s := range items {
		rows = append(rows, []string{s.Name, s.Path})
	}
	return p.table([]string{"NAME", "PATH"}, rows, []lipgloss.Style{tagStyle})
}

func (p *printer) text(s string) error {
	if ok, err := p.structured(map[string]string{"text": s}); ok {
		return err
	}
	_, err := fmt.Fprintln(p.w, s)
	return err
}

func (p *printer) comments(items []inbox.Comment) error {
	if items == nil {
		items = []inbox.Comment{}
	}
	if ok, err := p.structured(items); ok {
		return err
	}
	if len(items) == 0 {
		return p.notice("no comments")
	}
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{
			strconv.FormatInt(int64(c.ID), 10),
			formatTime(c.CreatedAt),
			truncate(c.Content, contentWidth),
		})
	}
	return p.table([]string{"ID", "CREATED", "CONTENT"}, rows, []lipgloss.Style{idStyle})
}

func (p *printer) event(ev inbox.NoteEvent) error {
	if ok, err := p.structured(ev); ok {
		return err
	}
	id := "?"
	content := ""
	if ev.Note != nil {
		id = strconv.FormatInt(int64(ev.Note.ID), 10)
		content = truncate(ev.Note.Content, contentWidth)
	}
	_, err := fmt.Fprintf(p.w, "%s %s %s %s\n",
		idStyle.Render(time.Now().Format(time.TimeOnly)),
		headerStyle.Render(ev.Type),
		id,
		content,
	)
	return err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "--"
	}
	return t.In(time.Local).Format("2006-01-02 15:04")
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = "#" + strings.TrimPrefix(t, "#")
	}
	return strings.Join(out, " ")
}

// truncate shortens s to n runes on a single line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
