package sanitize

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict is a cached bluemonday policy that removes all HTML tags and attributes.
// It's safe for concurrent use as bluemonday.Policy is read-only after build.
// WARNING: Never call mutating helpers (e.g. AddAttr, AllowElements) on this policy
// after initialization as it would create a data race.
var strict = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true) // Prevents word concatenation
	return p
}()

// highlight only lets through the markup Highlight itself produces.
var highlight = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("br")
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^tag-highlight$`)).OnElements("span")
	return p
}()

// tagRun matches a '#' followed by characters that are neither space nor '#'.
var tagRun = regexp.MustCompile(`#[^\s#]+`)

// markup escapes only what could open a tag. Quotes are left alone so no
// numeric entity (which contains '#') is introduced before tag matching.
var markup = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// StripHTML removes all markup from note text while keeping its line layout.
//
// Examples:
//   - "<script>alert('xss')</script>Hello #work" -> "Hello #work"
//   - "a &amp; b" -> "a & b"
func StripHTML(s string) string {
	cleaned := strict.Sanitize(s)
	cleaned = html.UnescapeString(cleaned)
	return strings.TrimSpace(cleaned)
}

// Highlight renders editor content as HTML with every #tag wrapped in
// <span class="tag-highlight"> and newlines turned into line breaks.
//
// Examples:
//   - "Meeting #work" -> `Meeting <span class="tag-highlight">#work</span>`
//   - "<b>#x</b>" -> `&lt;b&gt;<span class="tag-highlight">#x&lt;/b&gt;</span>`
func Highlight(content string) string {
	out := markup.Replace(content)
	out = tagRun.ReplaceAllString(out, `<span class="tag-highlight">$0</span>`)
	out = strings.ReplaceAll(out, "\n", "<br>")
	return highlight.Sanitize(out)
}
