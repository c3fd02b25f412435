package inbox

import (
	"strings"
	"unicode"
)

// DefaultSuggestionLimit caps the suggestion list.
const DefaultSuggestionLimit = 5

// Suggestion is one autocomplete candidate. Path is the entry as it appears in
// the tag universe, Name the tag without a leading '#'.
type Suggestion struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
}

// SuggestionList is the bounded candidate list with its keyboard selection.
// Selected is -1 when nothing is selected.
type SuggestionList struct {
	Items    []Suggestion
	Selected int
}

// NoSuggestions is the cleared list.
func NoSuggestions() SuggestionList {
	return SuggestionList{Selected: -1}
}

// Current returns the selected suggestion.
func (l SuggestionList) Current() (Suggestion, bool) {
	if l.Selected < 0 || l.Selected >= len(l.Items) {
		return Suggestion{}, false
	}
	return l.Items[l.Selected], true
}

// Next moves the selection down, wrapping to the top.
func (l SuggestionList) Next() SuggestionList {
	if len(l.Items) == 0 {
		return l
	}
	l.Selected = (l.Selected + 1) % len(l.Items)
	return l
}

// Prev moves the selection up, wrapping to the bottom.
func (l SuggestionList) Prev() SuggestionList {
	if len(l.Items) == 0 {
		return l
	}
	if l.Selected <= 0 {
		l.Selected = len(l.Items) - 1
	} else {
		l.Selected--
	}
	return l
}

// DetectTagToken finds the partial tag the caret is in. caret counts runes.
// It reports false when there is no '#' left of the caret, or when whitespace
// or another '#' sits between that '#' and the caret.
func DetectTagToken(text string, caret int) (string, bool) {
	runes := []rune(text)
	caret = clampCaret(caret, len(runes))

	hash := -1
	for i := caret - 1; i >= 0; i-- {
		if runes[i] == '#' {
			hash = i
			break
		}
	}
	if hash < 0 {
		return "", false
	}

	token := runes[hash+1 : caret]
	for _, r := range token {
		if unicode.IsSpace(r) || r == '#' {
			return "", false
		}
	}
	return string(token), true
}

// MatchTags returns up to limit suggestions in universe order. An empty query
// takes the head of the universe; otherwise entries must start with the query,
// ignoring case and any leading '#'.
func MatchTags(universe []string, query string, limit int) []Suggestion {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	lower := strings.ToLower(query)

	out := make([]Suggestion, 0, limit)
	for _, path := range universe {
		if len(out) == limit {
			break
		}
		name := strings.TrimPrefix(path, "#")
		if lower != "" && !strings.HasPrefix(strings.ToLower(name), lower) {
			continue
		}
		out = append(out, Suggestion{Name: name, Path: path})
	}
	return out
}

// SpliceTag replaces the partial token left of the caret with tag and returns
// the new text and the caret placed right after the tag. Text without a token
// at the caret is returned unchanged.
func SpliceTag(text string, caret int, tag string) (string, int) {
	runes := []rune(text)
	caret = clampCaret(caret, len(runes))

	partial, ok := DetectTagToken(text, caret)
	if !ok {
		return text, caret
	}
	start := caret - len([]rune(partial))

	name := []rune(strings.TrimPrefix(tag, "#"))
	out := make([]rune, 0, len(runes)-len([]rune(partial))+len(name))
	out = append(out, runes[:start]...)
	out = append(out, name...)
	out = append(out, runes[caret:]...)

	return string(out), start + len(name)
}

func clampCaret(caret, n int) int {
	if caret < 0 {
		return 0
	}
	if caret > n {
		return n
	}
	return caret
}

// SuggestEffect is a pending tag-universe fetch for one keystroke.
type SuggestEffect struct {
	Query string
	Seq   uint64
}

// PlanSuggest runs tag-context detection for the text around the caret. Every
// call supersedes the fetches planned before it.
func PlanSuggest(s State, text string, caret int) (State, *SuggestEffect) {
	s.suggestSeq++
	query, ok := DetectTagToken(text, caret)
	if !ok {
		s.Suggestions = NoSuggestions()
		return s, nil
	}
	return s, &SuggestEffect{Query: query, Seq: s.suggestSeq}
}

// ApplySuggestions filters the freshly fetched universe and resets the
// selection. Superseded effects are dropped.
func ApplySuggestions(s State, eff SuggestEffect, universe []string, limit int) (State, bool) {
	if eff.Seq != s.suggestSeq {
		return s, false
	}
	s.Suggestions = SuggestionList{Items: MatchTags(universe, eff.Query, limit), Selected: -1}
	return s, true
}

// ApplySuggestFailure clears the list when the universe could not be fetched.
func ApplySuggestFailure(s State, eff SuggestEffect) (State, bool) {
	if eff.Seq != s.suggestSeq {
		return s, false
	}
	s.Suggestions = NoSuggestions()
	return s, true
}

// ClearSuggestions empties the list and cancels pending fetches.
func ClearSuggestions(s State) State {
	s.suggestSeq++
	s.Suggestions = NoSuggestions()
	return s
}
