package inbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTagLabel(t *testing.T) {
	local := time.Date(2024, 7, 9, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name string
		in   TagSummary
		want string
	}{
		{name: "with date", in: TagSummary{Tag: "work", Count: 3, LatestUpdatedAt: &local}, want: "#work(3) 07-09"},
		{name: "without date", in: TagSummary{Tag: "home", Count: 1}, want: "#home(1) --"},
		{name: "already hashed", in: TagSummary{Tag: "#idea", Count: 0}, want: "#idea(0) --"},
		{name: "zero date", in: TagSummary{Tag: "x", Count: 2, LatestUpdatedAt: &time.Time{}}, want: "#x(2) --"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatTagLabel(tt.in))
		})
	}
}

func TestParseTagLabel(t *testing.T) {
	assert.Equal(t, "work", ParseTagLabel("#work(3) 07-09"))
	assert.Equal(t, "home", ParseTagLabel("home"))
	assert.Equal(t, "idea", ParseTagLabel(" #idea "))
}

func TestApplyTagSummaries(t *testing.T) {
	s := NewState(10)
	s.LoadingTags = Pending

	s = ApplyTagSummaries(s, []TagSummary{{Tag: "a", Count: 1}, {Tag: "b", Count: 2}})
	assert.Equal(t, []string{"#a(1) --", "#b(2) --"}, s.TagLabels)
	assert.Len(t, s.Tags, 2)
	assert.Equal(t, Idle, s.LoadingTags)

	s = ApplyTagSummaries(s, nil)
	assert.Empty(t, s.Tags)
	assert.NotNil(t, s.Tags)
	assert.Empty(t, s.TagLabels)
}

func TestEditorCreateKeepsDraft(t *testing.T) {
	s := BeginCreate(NewState(10))
	assert.Equal(t, EditorCreating, s.Editor.Mode)

	s, eff, err := Input(s, "draft #wo", 9)
	require.NoError(t, err)
	require.NotNil(t, eff)
	assert.Equal(t, "wo", eff.Query)
	assert.Contains(t, s.Editor.Highlight, `<span class="tag-highlight">#wo</span>`)

	s = CloseEditor(s)
	assert.Equal(t, EditorClosed, s.Editor.Mode)
	assert.Equal(t, "draft #wo", s.Editor.Draft)

	s = BeginCreate(s)
	assert.Equal(t, "draft #wo", s.Editor.Content)
	assert.Equal(t, 9, s.Editor.Caret)

	s = ApplySubmitted(s, SubmitEffect{Kind: SubmitCreate})
	assert.Equal(t, EditorClosed, s.Editor.Mode)
	assert.Empty(t, s.Editor.Draft)
}

func TestEditorEditDiscardsText(t *testing.T) {
	s := NewState(10)
	s.Notes = s.Notes.Append([]Note{{ID: 4, Content: "cached"}})

	_, err := BeginEdit(s, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err = BeginEdit(s, 4)
	require.NoError(t, err)
	assert.Equal(t, EditorEditing, s.Editor.Mode)
	assert.Equal(t, NoteID(4), s.Editor.NoteID)
	assert.Equal(t, "cached", s.Editor.Content)

	s, _, err = Input(s, "changed", 7)
	require.NoError(t, err)

	s = CloseEditor(s)
	assert.Empty(t, s.Editor.Draft)
	assert.Empty(t, s.Editor.Content)
	assert.Equal(t, -1, s.Suggestions.Selected)
}

func TestInputRequiresOpenEditor(t *testing.T) {
	_, _, err := Input(NewState(10), "text", 4)
	assert.ErrorIs(t, err, ErrNotEditing)
}

func TestAcceptSuggestionSplicesActiveText(t *testing.T) {
	s := BeginCreate(NewState(10))
	s, _, err := Input(s, "see #pr", 7)
	require.NoError(t, err)
	s.Suggestions = SuggestionList{Items: []Suggestion{{Name: "project"}, {Name: "product"}}, Selected: -1}

	_, ok := AcceptSuggestion(s)
	assert.False(t, ok)

	s.Suggestions = s.Suggestions.Next().Next()
	s, ok = AcceptSuggestion(s)
	require.True(t, ok)
	assert.Equal(t, "see #product", s.Editor.Content)
	assert.Equal(t, 12, s.Editor.Caret)
	assert.Empty(t, s.Suggestions.Items)
}

func TestCommentsFlow(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewState(10)
	s.Notes = s.Notes.Append([]Note{{ID: 7, Content: "x", CreatedAt: created}})

	_, _, err := PlanComment(s)
	assert.ErrorIs(t, err, ErrNoCommentTarget)

	_, err = OpenComments(s, 8)
	assert.ErrorIs(t, err, ErrNotFound)

	s, err = OpenComments(s, 7)
	require.NoError(t, err)
	assert.Equal(t, "[[20240102030405]] ", s.Comments.Draft)
	assert.True(t, s.Comments.Open)

	s, _, err = Input(s, "[[20240102030405]] see #fo", 26)
	require.NoError(t, err)
	assert.Equal(t, "[[20240102030405]] see #fo", s.Comments.Draft)
	assert.Empty(t, s.Editor.Content)

	s, eff, err := PlanComment(s)
	require.NoError(t, err)
	assert.Equal(t, NoteID(7), eff.NoteID)
	assert.Equal(t, Pending, s.Comments.Posting)

	_, _, err = PlanComment(s)
	assert.ErrorIs(t, err, ErrBusy)

	s = ApplyCommentPosted(s, *eff)
	assert.False(t, s.Comments.Open)
	assert.Empty(t, s.Comments.Draft)
	assert.True(t, s.Comments.Selected)

	s, ok := ApplyComments(s, 7, []Comment{{ID: 1, NoteID: 7, Content: "c"}})
	assert.True(t, ok)
	assert.Len(t, s.Comments.Items, 1)

	_, ok = ApplyComments(s, 8, nil)
	assert.False(t, ok)
}

func TestPlanCommentRejectsBlank(t *testing.T) {
	s := NewState(10)
	s.Notes = s.Notes.Append([]Note{{ID: 1}})
	s, err := OpenComments(s, 1)
	require.NoError(t, err)
	s.Comments.Draft = "   "

	_, _, err = PlanComment(s)
	assert.ErrorIs(t, err, ErrEmptyContent)

	s = CancelComment(s)
	assert.False(t, s.Comments.Open)
	assert.Empty(t, s.Comments.Draft)
}

func TestZettelID(t *testing.T) {
	at := time.Date(2023, 12, 31, 23, 59, 58, 0, time.FixedZone("X", 3600))
	assert.Equal(t, "20231231225958", ZettelID(at))
}
