package mongo

import (
	"errors"
	"testing"

	"note-inbox/internal/services/notes"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func TestListFilter(t *testing.T) {
	tests := []struct {
		name string
		req  notes.ListNotesRequest
		want bson.M
	}{
		{name: "empty", req: notes.ListNotesRequest{}, want: bson.M{}},
		{name: "single tag without hash", req: notes.ListNotesRequest{Tag: "#work"}, want: bson.M{"tags": "work"}},
		{
			name: "tag and tags combine",
			req:  notes.ListNotesRequest{Tag: "work", Tags: []string{"#urgent"}},
			want: bson.M{"tags": bson.M{"$all": []string{"work", "urgent"}}},
		},
		{
			name: "search is quoted and case-insensitive",
			req:  notes.ListNotesRequest{Search: "a.b"},
			want: bson.M{"content": bson.M{"$regex": `a\.b`, "$options": "i"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, listFilter(tt.req))
		})
	}
}

func TestSortFor(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, sortFor(""))
	assert.Equal(t, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, sortFor(notes.SortNewest))
	assert.Equal(t, bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}, sortFor(notes.SortOldest))
	assert.Equal(t, bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}, sortFor(notes.SortUpdated))
}

func TestTranslateNotFound(t *testing.T) {
	assert.ErrorIs(t, translateNotFound(mongo.ErrNoDocuments), notes.ErrNoteNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, translateNotFound(other))
}
