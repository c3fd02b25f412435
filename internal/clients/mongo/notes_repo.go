package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"note-inbox/internal/logger"
	"note-inbox/internal/services/notes"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	notesCollection    = "notes"
	commentsCollection = "comments"
	countersCollection = "counters"

	roundTripTimeout = 5 * time.Second
)

// NotesRepo implements notes.Repository on MongoDB. Ids are sequential
// int64 values drawn from a counters collection.
type NotesRepo struct {
	notes    *mongo.Collection
	comments *mongo.Collection
	counters *mongo.Collection
}

var _ notes.Repository = (*NotesRepo)(nil)

// roundTrip bounds a repository call by roundTripTimeout. A parent that is
// already done or expires sooner is returned as is.
func roundTrip(parent context.Context) (context.Context, context.CancelFunc) {
	if parent.Err() != nil {
		return parent, func() {}
	}
	if dl, ok := parent.Deadline(); ok && time.Until(dl) <= roundTripTimeout {
		return parent, func() {}
	}
	return context.WithTimeout(parent, roundTripTimeout)
}

// translateNotFound maps the driver ErrNoDocuments to the domain-level ErrNoteNotFound.
func translateNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notes.ErrNoteNotFound
	}
	return err
}

// NewNotesRepo creates the repository and ensures its indexes.
func NewNotesRepo(parentCtx context.Context, db *mongo.Database) (*NotesRepo, error) {
	r := &NotesRepo{
		notes:    db.Collection(notesCollection),
		comments: db.Collection(commentsCollection),
		counters: db.Collection(countersCollection),
	}

	noteIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	commentIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "note_id", Value: 1}, {Key: "_id", Value: 1}}},
	}

	ctx, cancel := context.WithTimeout(parentCtx, roundTripTimeout)
	defer cancel()

	if err := ensureIndexes(ctx, r.notes, noteIndexes); err != nil {
		return nil, err
	}
	if err := ensureIndexes(ctx, r.comments, commentIndexes); err != nil {
		return nil, err
	}

	return r, nil
}

func ensureIndexes(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	for _, model := range models {
		if _, err := coll.Indexes().CreateOne(ctx, model); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				logger.L().Debug("index already exists, continuing", "collection", coll.Name())
				continue
			}
			logger.L().Error("failed to create index", "collection", coll.Name(), "error", err)
			return fmt.Errorf("failed to create %s collection index: %w", coll.Name(), err)
		}
	}
	return nil
}

// nextID atomically increments and returns the sequence named name.
func (r *NotesRepo) nextID(ctx context.Context, name string) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// Create inserts n and assigns its id.
func (r *NotesRepo) Create(ctx context.Context, n *notes.Note) error {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	id, err := r.nextID(ctx, notesCollection)
	if err != nil {
		return err
	}
	n.ID = id
	if n.Tags == nil {
		n.Tags = []string{}
	}

	_, err = r.notes.InsertOne(ctx, n)
	return err
}

// List filters, orders and windows the stored notes.
func (r *NotesRepo) List(ctx context.Context, req notes.ListNotesRequest) ([]*notes.Note, error) {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	opts := options.Find().
		SetSort(sortFor(req.SortBy)).
		SetSkip(int64(req.Offset))
	if req.Limit > 0 {
		opts.SetLimit(int64(req.Limit))
	}

	cursor, err := r.notes.Find(ctx, listFilter(req), opts)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	notesList := []*notes.Note{}
	if err := cursor.All(ctx, &notesList); err != nil {
		return nil, err
	}
	return notesList, nil
}

// listFilter builds the query document for a list request.
func listFilter(req notes.ListNotesRequest) bson.M {
	filter := bson.M{}

	var tags []string
	if req.Tag != "" {
		tags = append(tags, strings.TrimPrefix(req.Tag, "#"))
	}
	for _, t := range req.Tags {
		tags = append(tags, strings.TrimPrefix(t, "#"))
	}
	switch len(tags) {
	case 0:
	case 1:
		filter["tags"] = tags[0]
	default:
		filter["tags"] = bson.M{"$all": tags}
	}

	if req.Search != "" {
		filter["content"] = bson.M{"$regex": regexp.QuoteMeta(req.Search), "$options": "i"}
	}

	return filter
}

func sortFor(sortBy string) bson.D {
	switch sortBy {
	case notes.SortOldest:
		return bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	case notes.SortUpdated:
		return bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// Update replaces content and tags of an existing note.
func (r *NotesRepo) Update(ctx context.Context, id int64, content string, tags []string, at time.Time) (*notes.Note, error) {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	if tags == nil {
		tags = []string{}
	}
	update := bson.M{
		"$set": bson.M{
			"content":    content,
			"tags":       tags,
			"updated_at": at,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated notes.Note
	if err := r.notes.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&updated); err != nil {
		return nil, translateNotFound(err)
	}
	return &updated, nil
}

// Delete removes a note together with its comments.
func (r *NotesRepo) Delete(ctx context.Context, id int64) error {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	result, err := r.notes.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return notes.ErrNoteNotFound
	}

	if _, err := r.comments.DeleteMany(ctx, bson.M{"note_id": id}); err != nil {
		logger.L().Warn("failed to delete comments of removed note", "note_id", id, "error", err)
	}
	return nil
}

// TagStats aggregates tag usage over all notes.
func (r *NotesRepo) TagStats(ctx context.Context) ([]notes.TagStat, error) {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$tags"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "latest_updated_at", Value: bson.D{{Key: "$max", Value: "$updated_at"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cursor, err := r.notes.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	stats := []notes.TagStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *NotesRepo) noteExists(ctx context.Context, id int64) error {
	n, err := r.notes.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return notes.ErrNoteNotFound
	}
	return nil
}

// ListComments returns the comments of a note, oldest first.
func (r *NotesRepo) ListComments(ctx context.Context, noteID int64) ([]*notes.Comment, error) {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	if err := r.noteExists(ctx, noteID); err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.comments.Find(ctx, bson.M{"note_id": noteID}, opts)
	if err != nil {
		return nil, err
	}
	defer func(ctxToClose context.Context) {
		if cerr := cursor.Close(ctxToClose); cerr != nil {
			logger.L().Error("failed to close cursor", "error", cerr)
		}
	}(ctx)

	comments := []*notes.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment appends a comment to an existing note.
func (r *NotesRepo) AddComment(ctx context.Context, c *notes.Comment) error {
	ctx, cancel := roundTrip(ctx)
	defer cancel()

	if err := r.noteExists(ctx, c.NoteID); err != nil {
		return err
	}

	id, err := r.nextID(ctx, commentsCollection)
	if err != nil {
		return err
	}
	c.ID = id

	_, err = r.comments.InsertOne(ctx, c)
	return err
}
