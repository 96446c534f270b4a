package mongorepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/KB1707/CramJam/core/calendar"
)

type noteDoc struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"author_id"`
	Author    string    `bson:"author"`
	Day       time.Time `bson:"day"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d noteDoc) note() calendar.Note {
	return calendar.Note{
		ID:        d.ID,
		AuthorID:  d.AuthorID,
		Author:    d.Author,
		Date:      d.Day.UTC(),
		Text:      d.Text,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type noteRepository struct {
	coll *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) calendar.Repository {
	return &noteRepository{coll: db.Collection(notesCollection)}
}

func (repo *noteRepository) CreateNote(ctx context.Context, note calendar.Note) (calendar.Note, error) {
	_, err := repo.coll.InsertOne(ctx, noteDoc{
		ID:        note.ID,
		AuthorID:  note.AuthorID,
		Author:    note.Author,
		Day:       note.Date,
		Text:      note.Text,
		CreatedAt: note.CreatedAt,
	})
	if err != nil {
		return calendar.Note{}, errors.Wrap(err, "inserting note")
	}
	return note, nil
}

func (repo *noteRepository) QueryNotes(ctx context.Context, from, to time.Time) ([]calendar.Note, error) {
	day := bson.M{}
	if !from.IsZero() {
		day["$gte"] = from
	}
	if !to.IsZero() {
		day["$lte"] = to
	}
	filter := bson.M{}
	if len(day) > 0 {
		filter["day"] = day
	}

	opts := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "finding notes")
	}
	var docs []noteDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decoding notes")
	}

	notes := make([]calendar.Note, 0, len(docs))
	for _, d := range docs {
		notes = append(notes, d.note())
	}
	return notes, nil
}

func (repo *noteRepository) GetNoteByID(ctx context.Context, id string) (calendar.Note, error) {
	var doc noteDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return calendar.Note{}, calendar.ErrNotFound
	}
	if err != nil {
		return calendar.Note{}, errors.Wrap(err, "finding note")
	}
	return doc.note(), nil
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if res.DeletedCount == 0 {
		return calendar.ErrNotFound
	}
	return nil
}
