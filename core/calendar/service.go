package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core/user"
)

var ErrNotFound = errors.New("note not found")

type (
	// Repository stores calendar notes.
	// QueryNotes returns notes within the range ordered by date then creation time.
	Repository interface {
		CreateNote(ctx context.Context, note Note) (Note, error)
		QueryNotes(ctx context.Context, from, to time.Time) ([]Note, error)
		GetNoteByID(ctx context.Context, id string) (Note, error)
		DeleteNote(ctx context.Context, id string) error
	}

	Service interface {
		Add(ctx context.Context, author user.User, nn NewNote) (Note, error)
		List(ctx context.Context, filter QueryFilter) ([]Note, error)
		// Delete removes a note authored by authorID. Notes of other users are reported as ErrNotFound.
		Delete(ctx context.Context, id, authorID string) error
	}

	service struct {
		repo Repository
	}
)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Add(ctx context.Context, author user.User, nn NewNote) (Note, error) {
	day, err := time.Parse(DateLayout, nn.Date)
	if err != nil {
		return Note{}, errors.Wrap(err, "parsing note date")
	}
	return svc.repo.CreateNote(ctx, Note{
		ID:        uuid.New().String(),
		AuthorID:  author.ID,
		Author:    author.Username,
		Date:      day,
		Text:      nn.Text,
		CreatedAt: time.Now().UTC(),
	})
}

func (svc *service) List(ctx context.Context, filter QueryFilter) ([]Note, error) {
	from, to := filter.Range()
	return svc.repo.QueryNotes(ctx, from, to)
}

func (svc *service) Delete(ctx context.Context, id, authorID string) error {
	note, err := svc.repo.GetNoteByID(ctx, id)
	if err != nil {
		return err
	}
	if note.AuthorID != authorID {
		return ErrNotFound
	}
	return svc.repo.DeleteNote(ctx, id)
}
