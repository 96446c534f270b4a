package inmemdb

import (
	"context"
	"sort"
	"time"

	"github.com/KB1707/CramJam/core/calendar"
)

type noteRepository struct {
	db *noteTable
}

func NewNoteRepository(db *DB) calendar.Repository {
	return &noteRepository{db: db.note}
}

func (repo *noteRepository) CreateNote(_ context.Context, note calendar.Note) (calendar.Note, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[note.ID] = &note
	return note, nil
}

func (repo *noteRepository) QueryNotes(_ context.Context, from, to time.Time) ([]calendar.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	notes := make([]calendar.Note, 0, len(repo.db.table))
	for _, n := range repo.db.table {
		if calendar.InRange(n.Date, from, to) {
			notes = append(notes, *n)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].Date.Equal(notes[j].Date) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].Date.Before(notes[j].Date)
	})
	return notes, nil
}

func (repo *noteRepository) GetNoteByID(_ context.Context, id string) (calendar.Note, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if n, ok := repo.db.table[id]; ok {
		return *n, nil
	}
	return calendar.Note{}, calendar.ErrNotFound
}

func (repo *noteRepository) DeleteNote(_ context.Context, id string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return calendar.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
