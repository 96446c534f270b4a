package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/calendar"
)

type noteRow struct {
	ID        string    `db:"id"`
	AuthorID  string    `db:"author_id"`
	Author    string    `db:"author"`
	Day       time.Time `db:"day"`
	Text      string    `db:"text"`
	CreatedAt time.Time `db:"created_at"`
}

func (r noteRow) note() calendar.Note {
	return calendar.Note{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Author:    r.Author,
		Date:      time.Date(r.Day.Year(), r.Day.Month(), r.Day.Day(), 0, 0, 0, 0, time.UTC),
		Text:      r.Text,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

const noteColumns = `id, author_id, author, day, text, created_at`

type noteRepository struct {
	db core.DBExecutor
}

func NewNoteRepository(db *sqlx.DB) calendar.Repository {
	return &noteRepository{db: db}
}

func (repo *noteRepository) CreateNote(ctx context.Context, note calendar.Note) (calendar.Note, error) {
	q := `INSERT INTO notes (` + noteColumns + `) VALUES (:id, :author_id, :author, :day, :text, :created_at)`
	row := noteRow{
		ID:        note.ID,
		AuthorID:  note.AuthorID,
		Author:    note.Author,
		Day:       note.Date,
		Text:      note.Text,
		CreatedAt: note.CreatedAt,
	}
	if _, err := sqlx.NamedExecContext(ctx, repo.db, q, row); err != nil {
		return calendar.Note{}, errors.Wrap(err, "inserting note")
	}
	return note, nil
}

func (repo *noteRepository) QueryNotes(ctx context.Context, from, to time.Time) ([]calendar.Note, error) {
	q := `SELECT ` + noteColumns + ` FROM notes WHERE 1 = 1`
	args := make([]interface{}, 0, 2)
	if !from.IsZero() {
		args = append(args, from)
		q += " AND day >= ?"
	}
	if !to.IsZero() {
		args = append(args, to)
		q += " AND day <= ?"
	}
	q += " ORDER BY day, created_at"

	var rows []noteRow
	if err := repo.db.SelectContext(ctx, &rows, sqlx.Rebind(sqlx.DOLLAR, q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting notes")
	}
	notes := make([]calendar.Note, 0, len(rows))
	for _, r := range rows {
		notes = append(notes, r.note())
	}
	return notes, nil
}

func (repo *noteRepository) GetNoteByID(ctx context.Context, id string) (calendar.Note, error) {
	var row noteRow
	err := repo.db.GetContext(ctx, &row, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return calendar.Note{}, calendar.ErrNotFound
	}
	if err != nil {
		return calendar.Note{}, errors.Wrap(err, "selecting note")
	}
	return row.note(), nil
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return calendar.ErrNotFound
	}
	return nil
}
