package calendar

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/KB1707/CramJam/core"
)

const DateLayout = "2006-01-02"

// Note is a dated entry on the class calendar.
type Note struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Author    string    `json:"author"`
	Date      time.Time `json:"-"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// Day is the note date in DateLayout.
func (n Note) Day() string {
	return n.Date.Format(DateLayout)
}

func (n Note) MarshalJSON() ([]byte, error) {
	type note Note
	return json.Marshal(struct {
		note
		Date string `json:"date"`
	}{note(n), n.Day()})
}

// Announcement is the event body posted to the room for this note.
func (n Note) Announcement() string {
	return fmt.Sprintf("%s: %s", n.Day(), n.Text)
}

// NewNote contains information needed to create a Note.
type NewNote struct {
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Text     string `json:"text" validate:"notblank,max=500"`
	Announce bool   `json:"announce"`
}

func (nn *NewNote) Validate(validate *validator.Validate) error {
	nn.Date = core.CleanString(nn.Date)
	nn.Text = core.CleanString(nn.Text)
	return validate.Struct(nn)
}

// QueryFilter bounds a listing by date, both ends inclusive. Zero values are open ends.
type QueryFilter struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.From = core.CleanString(qf.From)
	qf.To = core.CleanString(qf.To)
	return validate.Struct(qf)
}

// Range parses the filter bounds. Call Validate first.
func (qf QueryFilter) Range() (from, to time.Time) {
	from, _ = time.Parse(DateLayout, qf.From)
	to, _ = time.Parse(DateLayout, qf.To)
	return from, to
}

// InRange reports whether day falls within [from, to], zero bounds being open.
func InRange(day, from, to time.Time) bool {
	if !from.IsZero() && day.Before(from) {
		return false
	}
	if !to.IsZero() && day.After(to) {
		return false
	}
	return true
}
