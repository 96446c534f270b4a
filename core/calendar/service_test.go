package calendar_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KB1707/CramJam/core/calendar"
	"github.com/KB1707/CramJam/core/user"
	inmemdb "github.com/KB1707/CramJam/storage/database/inmem"
	testutil "github.com/KB1707/CramJam/tests"
)

func TestService(t *testing.T) {
	ctx := context.Background()
	db := inmemdb.Open()
	usrSvc := user.NewService(inmemdb.NewUserRepository(db))
	svc := calendar.NewService(inmemdb.NewNoteRepository(db))
	ana := testutil.CreateUser(t, usrSvc, "ana", "Pass1234")
	bob := testutil.CreateUser(t, usrSvc, "bob", "Secret99")

	exam, err := svc.Add(ctx, ana, calendar.NewNote{Date: "2024-05-10", Text: "Exam"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, bob, calendar.NewNote{Date: "2024-05-02", Text: "Lab report"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, ana, calendar.NewNote{Date: "2024-06-01", Text: "Holidays"})
	require.NoError(t, err)

	texts := func(notes []calendar.Note) []string {
		s := make([]string, 0, len(notes))
		for _, n := range notes {
			s = append(s, n.Text)
		}
		return s
	}

	tests := []struct {
		name   string
		filter calendar.QueryFilter
		want   []string
	}{
		{name: "all", want: []string{"Lab report", "Exam", "Holidays"}},
		{name: "from", filter: calendar.QueryFilter{From: "2024-05-10"}, want: []string{"Exam", "Holidays"}},
		{name: "to", filter: calendar.QueryFilter{To: "2024-05-10"}, want: []string{"Lab report", "Exam"}},
		{name: "range", filter: calendar.QueryFilter{From: "2024-05-03", To: "2024-05-31"}, want: []string{"Exam"}},
		{name: "empty range", filter: calendar.QueryFilter{From: "2025-01-01"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes, err := svc.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, texts(notes))
		})
	}

	t.Run("delete", func(t *testing.T) {
		assert.Equal(t, calendar.ErrNotFound, svc.Delete(ctx, exam.ID, bob.ID))
		assert.NoError(t, svc.Delete(ctx, exam.ID, ana.ID))
		assert.Equal(t, calendar.ErrNotFound, svc.Delete(ctx, exam.ID, ana.ID))
	})
}

func TestNewNote_Validate(t *testing.T) {
	validate, translator := testutil.NewValidator()

	tests := []struct {
		name      string
		nn        calendar.NewNote
		wantField string
	}{
		{name: "valid", nn: calendar.NewNote{Date: "2024-05-10", Text: " Exam "}},
		{name: "bad date", nn: calendar.NewNote{Date: "10/05/2024", Text: "Exam"}, wantField: "date"},
		{name: "blank text", nn: calendar.NewNote{Date: "2024-05-10", Text: "  "}, wantField: "text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nn.Validate(validate)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, testutil.Translate(err, translator), tt.wantField)
		})
	}
}

func TestNote_JSON(t *testing.T) {
	validate, _ := testutil.NewValidator()
	nn := calendar.NewNote{Date: "2024-05-10", Text: "Exam"}
	require.NoError(t, nn.Validate(validate))

	svc := calendar.NewService(inmemdb.NewNoteRepository(inmemdb.Open()))
	note, err := svc.Add(context.Background(), user.User{ID: "u1", Username: "ana"}, nn)
	require.NoError(t, err)

	data, err := json.Marshal(note)
	require.NoError(t, err)
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "2024-05-10", m["date"])
	assert.Equal(t, "ana", m["author"])
	assert.Equal(t, "2024-05-10: Exam", note.Announcement())
}
