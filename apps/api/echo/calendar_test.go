package echoapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KB1707/CramJam/core/calendar"
	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/tests"
)

func Test_calendarApi(t *testing.T) {
	app := setup(t)
	ana := testutil.CreateUser(t, app.usrSvc, "ana", "Sup3rS3cret")
	bob := testutil.CreateUser(t, app.usrSvc, "bob", "Sup3rS3cret")
	anaToken, bobToken := app.token(t, ana), app.token(t, bob)
	path := "/v1/calendar/notes"

	events := make(chan string, 10)
	sub, err := app.room.Subscribe(context.Background(), func(u chat.Update) {
		if u.Message != nil {
			events <- u.Message.Body()
		}
	})
	require.NoError(t, err)
	defer sub.Cancel()

	t.Run("invalid", func(t *testing.T) {
		rec := app.do(newAuthRequest(http.MethodPost, path, anaToken, marchallObj(t, calendar.NewNote{Date: "10/05/2024", Text: " "})))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var flds map[string]string
		unmarshal(t, rec, &flds)
		assert.Contains(t, flds, "date")
		assert.Equal(t, "Text cannot be blank!", flds["text"])
	})

	var exam calendar.Note
	t.Run("create and announce", func(t *testing.T) {
		rec := app.do(newAuthRequest(http.MethodPost, path, anaToken, marchallObj(t, calendar.NewNote{Date: "2024-05-10", Text: "Exam", Announce: true})))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var got map[string]interface{}
		unmarshal(t, rec, &got)
		assert.Equal(t, "2024-05-10", got["date"])
		assert.Equal(t, "Exam", got["text"])
		exam.ID, _ = got["id"].(string)
		require.NotEmpty(t, exam.ID)

		select {
		case body := <-events:
			assert.Equal(t, "2024-05-10: Exam", body)
		case <-time.After(time.Second):
			t.Fatal("note was not announced")
		}
	})

	rec := app.do(newAuthRequest(http.MethodPost, path, bobToken, marchallObj(t, calendar.NewNote{Date: "2024-06-01", Text: "Holidays"})))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := func(t *testing.T, query string) []string {
		rec := app.do(newAuthRequest(http.MethodGet, path+query, anaToken))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var notes []map[string]interface{}
		unmarshal(t, rec, &notes)
		texts := make([]string, 0, len(notes))
		for _, n := range notes {
			texts = append(texts, n["text"].(string))
		}
		return texts
	}

	t.Run("list", func(t *testing.T) {
		assert.Equal(t, []string{"Exam", "Holidays"}, list(t, ""))
		assert.Equal(t, []string{"Holidays"}, list(t, "?from=2024-05-11"))
		assert.Equal(t, []string{"Exam"}, list(t, "?to=2024-05-10"))
		assert.Equal(t, []string{}, list(t, "?from=2024-07-01&to=2024-07-31"))
	})

	tests := []httpTest{
		{name: "bad range", path: path + "?from=tomorrow", token: anaToken, wantCode: http.StatusBadRequest},
		{
			name: "delete someone else's", method: http.MethodDelete, path: path + "/" + exam.ID, token: bobToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "delete", method: http.MethodDelete, path: path + "/" + exam.ID, token: anaToken, wantCode: http.StatusNoContent},
		{
			name: "delete twice", method: http.MethodDelete, path: path + "/" + exam.ID, token: anaToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	runHTTPTests(t, app, tests)

	assert.Equal(t, []string{"Holidays"}, list(t, ""))
	select {
	case body := <-events:
		t.Fatalf("unexpected announcement %q", body)
	default:
	}
}
