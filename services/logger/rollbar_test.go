package logsvc

import (
	"bytes"
	"errors"
	"log"
	"strconv"
	"sync"
	"testing"

	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
)

func newTestLogger(debug bool) (*RollbarLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Debug: debug})
	l.Enable(false)
	return l, &buf
}

func TestRollbarLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		log   func(l *RollbarLogger)
		want  string
	}{
		{
			name: "info",
			log:  func(l *RollbarLogger) { l.Info("server started") },
			want: "INFO server started\n",
		},
		{
			name: "error with user",
			log: func(l *RollbarLogger) {
				l.Error("vote failed", errors.New("boom"), user.User{ID: "1", Username: "ana"})
			},
			want: "ERROR vote failed (user: ana)\nboom\n",
		},
		{
			name: "debug hidden",
			log:  func(l *RollbarLogger) { l.Debug("text message from ana") },
			want: "",
		},
		{
			name:  "debug shown",
			debug: true,
			log:   func(l *RollbarLogger) { l.Debug("text message from ana") },
			want:  "DEBUG text message from ana\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newTestLogger(tt.debug)
			tt.log(l)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestRollbarLogger_prepare(t *testing.T) {
	l, _ := newTestLogger(false)
	boom := errors.New("boom")

	rbArgs, ctx, usr := l.prepare("vote failed", []interface{}{boom, user.User{ID: "1", Username: "ana"}, user.User{ID: "2", Username: "bob"}})
	assert.Equal(t, []interface{}{"vote failed", boom}, rbArgs)
	if assert.NotNil(t, usr) {
		assert.Equal(t, "ana", usr.Username)
	}
	p, ok := rollbar.PersonFromContext(ctx)
	if assert.True(t, ok) {
		assert.Equal(t, &rollbar.Person{Id: "1", Username: "ana"}, p)
	}

	_, ctx, usr = l.prepare("server started", nil)
	assert.Nil(t, usr)
	_, ok = rollbar.PersonFromContext(ctx)
	assert.False(t, ok)
}

func TestRollbarLogger_concurrent(t *testing.T) {
	l, _ := newTestLogger(true)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				l.Debug("text message", user.User{ID: strconv.Itoa(i), Username: "user" + strconv.Itoa(i)})
			} else {
				l.Debug("text message")
			}
		}(i)
	}
	wg.Wait()
}
