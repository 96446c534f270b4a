package testutil

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/core/user"
	"github.com/KB1707/CramJam/services/files"
	logsvc "github.com/KB1707/CramJam/services/logger"
)

// NewValidator returns a validator with every custom tag and translation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	enLocale := en.New()
	translator, _ := ut.New(enLocale, enLocale).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

// CreateUser adds a user straight through the service, failing the test on error.
func CreateUser(t *testing.T, svc user.Service, username, pwd string, profile ...user.Profile) user.User {
	t.Helper()
	nu := user.NewUser{Username: username, Password: pwd}
	if len(profile) > 0 {
		nu.Profile = profile[0]
	}
	usr, err := svc.AddUser(context.Background(), nu)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}

// Translate flattens validator errors the way the API reports them.
func Translate(err error, translator ut.Translator) map[string]string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return nil
	}
	m := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		m[fe.Field()] = fe.Translate(translator)
	}
	return m
}

// NewLogger returns a logger that reports nowhere.
func NewLogger() core.Logger {
	l := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), &core.Config{Env: "TEST"})
	l.Enable(false)
	return l
}

// NewRoom starts a room backed by in-memory file storage. It stops with the test.
func NewRoom(t *testing.T) (*chat.Room, core.FileStorage) {
	t.Helper()
	store := files.NewMemoryStorage()
	room := chat.NewRoom("general", chat.NewTally(), chat.NewBroadcaster(), store, NewLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		room.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return room, store
}
