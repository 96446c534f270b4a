package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/KB1707/CramJam/apps/api/echo"
	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/calendar"
	"github.com/KB1707/CramJam/core/chat"
	"github.com/KB1707/CramJam/core/user"
	"github.com/KB1707/CramJam/services/files"
	logsvc "github.com/KB1707/CramJam/services/logger"
	"github.com/KB1707/CramJam/storage"
	"github.com/KB1707/CramJam/storage/database"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// newStores connects the configured user and note stores, creating and migrating the postgres database when one is used.
func newStores(conf *core.Config, loggerParam DBLoggerParam) *storage.Stores {
	ctx := context.Background()
	setUp := func() (*storage.Stores, error) {
		if conf.UserStore == core.StorePostgres || conf.NoteStore == core.StorePostgres {
			if err := database.CreateIfNotExist(ctx, conf); err != nil {
				return nil, err
			}
		}

		stores, err := storage.Open(ctx, conf)
		if err != nil {
			return nil, err
		}

		if stores.SQL != nil {
			if err = database.Migrate(stores.SQL); err != nil {
				_ = stores.Close()
				return nil, err
			}
		}
		return stores, nil
	}

	stores, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up stores: %v", err), err)
	}
	loggerParam.Logger.Info(fmt.Sprintf("users in %s, notes in %s", conf.UserStore, conf.NoteStore))
	return stores
}

func newUserRepository(stores *storage.Stores) user.Repository {
	return stores.Users
}

func newNoteRepository(stores *storage.Stores) calendar.Repository {
	return stores.Notes
}

func newFileStorage(conf *core.Config, logger core.Logger) (core.FileStorage, files.Closer) {
	store, closer, err := files.New(context.Background(), conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up file storage: %v", err), err)
	}
	return store, closer
}

func newRoom(conf *core.Config, store core.FileStorage, logger core.Logger) *chat.Room {
	return chat.NewRoom(conf.RoomName, chat.NewTally(), chat.NewBroadcaster(), store, logger)
}

func newDeps(usrSvc user.Service, noteSvc calendar.Service, room *chat.Room) *echoapi.Deps {
	return &echoapi.Deps{
		UserSvc: usrSvc,
		NoteSvc: noteSvc,
		Room:    room,
	}
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newStores))
	must(c.Provide(newUserRepository))
	must(c.Provide(newNoteRepository))
	must(c.Provide(newFileStorage))
	must(c.Provide(user.NewService))
	must(c.Provide(calendar.NewService))
	must(c.Provide(newRoom))
	must(c.Provide(newDeps))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
