package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/user"
	"github.com/KB1707/CramJam/services/files"
	logsvc "github.com/KB1707/CramJam/services/logger"
	"github.com/KB1707/CramJam/storage"
	"github.com/KB1707/CramJam/storage/database"
)

var logger core.Logger

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()
	rbLogger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	rbLogger.Enable(!conf.Debug)
	logger = rbLogger

	ctx := context.Background()

	// set up stores
	if conf.UserStore == core.StorePostgres || conf.NoteStore == core.StorePostgres {
		errAndDie(database.CreateIfNotExist(ctx, conf))
	}
	stores, err := storage.Open(ctx, conf)
	errAndDie(err)
	defer stores.Close()

	var db *sql.DB
	if stores.SQL != nil {
		db = stores.SQL.DB
	}

	fileStore, closeFiles, err := files.New(ctx, conf)
	errAndDie(err)
	defer closeFiles()

	// start CLI
	cli := commandLine{
		db:       db,
		usrSvc:   user.NewService(stores.Users),
		files:    fileStore,
		validate: newValidator(),
		out:      os.Stdout,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error("error: "+err.Error(), err)
		}
		os.Exit(1)
	}
}

func newValidator() *validator.Validate {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err.Error(), err)
	}
}
