// Package storage opens the user directory and calendar repositories selected by the configuration.
package storage

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/KB1707/CramJam/core"
	"github.com/KB1707/CramJam/core/calendar"
	"github.com/KB1707/CramJam/core/user"
	"github.com/KB1707/CramJam/storage/database"
	firestorerepos "github.com/KB1707/CramJam/storage/database/firestore"
	inmemdb "github.com/KB1707/CramJam/storage/database/inmem"
	mongorepos "github.com/KB1707/CramJam/storage/database/mongo"
	sqlxrepos "github.com/KB1707/CramJam/storage/database/sqlx"
)

type Stores struct {
	Users user.Repository
	Notes calendar.Repository

	// SQL is set when one of the stores lives in postgres.
	SQL     *sqlx.DB
	closers []func() error
}

// Close releases every connection opened by Open.
func (s *Stores) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Open connects only to the backends named by conf.UserStore and conf.NoteStore.
func Open(ctx context.Context, conf *core.Config) (*Stores, error) {
	s := new(Stores)
	var (
		mem   *inmemdb.DB
		mdb   *mongo.Database
	)

	memDB := func() *inmemdb.DB {
		if mem == nil {
			mem = inmemdb.Open()
		}
		return mem
	}
	sqlDB := func() (*sqlx.DB, error) {
		if s.SQL == nil {
			db, err := database.Open(ctx, conf)
			if err != nil {
				return nil, err
			}
			s.SQL = db
			s.closers = append(s.closers, db.Close)
		}
		return s.SQL, nil
	}
	mongoDB := func() (*mongo.Database, error) {
		if mdb == nil {
			db, err := mongorepos.Open(ctx, conf)
			if err != nil {
				return nil, err
			}
			mdb = db
			s.closers = append(s.closers, func() error { return db.Client().Disconnect(context.Background()) })
		}
		return mdb, nil
	}

	fail := func(err error) (*Stores, error) {
		_ = s.Close()
		return nil, err
	}

	switch conf.UserStore {
	case core.StoreMemory, "":
		s.Users = inmemdb.NewUserRepository(memDB())
	case core.StorePostgres:
		db, err := sqlDB()
		if err != nil {
			return fail(err)
		}
		s.Users = sqlxrepos.NewUserRepository(db)
	case core.StoreMongo:
		db, err := mongoDB()
		if err != nil {
			return fail(err)
		}
		s.Users = mongorepos.NewUserRepository(db)
	case core.StoreFirestore:
		client, err := firestorerepos.Open(ctx, conf)
		if err != nil {
			return fail(err)
		}
		s.closers = append(s.closers, client.Close)
		s.Users = firestorerepos.NewUserRepository(client)
	default:
		return fail(errors.Errorf("unknown user store %q", conf.UserStore))
	}

	switch conf.NoteStore {
	case core.StoreMemory, "":
		s.Notes = inmemdb.NewNoteRepository(memDB())
	case core.StorePostgres:
		db, err := sqlDB()
		if err != nil {
			return fail(err)
		}
		s.Notes = sqlxrepos.NewNoteRepository(db)
	case core.StoreMongo:
		db, err := mongoDB()
		if err != nil {
			return fail(err)
		}
		s.Notes = mongorepos.NewNoteRepository(db)
	default:
		return fail(errors.Errorf("unknown note store %q", conf.NoteStore))
	}
	return s, nil
}
