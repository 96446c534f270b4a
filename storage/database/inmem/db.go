package inmemdb

import (
	"sync"

	"github.com/KB1707/CramJam/core/calendar"
	"github.com/KB1707/CramJam/core/user"
)

type (
	DB struct {
		user *userTable
		note *noteTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	noteTable struct {
		sync.RWMutex
		table map[string]*calendar.Note
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[string]*user.User)},
		note: &noteTable{table: make(map[string]*calendar.Note)},
	}
}
