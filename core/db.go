package core

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBExecutor runs queries; both *sqlx.DB and *sqlx.Tx satisfy it.
type DBExecutor interface {
	sqlx.ExtContext

	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}
