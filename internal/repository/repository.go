package repository

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sqlx.DB and *sqlx.Tx. Queries are written with '?' and passed
// through Rebind, so one statement text serves postgres, sqlite3 and oracle.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Rebind(query string) string
}
