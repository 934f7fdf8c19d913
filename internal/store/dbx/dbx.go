package dbx

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Dialect is the SQL flavour behind a pool, keyed by driver name.
type Dialect string

const (
	Postgres Dialect = "pgx"
	SQLite   Dialect = "sqlite3"
)

func DialectOf(db *sqlx.DB) Dialect {
	if db.DriverName() == string(SQLite) {
		return SQLite
	}
	return Postgres
}

// Placeholder returns $1,$2 for Postgres and ? for SQLite.
func (d Dialect) Placeholder() sq.PlaceholderFormat {
	if d == SQLite {
		return sq.Question
	}
	return sq.Dollar
}

var ddl = map[Dialect][]string{
	Postgres: {
		`CREATE TABLE IF NOT EXISTS books (
			id               SERIAL PRIMARY KEY,
			title            VARCHAR NOT NULL,
			isbn             VARCHAR NOT NULL,
			copies_available INTEGER NOT NULL,
			copies           INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id         SERIAL PRIMARY KEY,
			first_name VARCHAR NOT NULL,
			last_name  VARCHAR NOT NULL,
			department VARCHAR NOT NULL,
			salary     DOUBLE PRECISION NOT NULL,
			age        INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id         SERIAL PRIMARY KEY,
			first_name VARCHAR NOT NULL,
			last_name  VARCHAR NOT NULL,
			email      VARCHAR NOT NULL,
			address    VARCHAR NOT NULL,
			age        INTEGER NOT NULL
		)`,
	},
	SQLite: {
		`CREATE TABLE IF NOT EXISTS books (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			title            TEXT NOT NULL,
			isbn             TEXT NOT NULL,
			copies_available INTEGER NOT NULL,
			copies           INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS employees (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			department TEXT NOT NULL,
			salary     REAL NOT NULL,
			age        INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS members (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL,
			email      TEXT NOT NULL,
			address    TEXT NOT NULL,
			age        INTEGER NOT NULL
		)`,
	},
}

// Migrate creates the entity tables if they do not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	stmts := ddl[DialectOf(db)]
	return WithinTx(ctx, db, func(tx *sqlx.Tx) error {
		for _, s := range stmts {
			if _, err := tx.ExecContext(ctx, s); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
		}
		return nil
	})
}

// WithinTx runs fn in a transaction (commit on nil, rollback on error).
func WithinTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
