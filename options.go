package skua

import (
	"database/sql"
	"time"

	"github.com/skua-db/skua/internal/database"
	"github.com/skua-db/skua/internal/logger"
)

type OptionFunc func(*Migrator) error

func UseSqlite(db *sql.DB) OptionFunc {
	return func(m *Migrator) error {
		m.db = db
		m.dialect = database.SqliteDialect{}
		return nil
	}
}

func UseMySQL(db *sql.DB) OptionFunc {
	return func(m *Migrator) error {
		m.db = db
		m.dialect = database.MySQLDialect{}
		return nil
	}
}

func UsePostgres(db *sql.DB) OptionFunc {
	return func(m *Migrator) error {
		m.db = db
		m.dialect = database.PostgresDialect{}
		return nil
	}
}

// WithVersionTable overrides the default version table name so several
// logical schemas can live in one store.
func WithVersionTable(name string) OptionFunc {
	return func(m *Migrator) error {
		m.table = name
		return nil
	}
}

// WithoutTransactions runs each step and its version record directly
// against the connection, with no atomicity guarantee. The caller accepts
// the partial-failure risk.
func WithoutTransactions() OptionFunc {
	return func(m *Migrator) error {
		m.transactions = false
		return nil
	}
}

// WithoutAutoUpdate stops New from bringing the store up to date before
// returning; the caller invokes Up explicitly.
func WithoutAutoUpdate() OptionFunc {
	return func(m *Migrator) error {
		m.autoUpdate = false
		return nil
	}
}

func WithMaxConnectAttempts(attempts int) OptionFunc {
	return func(m *Migrator) error {
		m.connectOpts.MaxAttempts = attempts
		return nil
	}
}

func WithConnectTimeout(timeout time.Duration) OptionFunc {
	return func(m *Migrator) error {
		m.connectOpts.MaxTimeout = timeout
		return nil
	}
}

func WithConnectRetryStep(step time.Duration) OptionFunc {
	return func(m *Migrator) error {
		m.connectOpts.RetryStep = step
		return nil
	}
}

// UseColorLogger makes the runner report progress through p; the standard
// library *log.Logger satisfies Printer.
func UseColorLogger(p logger.Printer, printSQL, printDebug bool) OptionFunc {
	return func(m *Migrator) error {
		m.lg = logger.New(p, printSQL, printDebug)
		return nil
	}
}
