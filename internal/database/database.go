package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// DefaultVersionTable is the conventional name of the version metadata
// table, overridable so several logical schemas can coexist in one store.
const DefaultVersionTable = "schema_versions"

// CtxExecutor is the minimal statement surface shared by *sql.Conn and
// *sql.Tx. RecordVersion takes it as an argument so the insert can join
// whichever transaction the caller is running.
type CtxExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Dialect owns the SQL strings of one database flavour. Queries receive
// the version table name because it is configuration, not schema.
type Dialect interface {
	TableExistsQuery(table string) (string, []interface{})
	CreateVersionTableQuery(table string) string
	InsertVersionQuery(table string) string
	SelectMaxVersionQuery(table string) string
	SelectHistoryQuery(table string) string
}

// Record is one row of the append-only version log.
type Record struct {
	Version   int64
	UpdatedAt time.Time
}

// StorageError reports a failure of the underlying database handle:
// statement execution, query, begin or commit. It is never retried here.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during [%s]: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
