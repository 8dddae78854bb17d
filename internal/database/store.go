package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/skua-db/skua/internal/logger"
)

// VersionStore reads and writes the version metadata table. The table is
// an append-only audit log: rows are inserted, never updated or deleted,
// and the current version is the maximum over all rows.
type VersionStore struct {
	connector *RetryingConnector
	conn      *sql.Conn
	dialect   Dialect
	table     string
	lg        logger.Logger
}

func NewVersionStore(connector *RetryingConnector, dialect Dialect, table string) *VersionStore {
	if table == "" {
		table = DefaultVersionTable
	}

	return &VersionStore{
		connector: connector,
		dialect:   dialect,
		table:     table,
		lg:        &logger.NullLogger{},
	}
}

func (s *VersionStore) SetLogger(lg logger.Logger) {
	s.lg = lg
}

func (s *VersionStore) TableName() string {
	return s.table
}

// Connect pins the connection every subsequent operation runs on.
func (s *VersionStore) Connect(ctx context.Context) error {
	conn, err := s.connector.Connect(ctx)
	if err != nil {
		return &StorageError{Op: "connect", Err: err}
	}

	s.conn = conn

	return nil
}

func (s *VersionStore) Close() error {
	return s.connector.Close()
}

// Conn exposes the pinned connection for statement execution outside of a
// transaction.
func (s *VersionStore) Conn() *sql.Conn {
	return s.conn
}

func (s *VersionStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.conn.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, &StorageError{Op: "begin", Err: err}
	}

	return tx, nil
}

// CurrentVersion reports the maximum recorded version. The second return
// value is false when the version table does not exist or exists with no
// rows; both mean the store is uninitialized, which is distinct from an
// initialized store sitting at version 0.
func (s *VersionStore) CurrentVersion(ctx context.Context) (int64, bool, error) {
	exists, err := s.tableExists(ctx)
	if err != nil {
		return 0, false, err
	}

	if !exists {
		return 0, false, nil
	}

	q := s.dialect.SelectMaxVersionQuery(s.table)
	s.lg.SQL(q)

	var max sql.NullInt64
	if err := s.conn.QueryRowContext(ctx, q).Scan(&max); err != nil {
		return 0, false, &StorageError{Op: "read current version", Err: err}
	}

	if !max.Valid {
		return 0, false, nil
	}

	return max.Int64, true, nil
}

// Initialize creates the version table and appends the version 0 record.
func (s *VersionStore) Initialize(ctx context.Context) error {
	q := s.dialect.CreateVersionTableQuery(s.table)
	s.lg.SQL(q)

	if _, err := s.conn.ExecContext(ctx, q); err != nil {
		return &StorageError{Op: "create version table", Err: err}
	}

	return s.RecordVersion(ctx, s.conn, 0)
}

// RecordVersion appends one (v, now) row through the given executor so the
// insert can join the caller's transaction. Prior rows are never touched.
func (s *VersionStore) RecordVersion(ctx context.Context, ex CtxExecutor, v int64) error {
	q := s.dialect.InsertVersionQuery(s.table)
	args := []interface{}{v, time.Now()}
	s.lg.SQL(q, args...)

	if _, err := ex.ExecContext(ctx, q, args...); err != nil {
		return &StorageError{Op: "record version", Err: err}
	}

	return nil
}

// History returns every recorded version in ascending order.
func (s *VersionStore) History(ctx context.Context) ([]Record, error) {
	q := s.dialect.SelectHistoryQuery(s.table)
	s.lg.SQL(q)

	rows, err := s.conn.QueryContext(ctx, q)
	if err != nil {
		return nil, &StorageError{Op: "read history", Err: err}
	}

	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			s.lg.Error(closeErr)
		}
	}()

	var result []Record
	for rows.Next() {
		var r Record
		if scanErr := rows.Scan(&r.Version, &r.UpdatedAt); scanErr != nil {
			return result, &StorageError{Op: "scan history row", Err: scanErr}
		}

		result = append(result, r)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return result, &StorageError{Op: "read history", Err: rowsErr}
	}

	return result, nil
}

func (s *VersionStore) tableExists(ctx context.Context) (bool, error) {
	q, args := s.dialect.TableExistsQuery(s.table)
	s.lg.SQL(q, args...)

	var name string
	err := s.conn.QueryRowContext(ctx, q, args...).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}

	if err != nil {
		return false, &StorageError{Op: "probe version table", Err: err}
	}

	return true, nil
}
