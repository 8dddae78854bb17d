// Package skua is a forward-only schema migration runner for applications
// that upgrade their own storage at startup. The application declares an
// ordered registry of steps; skua tracks the store's current version in an
// append-only metadata table and replays the pending steps one at a time,
// each inside its own transaction, recording progress after every step so
// an interrupted run resumes exactly where it stopped.
package skua

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/skua-db/skua/internal/database"
	"github.com/skua-db/skua/internal/logger"
)

// Record is one row of the append-only version log.
type Record = database.Record

type CloserFunc func() error

// Migrator drives a store's schema from whatever version it currently
// holds to the latest version the registry defines. One Migrator per
// logical store; it pins a single connection for its lifetime and must not
// run concurrently with another Migrator against the same store.
type Migrator struct {
	lg           logger.Logger
	db           *sql.DB
	dialect      database.Dialect
	table        string
	connectOpts  *database.ConnectOptions
	store        *database.VersionStore
	registry     Registry
	transactions bool
	autoUpdate   bool
}

// New builds a Migrator around the given registry. Unless disabled with
// WithoutAutoUpdate it brings the store up to date before returning, so a
// non-nil error here means the schema is in an unknown state and the
// caller should abort startup.
func New(ctx context.Context, registry Registry, opts ...OptionFunc) (*Migrator, CloserFunc, error) {
	m := &Migrator{
		lg:           &logger.NullLogger{},
		connectOpts:  database.NewDefaultConnectOptions(),
		registry:     registry,
		transactions: true,
		autoUpdate:   true,
	}

	for _, oFunc := range opts {
		if err := oFunc(m); err != nil {
			return nil, nil, err
		}
	}

	if m.db == nil {
		return nil, nil, ErrHandleNotInitialized
	}

	connector := database.MakeRetryingConnector(m.db, m.connectOpts)
	m.store = database.NewVersionStore(connector, m.dialect, m.table)
	m.store.SetLogger(m.lg)

	if err := m.store.Connect(ctx); err != nil {
		return nil, nil, err
	}

	if m.autoUpdate {
		if err := m.Up(ctx); err != nil {
			if closeErr := m.close(); closeErr != nil {
				m.lg.Error(closeErr)
			}

			return nil, nil, err
		}
	}

	return m, m.close, nil
}

// CurrentVersion reports the maximum version recorded in the store. The
// second return value is false when the store has never been initialized,
// which is distinct from an initialized store at version 0. This method
// never initializes as a side effect; Up does.
func (m *Migrator) CurrentVersion(ctx context.Context) (int64, bool, error) {
	return m.store.CurrentVersion(ctx)
}

// LatestVersion is the highest version the registry can migrate to; zero
// for an empty registry.
func (m *Migrator) LatestVersion() int64 {
	return int64(len(m.registry.Steps()))
}

// VersionTable is the name of the metadata table this Migrator writes to.
func (m *Migrator) VersionTable() string {
	return m.store.TableName()
}

// History returns the append-only log of applied versions in ascending
// order, starting with the version 0 record written at initialization.
func (m *Migrator) History(ctx context.Context) ([]Record, error) {
	return m.store.History(ctx)
}

// Up brings the store to the latest registry version: it initializes the
// version table on first run, then applies the pending steps one at a time
// in strictly ascending order, stopping at the first failure. Because
// every applied step has its version recorded durably, re-invoking Up
// after a failure resumes from the correct point. A store already at or
// past the latest version is a no-op, not an error.
func (m *Migrator) Up(ctx context.Context) error {
	current, ok, err := m.store.CurrentVersion(ctx)
	if err != nil {
		return err
	}

	if !ok {
		m.lg.Debugf("version table [%s] not found, initializing", m.store.TableName())

		if err := m.store.Initialize(ctx); err != nil {
			return err
		}

		current, ok, err = m.store.CurrentVersion(ctx)
		if err != nil {
			return err
		}

		if !ok {
			return errors.Wrapf(ErrInitialization, "table [%s]", m.store.TableName())
		}
	}

	latest := m.LatestVersion()
	if current >= latest {
		m.lg.Debugf("store is at version %d, latest is %d, nothing to do", current, latest)
		return nil
	}

	for v := current + 1; v <= latest; v++ {
		if err := m.ApplyStep(ctx, v); err != nil {
			return err
		}
	}

	m.lg.Successf("store migrated from version %d to %d", current, latest)

	return nil
}

// ApplyStep runs the single step migrating the store to version v. With
// transactions enabled the step body and the version record share one
// transaction, and the record is written before commit: if the process
// dies between steps, the recorded version still names the last fully
// applied step. On failure the transaction is rolled back and the store is
// left at its pre-step state; nothing is retried here.
func (m *Migrator) ApplyStep(ctx context.Context, v int64) error {
	latest := m.LatestVersion()
	if v < 1 || v > latest {
		return errors.Wrapf(ErrStepOutOfRange, "version %d, latest %d", v, latest)
	}

	step := m.registry.Steps()[v-1]

	m.lg.Debugf("applying step %d of %d", v, latest)

	if !m.transactions {
		if err := step(ctx, m.store.Conn()); err != nil {
			return &StepError{Version: v, Err: err}
		}

		if err := m.store.RecordVersion(ctx, m.store.Conn(), v); err != nil {
			return err
		}

		m.lg.Successf("migrated to version %d", v)

		return nil
	}

	tx, err := m.store.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := step(ctx, tx); err != nil {
		return m.rollback(tx, &StepError{Version: v, Err: err})
	}

	if err := m.store.RecordVersion(ctx, tx, v); err != nil {
		return m.rollback(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return m.rollback(tx, &database.StorageError{Op: "commit", Err: err})
	}

	m.lg.Successf("migrated to version %d", v)

	return nil
}

func (m *Migrator) rollback(tx *sql.Tx, cause error) error {
	if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
		return errors.Wrap(cause, rbErr.Error())
	}

	return cause
}

func (m *Migrator) close() error {
	return m.store.Close()
}
