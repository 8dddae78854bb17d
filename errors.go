package skua

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/skua-db/skua/internal/database"
)

var (
	// ErrHandleNotInitialized - no UseSqlite/UseMySQL/UsePostgres option
	// was passed to New.
	ErrHandleNotInitialized = errors.New("database handle has not been initialized")

	// ErrInitialization - the version table reports no version even right
	// after initialization; the store cannot be migrated until it is
	// repaired manually.
	ErrInitialization = errors.New("version table is inconsistent after initialization")

	// ErrStepOutOfRange - ApplyStep was asked for a version outside of
	// 1..LatestVersion().
	ErrStepOutOfRange = errors.New("step version out of range")
)

// StorageError reports a failure of the underlying database handle. Match
// it with errors.As.
type StorageError = database.StorageError

// StepError reports a failed migration step together with the version it
// was migrating to. The underlying cause is available via errors.Unwrap.
type StepError struct {
	Version int64
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("migration step [%d] failed: %v", e.Version, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
