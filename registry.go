package skua

import (
	"context"
	"database/sql"
)

// Execer is the statement surface a step may use. When transactions are
// enabled it is the step's own transaction; otherwise it is the raw
// pinned connection. Both *sql.Tx and *sql.Conn satisfy it.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Step transitions the schema from version v-1 to v. A step is identified
// by its position: the first step of a registry migrates to version 1.
// Once a step has been applied to any live store its position must never
// change in later releases.
type Step func(ctx context.Context, db Execer) error

// Registry yields the ordered list of migration steps. Its length defines
// the latest reachable version.
type Registry interface {
	Steps() []Step
}

// StepList is the simplest Registry.
type StepList []Step

var _ Registry = (StepList)(nil)

func (l StepList) Steps() []Step {
	return l
}

// Builder collects steps imperatively, for applications that assemble
// their registry across several packages. Order of Add calls defines
// version order.
type Builder struct {
	steps []Step
}

var _ Registry = (*Builder)(nil)

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) Add(s Step) *Builder {
	b.steps = append(b.steps, s)
	return b
}

func (b *Builder) Steps() []Step {
	out := make([]Step, len(b.steps))
	copy(out, b.steps)
	return out
}
