package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/skua-db/skua/internal/retry"
)

const (
	DefaultConnectAttempts  = 20
	DefaultConnectTimeout   = 60 * time.Second
	DefaultConnectRetryStep = 1 * time.Second
)

type ConnectOptions struct {
	MaxAttempts int
	MaxTimeout  time.Duration
	RetryStep   time.Duration
}

func NewDefaultConnectOptions() *ConnectOptions {
	return &ConnectOptions{
		MaxAttempts: DefaultConnectAttempts,
		MaxTimeout:  DefaultConnectTimeout,
		RetryStep:   DefaultConnectRetryStep,
	}
}

// RetryingConnector pins a single connection out of the pool, retrying the
// acquisition with incremental backoff until the database becomes
// reachable. The runner keeps exactly one connection for its lifetime.
type RetryingConnector struct {
	options *ConnectOptions
	db      *sql.DB
	conn    *sql.Conn
}

func MakeRetryingConnector(db *sql.DB, options *ConnectOptions) *RetryingConnector {
	return &RetryingConnector{db: db, options: options}
}

func (c *RetryingConnector) Connect(ctx context.Context) (*sql.Conn, error) {
	if c.conn != nil {
		return c.conn, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.options.MaxTimeout)
	defer cancel()

	var conn *sql.Conn
	err := retry.Incremental(ctx, c.options.RetryStep, c.options.MaxAttempts, func(attempt int) error {
		var connErr error
		conn, connErr = c.db.Conn(ctx)
		if connErr != nil {
			return retry.Error(errors.Wrap(connErr, "could not obtain a connection"), attempt)
		}

		if pingErr := conn.PingContext(ctx); pingErr != nil {
			if closeErr := conn.Close(); closeErr != nil {
				return errors.Wrap(closeErr, pingErr.Error())
			}

			return retry.Error(errors.Wrap(pingErr, "db ping failed"), attempt)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	c.conn = conn

	return conn, nil
}

func (c *RetryingConnector) Close() error {
	if c.conn == nil {
		return nil
	}

	conn := c.conn
	c.conn = nil

	if err := conn.Close(); err != nil {
		return errors.Wrap(err, "could not close the pinned connection")
	}

	return nil
}
