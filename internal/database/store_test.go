package database

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, table string) *VersionStore {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "skua.db"))
	require.NoError(t, err)

	connector := MakeRetryingConnector(db, NewDefaultConnectOptions())
	store := NewVersionStore(connector, SqliteDialect{}, table)

	require.NoError(t, store.Connect(context.Background()))

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, db.Close())
	})

	return store
}

func Test_CurrentVersionIsAbsentOnFreshStore(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	v, ok, err := store.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(0), v)
}

func Test_InitializeCreatesTableAtVersionZero(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))

	v, ok, err := store.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(0), v)

	records, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(0), records[0].Version)
	assert.False(t, records[0].UpdatedAt.IsZero())
}

func Test_CurrentVersionIsMaxOverAllRows(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))
	require.NoError(t, store.RecordVersion(ctx, store.Conn(), 5))

	// a lower version appended after a higher one must not win: current is
	// defined as MAX(version), not the last row inserted
	require.NoError(t, store.RecordVersion(ctx, store.Conn(), 3))

	v, ok, err := store.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(5), v)
}

func Test_RecordVersionAppendsAndNeverRewrites(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, store.Initialize(ctx))

	for v := int64(1); v <= 3; v++ {
		require.NoError(t, store.RecordVersion(ctx, store.Conn(), v))
	}

	records, err := store.History(ctx)
	require.NoError(t, err)
	require.Len(t, records, 4)

	for i, r := range records {
		assert.Equal(t, int64(i), r.Version)
	}
}

func Test_VersionTableNameIsConfigurable(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		store := newTestStore(t, "")
		assert.Equal(t, DefaultVersionTable, store.TableName())
	})

	t.Run("custom", func(t *testing.T) {
		store := newTestStore(t, "billing_schema_history")
		ctx := context.Background()

		assert.Equal(t, "billing_schema_history", store.TableName())

		require.NoError(t, store.Initialize(ctx))

		v, ok, err := store.CurrentVersion(ctx)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(0), v)
	})
}

func Test_EmptyVersionTableIsTreatedAsAbsent(t *testing.T) {
	store := newTestStore(t, "")
	ctx := context.Background()

	// table exists but holds no rows, e.g. after a manual cleanup
	q := SqliteDialect{}.CreateVersionTableQuery(store.TableName())
	_, err := store.Conn().ExecContext(ctx, q)
	require.NoError(t, err)

	_, ok, err := store.CurrentVersion(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
