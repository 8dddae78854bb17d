package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_DialectQueries(t *testing.T) {
	tt := []struct {
		name        string
		dialect     Dialect
		insertQuery string
	}{
		{
			name:        "sqlite",
			dialect:     SqliteDialect{},
			insertQuery: "INSERT INTO app_versions (version, updated_at) VALUES (?, ?);",
		},
		{
			name:        "mysql",
			dialect:     MySQLDialect{},
			insertQuery: "INSERT INTO app_versions (version, updated_at) VALUES (?, ?);",
		},
		{
			name:        "postgres",
			dialect:     PostgresDialect{},
			insertQuery: "INSERT INTO app_versions (version, updated_at) VALUES ($1, $2);",
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.insertQuery, tc.dialect.InsertVersionQuery("app_versions"))
			assert.Equal(t, "SELECT MAX(version) FROM app_versions;", tc.dialect.SelectMaxVersionQuery("app_versions"))
			assert.Contains(t, tc.dialect.CreateVersionTableQuery("app_versions"), "CREATE TABLE IF NOT EXISTS app_versions")
			assert.Contains(t, tc.dialect.SelectHistoryQuery("app_versions"), "ORDER BY version ASC")

			q, args := tc.dialect.TableExistsQuery("app_versions")
			assert.NotEmpty(t, q)
			require.Len(t, args, 1)
			assert.Equal(t, "app_versions", args[0])
		})
	}
}
