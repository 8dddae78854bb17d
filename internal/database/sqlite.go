package database

import "fmt"

type SqliteDialect struct{}

var _ Dialect = (*SqliteDialect)(nil)

func (SqliteDialect) TableExistsQuery(table string) (string, []interface{}) {
	const q = "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?;"
	return q, []interface{}{table}
}

func (SqliteDialect) CreateVersionTableQuery(table string) string {
	const q = `
		CREATE TABLE IF NOT EXISTS %s (
			version BIGINT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	return fmt.Sprintf(q, table)
}

func (SqliteDialect) InsertVersionQuery(table string) string {
	return fmt.Sprintf("INSERT INTO %s (version, updated_at) VALUES (?, ?);", table)
}

func (SqliteDialect) SelectMaxVersionQuery(table string) string {
	return fmt.Sprintf("SELECT MAX(version) FROM %s;", table)
}

func (SqliteDialect) SelectHistoryQuery(table string) string {
	return fmt.Sprintf("SELECT version, updated_at FROM %s ORDER BY version ASC;", table)
}
