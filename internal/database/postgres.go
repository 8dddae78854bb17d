package database

import "fmt"

type PostgresDialect struct{}

var _ Dialect = (*PostgresDialect)(nil)

func (PostgresDialect) TableExistsQuery(table string) (string, []interface{}) {
	const q = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1;
	`
	return q, []interface{}{table}
}

func (PostgresDialect) CreateVersionTableQuery(table string) string {
	const q = `
		CREATE TABLE IF NOT EXISTS %s (
			version BIGINT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`
	return fmt.Sprintf(q, table)
}

func (PostgresDialect) InsertVersionQuery(table string) string {
	return fmt.Sprintf("INSERT INTO %s (version, updated_at) VALUES ($1, $2);", table)
}

func (PostgresDialect) SelectMaxVersionQuery(table string) string {
	return fmt.Sprintf("SELECT MAX(version) FROM %s;", table)
}

func (PostgresDialect) SelectHistoryQuery(table string) string {
	return fmt.Sprintf("SELECT version, updated_at FROM %s ORDER BY version ASC;", table)
}
