package database

import "fmt"

type MySQLDialect struct{}

var _ Dialect = (*MySQLDialect)(nil)

func (MySQLDialect) TableExistsQuery(table string) (string, []interface{}) {
	const q = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?;
	`
	return q, []interface{}{table}
}

func (MySQLDialect) CreateVersionTableQuery(table string) string {
	const q = `
		CREATE TABLE IF NOT EXISTS %s (
			version BIGINT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB;
	`
	return fmt.Sprintf(q, table)
}

func (MySQLDialect) InsertVersionQuery(table string) string {
	return fmt.Sprintf("INSERT INTO %s (version, updated_at) VALUES (?, ?);", table)
}

func (MySQLDialect) SelectMaxVersionQuery(table string) string {
	return fmt.Sprintf("SELECT MAX(version) FROM %s;", table)
}

func (MySQLDialect) SelectHistoryQuery(table string) string {
	return fmt.Sprintf("SELECT version, updated_at FROM %s ORDER BY version ASC;", table)
}
