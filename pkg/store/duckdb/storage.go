package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const FilterPreferencesSchema = `
	CREATE TABLE IF NOT EXISTS filter_preferences (
		slot VARCHAR PRIMARY KEY,
		payload JSON NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`
const ActivityLogSchema = `
	CREATE TABLE IF NOT EXISTS activity_log (
		id VARCHAR PRIMARY KEY,
		type VARCHAR NOT NULL,
		user_name VARCHAR,
		action VARCHAR NOT NULL,
		details VARCHAR,
		created_at TIMESTAMP NOT NULL
	);
`

var bootQueries = []string{
	FilterPreferencesSchema,
	ActivityLogSchema,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
