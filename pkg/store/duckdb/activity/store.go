package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/models/store"
	"github.com/de-tools/finops-dashboard/pkg/store/duckdb"
)

const DefaultLimit = 50

// Store is an append-only log of workflow actions, read newest first.
type Store interface {
	Add(ctx context.Context, records ...store.Activity) error
	List(ctx context.Context, limit int) ([]store.Activity, error)
}

type activityStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &activityStore{
		db: db,
	}, nil
}

func (s *activityStore) Add(ctx context.Context, records ...store.Activity) error {
	if len(records) == 0 {
		return nil
	}

	query := `
		INSERT INTO activity_log (id, type, user_name, action, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		tx := duckdb.GetTransaction(ctx)
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, record := range records {
			_, err = stmt.ExecContext(ctx,
				record.ID,
				record.Type,
				record.User,
				record.Action,
				record.Details,
				record.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("insert activity: %w", err)
			}
		}
		return nil
	})
}

func (s *activityStore) List(ctx context.Context, limit int) ([]store.Activity, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	query := `
		SELECT id, type, COALESCE(user_name, ''), action, COALESCE(details, ''), created_at
		FROM activity_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query activity: %w", err)
	}
	defer rows.Close()

	records := make([]store.Activity, 0)
	for rows.Next() {
		var r store.Activity
		if err := rows.Scan(&r.ID, &r.Type, &r.User, &r.Action, &r.Details, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity: %w", err)
	}
	return records, nil
}
