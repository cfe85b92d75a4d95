package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/models/store"
	"github.com/de-tools/finops-dashboard/pkg/store/duckdb"
)

// ErrNotFound is returned by Get when nothing was saved for a slot.
var ErrNotFound = errors.New("preferences not found")

type Store interface {
	Get(ctx context.Context, slot string) (*store.FilterPreferences, error)
	Save(ctx context.Context, prefs store.FilterPreferences) error
	Delete(ctx context.Context, slot string) error
}

type defaultStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &defaultStore{
		db: db,
	}, nil
}

func (s *defaultStore) Get(ctx context.Context, slot string) (*store.FilterPreferences, error) {
	query := `SELECT slot, CAST(payload AS VARCHAR), updated_at FROM filter_preferences WHERE slot = ?`

	var (
		prefs   store.FilterPreferences
		payload string
	)
	err := duckdb.Conn(ctx, s.db).QueryRowContext(ctx, query, slot).Scan(&prefs.Slot, &payload, &prefs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %s: %w", slot, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	prefs.Payload = []byte(payload)
	return &prefs, nil
}

func (s *defaultStore) Save(ctx context.Context, prefs store.FilterPreferences) error {
	if prefs.Slot == "" {
		return fmt.Errorf("slot is required")
	}
	query := `
		INSERT INTO filter_preferences (slot, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, query, prefs.Slot, string(prefs.Payload), prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *defaultStore) Delete(ctx context.Context, slot string) error {
	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, `DELETE FROM filter_preferences WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete preferences: %w", err)
	}
	return nil
}
