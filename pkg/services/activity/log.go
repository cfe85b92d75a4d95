package activity

import (
	"context"
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/adapters"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	activitystore "github.com/de-tools/finops-dashboard/pkg/store/duckdb/activity"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Log records successful workflow actions. Recording is best effort: the
// action it describes has already been committed.
type Log interface {
	Record(ctx context.Context, entry domain.Activity)
	List(ctx context.Context, limit int) ([]domain.Activity, error)
}

type log struct {
	store activitystore.Store
	clock clockwork.Clock
}

func NewLog(store activitystore.Store, clock clockwork.Clock) (Log, error) {
	if store == nil {
		return nil, fmt.Errorf("activity store is nil")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &log{store: store, clock: clock}, nil
}

func (l *log) Record(ctx context.Context, entry domain.Activity) {
	if entry.ID == "" {
		entry.ID = "act-" + uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = l.clock.Now().UTC()
	}
	if err := l.store.Add(ctx, adapters.MapDomainActivityToStore(entry)); err != nil {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("type", string(entry.Type)).
			Str("action", entry.Action).
			Msg("failed to record activity")
	}
}

func (l *log) List(ctx context.Context, limit int) ([]domain.Activity, error) {
	records, err := l.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Activity, 0, len(records))
	for _, r := range records {
		res = append(res, adapters.MapStoreActivityToDomain(r))
	}
	return res, nil
}

// Discard is a Log that keeps nothing.
type Discard struct{}

func (Discard) Record(context.Context, domain.Activity) {}

func (Discard) List(context.Context, int) ([]domain.Activity, error) {
	return []domain.Activity{}, nil
}
