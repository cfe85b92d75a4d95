package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/models/store"
	prefstore "github.com/de-tools/finops-dashboard/pkg/store/duckdb/preferences"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	GlobalDashboardSlot = "global-dashboard-filters"
	SquadDetailSlot     = "squad-detail-filters"
)

var slotPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Service keeps filter preferences per storage slot. Stored preferences are a
// convenience cache, so unreadable entries fall back to the defaults.
type Service interface {
	Get(ctx context.Context, slot string) (domain.FilterPreferences, error)
	Save(ctx context.Context, slot string, prefs domain.FilterPreferences) (domain.FilterPreferences, error)
	Reset(ctx context.Context, slot string) (domain.FilterPreferences, error)
}

type service struct {
	store prefstore.Store
	clock clockwork.Clock
}

func NewService(store prefstore.Store, clock clockwork.Clock) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("preferences store is nil")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{store: store, clock: clock}, nil
}

func (s *service) Get(ctx context.Context, slot string) (domain.FilterPreferences, error) {
	if err := validateSlot(slot); err != nil {
		return domain.FilterPreferences{}, err
	}
	defaults := domain.DefaultFilterPreferences(s.clock.Now())

	record, err := s.store.Get(ctx, slot)
	if errors.Is(err, prefstore.ErrNotFound) {
		return defaults, nil
	}
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("slot", slot).Msg("failed to read preferences, using defaults")
		return defaults, nil
	}

	var prefs domain.FilterPreferences
	if err := json.Unmarshal(record.Payload, &prefs); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("slot", slot).Msg("corrupt preferences, using defaults")
		return defaults, nil
	}
	if err := validate(prefs); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("slot", slot).Msg("stale preferences, using defaults")
		return defaults, nil
	}
	return normalize(prefs), nil
}

func (s *service) Save(ctx context.Context, slot string, prefs domain.FilterPreferences) (domain.FilterPreferences, error) {
	if err := validateSlot(slot); err != nil {
		return domain.FilterPreferences{}, err
	}
	if err := validate(prefs); err != nil {
		return domain.FilterPreferences{}, err
	}
	prefs = normalize(prefs)

	payload, err := json.Marshal(prefs)
	if err != nil {
		return domain.FilterPreferences{}, fmt.Errorf("marshal preferences: %w", err)
	}
	err = s.store.Save(ctx, store.FilterPreferences{
		Slot:      slot,
		Payload:   payload,
		UpdatedAt: s.clock.Now().UTC(),
	})
	if err != nil {
		return domain.FilterPreferences{}, err
	}
	return prefs, nil
}

func (s *service) Reset(ctx context.Context, slot string) (domain.FilterPreferences, error) {
	if err := validateSlot(slot); err != nil {
		return domain.FilterPreferences{}, err
	}
	if err := s.store.Delete(ctx, slot); err != nil {
		return domain.FilterPreferences{}, err
	}
	return domain.DefaultFilterPreferences(s.clock.Now()), nil
}

func validateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("%w: invalid preferences slot %q", domain.ErrInvalidArgument, slot)
	}
	return nil
}

func validate(p domain.FilterPreferences) error {
	start, err := time.Parse(domain.DateLayout, p.Start)
	if err != nil {
		return fmt.Errorf("%w: start date %q", domain.ErrInvalidArgument, p.Start)
	}
	end, err := time.Parse(domain.DateLayout, p.End)
	if err != nil {
		return fmt.Errorf("%w: end date %q", domain.ErrInvalidArgument, p.End)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start date after end date", domain.ErrInvalidArgument)
	}
	switch p.Unit {
	case domain.AggregationDaily, domain.AggregationWeekly, domain.AggregationMonthly:
	default:
		return fmt.Errorf("%w: aggregation unit %q", domain.ErrInvalidArgument, p.Unit)
	}
	return nil
}

func normalize(p domain.FilterPreferences) domain.FilterPreferences {
	if p.CloudAccounts == nil {
		p.CloudAccounts = []string{}
	}
	if p.ProjectTags == nil {
		p.ProjectTags = []string{}
	}
	return p
}
