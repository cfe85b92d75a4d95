package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/polling"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const (
	FeedSquads       = "squads"
	FeedAnomalies    = "anomalies"
	FeedCharges      = "charges"
	FeedIntegrations = "integrations"
)

type FeedStatus struct {
	LastUpdated time.Time
	Loading     bool
	Err         error
}

// Overview is the latest polled copy of every dashboard collection.
type Overview struct {
	Squads       []domain.Squad
	Anomalies    []domain.Anomaly
	Charges      []domain.Charge
	Integrations []domain.Integration
	OpenImpact   float64 // impact of anomalies not yet resolved
	Feeds        map[string]FeedStatus
}

// Feed keeps server-side polled copies of the dashboard collections.
type Feed struct {
	store    memory.Store
	interval time.Duration
	clock    clockwork.Clock
	ctrl     *polling.Controller

	mu           sync.RWMutex
	squads       *polling.Poller[[]domain.Squad]
	anomalies    *polling.Poller[[]domain.Anomaly]
	charges      *polling.Poller[[]domain.Charge]
	integrations *polling.Poller[[]domain.Integration]
}

func NewFeed(store memory.Store, interval time.Duration, clock clockwork.Clock) (*Feed, error) {
	if store == nil {
		return nil, fmt.Errorf("data store is nil")
	}
	if interval <= 0 {
		interval = polling.DefaultInterval
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Feed{
		store:    store,
		interval: interval,
		clock:    clock,
		ctrl:     polling.NewController(),
	}, nil
}

// Start launches the four pollers. They stop when ctx is cancelled or Stop is called.
// If any poller fails to start, the ones already running are stopped and Start
// may be called again.
func (f *Feed) Start(ctx context.Context) (err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.squads != nil {
		return fmt.Errorf("feed already started")
	}
	defer func() {
		if err == nil {
			return
		}
		if stopErr := f.ctrl.Shutdown(ctx); stopErr != nil {
			zerolog.Ctx(ctx).Warn().Err(stopErr).Msg("failed to stop dashboard pollers")
		}
		f.squads, f.anomalies, f.charges, f.integrations = nil, nil, nil, nil
	}()

	f.squads, err = startPoller(ctx, f, FeedSquads, func(context.Context) ([]domain.Squad, error) {
		return f.store.ListSquads(), nil
	})
	if err != nil {
		return err
	}
	f.anomalies, err = startPoller(ctx, f, FeedAnomalies, func(context.Context) ([]domain.Anomaly, error) {
		return f.store.ListAnomalies(""), nil
	})
	if err != nil {
		return err
	}
	f.charges, err = startPoller(ctx, f, FeedCharges, func(context.Context) ([]domain.Charge, error) {
		return f.store.ListCharges(""), nil
	})
	if err != nil {
		return err
	}
	f.integrations, err = startPoller(ctx, f, FeedIntegrations, func(context.Context) ([]domain.Integration, error) {
		return f.store.ListIntegrations(), nil
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Dur("interval", f.interval).Msg("dashboard feed started")
	return nil
}

func startPoller[T any](ctx context.Context, f *Feed, name string, fetch polling.Fetch[T]) (*polling.Poller[T], error) {
	p, err := polling.Start(ctx, fetch, f.interval, polling.WithName(name), polling.WithClock(f.clock))
	if err != nil {
		return nil, fmt.Errorf("start %s poller: %w", name, err)
	}
	if err := f.ctrl.Add(p); err != nil {
		p.Stop()
		return nil, err
	}
	return p, nil
}

// Refresh asks a single feed for an immediate fetch.
func (f *Feed) Refresh(name string) error {
	err := f.ctrl.Refresh(name)
	if errors.Is(err, polling.ErrNotRunning) {
		names := f.ctrl.Names()
		slices.Sort(names)
		return fmt.Errorf("feed %s (running: %s): %w", name, strings.Join(names, ", "), domain.ErrNotFound)
	}
	return err
}

// RefreshAll asks every poller for an immediate fetch. It is registered as
// the listener for committed mutations.
func (f *Feed) RefreshAll(_ context.Context) {
	f.ctrl.RefreshAll()
}

func (f *Feed) Overview() Overview {
	f.mu.RLock()
	defer f.mu.RUnlock()

	o := Overview{Feeds: map[string]FeedStatus{}}
	if f.squads == nil {
		return o
	}

	squads := f.squads.Snapshot()
	anomalies := f.anomalies.Snapshot()
	charges := f.charges.Snapshot()
	integrations := f.integrations.Snapshot()

	o.Squads = squads.Data
	o.Anomalies = anomalies.Data
	o.Charges = charges.Data
	o.Integrations = integrations.Data
	for _, a := range o.Anomalies {
		if a.Status != domain.AnomalyStatusResolved {
			o.OpenImpact += a.Impact
		}
	}

	o.Feeds[FeedSquads] = status(squads)
	o.Feeds[FeedAnomalies] = status(anomalies)
	o.Feeds[FeedCharges] = status(charges)
	o.Feeds[FeedIntegrations] = status(integrations)
	return o
}

func status[T any](s polling.Snapshot[T]) FeedStatus {
	return FeedStatus{LastUpdated: s.LastUpdated, Loading: s.Loading, Err: s.Err}
}

// Stop cancels all pollers and waits for them to exit.
func (f *Feed) Stop(ctx context.Context) error {
	return f.ctrl.Shutdown(ctx)
}
