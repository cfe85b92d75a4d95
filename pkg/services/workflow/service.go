package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/de-tools/finops-dashboard/pkg/metrics"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/de-tools/finops-dashboard/pkg/services/activity"
	"github.com/de-tools/finops-dashboard/pkg/services/integration"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const refreshConcurrency = 4

// Listener is notified after every committed mutation.
type Listener func(ctx context.Context)

// Service accepts user submissions. Every mutation checks the session's
// capability first and leaves the store untouched when any step fails.
type Service interface {
	CreateAnnotation(ctx context.Context, squadID, recordID, text, user string) (domain.Annotation, error)
	ListAnnotations(ctx context.Context, squadID string) []domain.Annotation

	CreateChargeback(ctx context.Context, squadID string, amount float64, reason string, tickets []string) (domain.Chargeback, error)
	ListChargebacks(ctx context.Context, squadID string) []domain.Chargeback

	UpdateChargeCostCenter(ctx context.Context, chargeID, costCenter string) (domain.Charge, error)

	ConnectIntegration(ctx context.Context, id string) (domain.ConnectResult, error)
	RefreshIntegration(ctx context.Context, id string) error
	RefreshAllIntegrations(ctx context.Context) error

	ListActivity(ctx context.Context, limit int) ([]domain.Activity, error)

	Subscribe(l Listener)
}

type service struct {
	store     memory.Store
	connector integration.Connector
	activity  activity.Log
	clock     clockwork.Clock

	mu        sync.RWMutex
	listeners []Listener
}

func NewService(
	store memory.Store,
	connector integration.Connector,
	log activity.Log,
	clock clockwork.Clock,
) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("data store is nil")
	}
	if connector == nil {
		return nil, fmt.Errorf("integration connector is nil")
	}
	if log == nil {
		log = activity.Discard{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &service{
		store:     store,
		connector: connector,
		activity:  log,
		clock:     clock,
	}, nil
}

func (s *service) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *service) notify(ctx context.Context) {
	s.mu.RLock()
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.RUnlock()
	for _, l := range listeners {
		l(ctx)
	}
}

func (s *service) CreateAnnotation(
	ctx context.Context,
	squadID, recordID, text, user string,
) (res domain.Annotation, err error) {
	defer func() { metrics.ObserveAction("annotate", err) }()

	session := access.FromContext(ctx)
	if err := session.Require(domain.ActionAnnotate); err != nil {
		return domain.Annotation{}, err
	}
	if strings.TrimSpace(text) == "" {
		return domain.Annotation{}, fmt.Errorf("%w: annotation text is empty", domain.ErrInvalidArgument)
	}
	if user == "" {
		user = session.ID()
	}

	annotation := domain.Annotation{
		ID:        "ann-" + uuid.New().String(),
		SquadID:   squadID,
		RecordID:  recordID,
		Text:      text,
		User:      user,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.store.AddAnnotation(annotation); err != nil {
		return domain.Annotation{}, err
	}

	zerolog.Ctx(ctx).Info().Str("annotation", annotation.ID).Str("record", recordID).Msg("annotation created")
	s.activity.Record(ctx, domain.Activity{
		Type:      domain.ActivityAnnotation,
		User:      user,
		Action:    "Added annotation",
		Details:   recordID,
		CreatedAt: annotation.CreatedAt,
	})
	s.notify(ctx)
	return annotation, nil
}

func (s *service) ListAnnotations(_ context.Context, squadID string) []domain.Annotation {
	return s.store.ListAnnotations(squadID)
}

func (s *service) CreateChargeback(
	ctx context.Context,
	squadID string,
	amount float64,
	reason string,
	tickets []string,
) (res domain.Chargeback, err error) {
	defer func() { metrics.ObserveAction("chargeback", err) }()

	session := access.FromContext(ctx)
	if err := session.Require(domain.ActionChargeback); err != nil {
		return domain.Chargeback{}, err
	}
	if amount < 0 {
		return domain.Chargeback{}, fmt.Errorf("%w: chargeback amount must not be negative", domain.ErrInvalidArgument)
	}

	chargeback := domain.Chargeback{
		ID:        "cb-" + uuid.New().String(),
		SquadID:   squadID,
		Amount:    amount,
		Reason:    reason,
		Tickets:   append([]string{}, tickets...),
		Status:    domain.ChargebackStatusPending,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.store.AddChargeback(chargeback); err != nil {
		return domain.Chargeback{}, err
	}

	zerolog.Ctx(ctx).Info().Str("chargeback", chargeback.ID).Float64("amount", amount).Msg("chargeback submitted")
	s.activity.Record(ctx, domain.Activity{
		Type:      domain.ActivityChargeback,
		User:      session.ID(),
		Action:    "Submitted chargeback",
		Details:   fmt.Sprintf("%s %.2f", squadID, amount),
		CreatedAt: chargeback.CreatedAt,
	})
	s.notify(ctx)
	return chargeback, nil
}

func (s *service) ListChargebacks(_ context.Context, squadID string) []domain.Chargeback {
	return s.store.ListChargebacks(squadID)
}

func (s *service) UpdateChargeCostCenter(ctx context.Context, chargeID, costCenter string) (res domain.Charge, err error) {
	defer func() { metrics.ObserveAction("cost_center", err) }()

	if _, err := s.store.GetCharge(chargeID); err != nil {
		return domain.Charge{}, err
	}
	session := access.FromContext(ctx)
	if err := session.Require(domain.ActionWrite); err != nil {
		return domain.Charge{}, err
	}
	if strings.TrimSpace(costCenter) == "" {
		return domain.Charge{}, fmt.Errorf("%w: cost center is empty", domain.ErrInvalidArgument)
	}

	var previous string
	charge, err := s.store.UpdateCharge(chargeID, func(c *domain.Charge) error {
		previous = c.CostCenter
		c.CostCenter = costCenter
		return nil
	})
	if err != nil {
		return domain.Charge{}, err
	}

	s.activity.Record(ctx, domain.Activity{
		Type:    domain.ActivityGovernance,
		User:    session.ID(),
		Action:  "Updated cost center",
		Details: fmt.Sprintf("%s: %s -> %s", chargeID, previous, costCenter),
	})
	s.notify(ctx)
	return charge, nil
}

func (s *service) ConnectIntegration(ctx context.Context, id string) (res domain.ConnectResult, err error) {
	defer func() { metrics.ObserveAction("connect", err) }()

	current, err := s.store.GetIntegration(id)
	if err != nil {
		return domain.ConnectResult{}, err
	}
	session := access.FromContext(ctx)
	if err := session.Require(domain.ActionAdmin); err != nil {
		return domain.ConnectResult{}, err
	}

	connErr := s.connector.Connect(ctx, current)
	if connErr != nil && ctx.Err() != nil {
		return domain.ConnectResult{}, ctx.Err()
	}
	// The data source was never contacted, so the integration keeps its status.
	if errors.Is(connErr, domain.ErrRateLimited) {
		return domain.ConnectResult{}, connErr
	}

	res = domain.ConnectResult{Success: true, Message: integration.ConnectedMessage}
	if connErr != nil {
		res = domain.ConnectResult{Success: false, Message: failureMessage(connErr)}
	}

	_, err = s.store.UpdateIntegration(id, func(in *domain.Integration) error {
		if connErr != nil {
			in.Status = domain.IntegrationStatusError
			return nil
		}
		lastSync := domain.LastSyncJustNow
		in.Status = domain.IntegrationStatusConnected
		in.LastSync = &lastSync
		return nil
	})
	if err != nil {
		return domain.ConnectResult{}, err
	}

	metrics.ObserveConnect(current.DataSource, res.Success)
	logger := zerolog.Ctx(ctx).With().Str("integration", id).Logger()
	if connErr != nil {
		logger.Warn().Err(connErr).Msg("integration connect failed")
	} else {
		logger.Info().Msg("integration connected")
	}

	s.activity.Record(ctx, domain.Activity{
		Type:    domain.ActivityIntegration,
		User:    session.ID(),
		Action:  "Connected integration",
		Details: fmt.Sprintf("%s: %s", current.Name, res.Message),
	})
	s.notify(ctx)
	return res, nil
}

func failureMessage(err error) string {
	if errors.Is(err, integration.ErrConnectFailed) {
		return integration.FailedMessage
	}
	return "Connection failed: " + err.Error()
}

func (s *service) RefreshIntegration(ctx context.Context, id string) error {
	if err := s.refresh(ctx, id); err != nil {
		metrics.ObserveAction("refresh", err)
		return err
	}
	metrics.ObserveAction("refresh", nil)
	s.notify(ctx)
	return nil
}

// RefreshAllIntegrations syncs every integration concurrently and returns the
// first error. Integrations that synced before the error keep their update.
func (s *service) RefreshAllIntegrations(ctx context.Context) error {
	integrations := s.store.ListIntegrations()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, in := range integrations {
		id := in.ID
		g.Go(func() error {
			return s.refresh(gctx, id)
		})
	}
	err := g.Wait()
	metrics.ObserveAction("refresh_all", err)
	s.notify(ctx)
	return err
}

func (s *service) refresh(ctx context.Context, id string) error {
	current, err := s.store.GetIntegration(id)
	if err != nil {
		return err
	}

	records, err := s.connector.Sync(ctx, current)
	if err != nil {
		return fmt.Errorf("sync integration %s: %w", id, err)
	}
	if records < 0 {
		records = 0
	}

	updated, err := s.store.UpdateIntegration(id, func(in *domain.Integration) error {
		lastSync := domain.LastSyncJustNow
		total := records
		if in.RecordsProcessed != nil {
			total += *in.RecordsProcessed
		}
		in.LastSync = &lastSync
		in.RecordsProcessed = &total
		return nil
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().
		Str("integration", id).
		Int64("records", records).
		Int64("total", *updated.RecordsProcessed).
		Msg("integration refreshed")
	s.activity.Record(ctx, domain.Activity{
		Type:    domain.ActivityIntegration,
		User:    access.FromContext(ctx).ID(),
		Action:  "Refreshed integration",
		Details: fmt.Sprintf("%s: +%d records", updated.Name, records),
	})
	return nil
}

func (s *service) ListActivity(ctx context.Context, limit int) ([]domain.Activity, error) {
	return s.activity.List(ctx, limit)
}
