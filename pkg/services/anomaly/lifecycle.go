package anomaly

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/de-tools/finops-dashboard/pkg/metrics"
	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"github.com/de-tools/finops-dashboard/pkg/services/access"
	"github.com/de-tools/finops-dashboard/pkg/services/activity"
	"github.com/de-tools/finops-dashboard/pkg/store/memory"
	"github.com/rs/zerolog"
)

var transitions = map[domain.AnomalyStatus]map[domain.AnomalyStatus]struct{}{
	domain.AnomalyStatusOpen: {
		domain.AnomalyStatusAcknowledged: {},
		domain.AnomalyStatusResolved:     {},
	},
	domain.AnomalyStatusAcknowledged: {
		domain.AnomalyStatusResolved: {},
	},
	domain.AnomalyStatusResolved: {},
}

// CanTransition reports whether an anomaly may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to domain.AnomalyStatus) bool {
	if from == to {
		return from.Valid()
	}
	_, ok := transitions[from][to]
	return ok
}

// errUnchanged aborts a store update when the anomaly already has the requested status.
var errUnchanged = errors.New("status unchanged")

type Service interface {
	List(ctx context.Context, squadID string) []domain.Anomaly
	Acknowledge(ctx context.Context, id string) (domain.Anomaly, error)
	Resolve(ctx context.Context, id string) (domain.Anomaly, error)
	SetStatus(ctx context.Context, id string, status domain.AnomalyStatus) (domain.Anomaly, error)
}

type service struct {
	store    memory.Store
	activity activity.Log
	onChange func(ctx context.Context)
}

func NewService(store memory.Store, log activity.Log, onChange func(ctx context.Context)) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("data store is nil")
	}
	if log == nil {
		log = activity.Discard{}
	}
	return &service{store: store, activity: log, onChange: onChange}, nil
}

// List returns the anomalies of a squad, or all of them for an empty squad id,
// most severe first.
func (s *service) List(_ context.Context, squadID string) []domain.Anomaly {
	anomalies := s.store.ListAnomalies(squadID)
	sort.SliceStable(anomalies, func(i, j int) bool {
		return anomalies[i].Severity.Rank() > anomalies[j].Severity.Rank()
	})
	return anomalies
}

func (s *service) Acknowledge(ctx context.Context, id string) (domain.Anomaly, error) {
	return s.SetStatus(ctx, id, domain.AnomalyStatusAcknowledged)
}

func (s *service) Resolve(ctx context.Context, id string) (domain.Anomaly, error) {
	return s.SetStatus(ctx, id, domain.AnomalyStatusResolved)
}

func (s *service) SetStatus(ctx context.Context, id string, status domain.AnomalyStatus) (res domain.Anomaly, err error) {
	defer func() { metrics.ObserveAction("anomaly_status", err) }()

	if !status.Valid() {
		return domain.Anomaly{}, fmt.Errorf("%w: anomaly status %q", domain.ErrInvalidArgument, status)
	}
	if _, err := s.store.GetAnomaly(id); err != nil {
		return domain.Anomaly{}, err
	}
	session := access.FromContext(ctx)
	if err := session.Require(domain.ActionWrite); err != nil {
		return domain.Anomaly{}, err
	}

	var (
		from    domain.AnomalyStatus
		current domain.Anomaly
	)
	updated, err := s.store.UpdateAnomaly(id, func(a *domain.Anomaly) error {
		from = a.Status
		if from == status {
			current = a.Clone()
			return errUnchanged
		}
		if !CanTransition(from, status) {
			return fmt.Errorf("anomaly %s %s -> %s: %w", id, from, status, domain.ErrInvalidTransition)
		}
		a.Status = status
		return nil
	})
	if errors.Is(err, errUnchanged) {
		return current, nil
	}
	if err != nil {
		return domain.Anomaly{}, err
	}

	zerolog.Ctx(ctx).Info().
		Str("anomaly", id).
		Str("from", string(from)).
		Str("to", string(status)).
		Str("role", string(session.Role())).
		Msg("anomaly status changed")

	s.activity.Record(ctx, domain.Activity{
		Type:    domain.ActivityAnomalyStatus,
		User:    session.ID(),
		Action:  fmt.Sprintf("Marked anomaly as %s", status),
		Details: updated.Title,
	})
	if s.onChange != nil {
		s.onChange(ctx)
	}
	return updated, nil
}
