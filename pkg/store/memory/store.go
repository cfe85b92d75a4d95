package memory

import (
	"fmt"
	"sync"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

// Store owns the dashboard collections. Reads return copies; updates run on a
// copy of the record and are committed only when the update func succeeds.
type Store interface {
	ListSquads() []domain.Squad
	GetSquad(id string) (domain.Squad, error)

	ListAnomalies(squadID string) []domain.Anomaly
	GetAnomaly(id string) (domain.Anomaly, error)
	UpdateAnomaly(id string, update func(*domain.Anomaly) error) (domain.Anomaly, error)

	ListCharges(squadID string) []domain.Charge
	GetCharge(id string) (domain.Charge, error)
	UpdateCharge(id string, update func(*domain.Charge) error) (domain.Charge, error)

	ListIntegrations() []domain.Integration
	GetIntegration(id string) (domain.Integration, error)
	UpdateIntegration(id string, update func(*domain.Integration) error) (domain.Integration, error)

	ListAnnotations(squadID string) []domain.Annotation
	AddAnnotation(a domain.Annotation) error

	ListChargebacks(squadID string) []domain.Chargeback
	AddChargeback(c domain.Chargeback) error
}

type store struct {
	mu sync.RWMutex

	squads       []domain.Squad
	anomalies    []domain.Anomaly
	charges      []domain.Charge
	integrations []domain.Integration
	annotations  []domain.Annotation
	chargebacks  []domain.Chargeback
}

func NewStore(seed Seed) (Store, error) {
	if err := seed.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	s := &store{
		squads:       make([]domain.Squad, 0, len(seed.Squads)),
		anomalies:    make([]domain.Anomaly, 0, len(seed.Anomalies)),
		charges:      make([]domain.Charge, 0, len(seed.Charges)),
		integrations: make([]domain.Integration, 0, len(seed.Integrations)),
	}
	s.squads = append(s.squads, seed.Squads...)
	for _, a := range seed.Anomalies {
		s.anomalies = append(s.anomalies, a.Clone())
	}
	for _, c := range seed.Charges {
		s.charges = append(s.charges, c.Clone())
	}
	for _, i := range seed.Integrations {
		s.integrations = append(s.integrations, i.Clone())
	}
	return s, nil
}

// NewDefaultStore builds a store over the embedded demonstration data.
func NewDefaultStore() (Store, error) {
	seed, err := DefaultSeed()
	if err != nil {
		return nil, err
	}
	return NewStore(seed)
}

func (s *store) ListSquads() []domain.Squad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Squad(nil), s.squads...)
}

func (s *store) GetSquad(id string) (domain.Squad, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sq := range s.squads {
		if sq.ID == id {
			return sq, nil
		}
	}
	return domain.Squad{}, fmt.Errorf("squad %s: %w", id, domain.ErrNotFound)
}

func (s *store) ListAnomalies(squadID string) []domain.Anomaly {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Anomaly, 0, len(s.anomalies))
	for _, a := range s.anomalies {
		if squadID == "" || a.SquadID == squadID {
			res = append(res, a.Clone())
		}
	}
	return res
}

func (s *store) GetAnomaly(id string) (domain.Anomaly, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.anomalyIndex(id)
	if idx < 0 {
		return domain.Anomaly{}, fmt.Errorf("anomaly %s: %w", id, domain.ErrNotFound)
	}
	return s.anomalies[idx].Clone(), nil
}

func (s *store) UpdateAnomaly(id string, update func(*domain.Anomaly) error) (domain.Anomaly, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.anomalyIndex(id)
	if idx < 0 {
		return domain.Anomaly{}, fmt.Errorf("anomaly %s: %w", id, domain.ErrNotFound)
	}
	next := s.anomalies[idx].Clone()
	if err := update(&next); err != nil {
		return domain.Anomaly{}, err
	}
	if !next.Status.Valid() {
		return domain.Anomaly{}, fmt.Errorf("%w: anomaly status %q", domain.ErrInvalidArgument, next.Status)
	}
	next.ID = id
	s.anomalies[idx] = next
	return next.Clone(), nil
}

func (s *store) anomalyIndex(id string) int {
	for i := range s.anomalies {
		if s.anomalies[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *store) ListCharges(squadID string) []domain.Charge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Charge, 0, len(s.charges))
	for _, c := range s.charges {
		if squadID == "" || c.SquadID == squadID {
			res = append(res, c.Clone())
		}
	}
	return res
}

func (s *store) GetCharge(id string) (domain.Charge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.chargeIndex(id)
	if idx < 0 {
		return domain.Charge{}, fmt.Errorf("charge %s: %w", id, domain.ErrNotFound)
	}
	return s.charges[idx].Clone(), nil
}

func (s *store) UpdateCharge(id string, update func(*domain.Charge) error) (domain.Charge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.chargeIndex(id)
	if idx < 0 {
		return domain.Charge{}, fmt.Errorf("charge %s: %w", id, domain.ErrNotFound)
	}
	next := s.charges[idx].Clone()
	if err := update(&next); err != nil {
		return domain.Charge{}, err
	}
	if next.Amount < 0 {
		return domain.Charge{}, fmt.Errorf("%w: negative charge amount", domain.ErrInvalidArgument)
	}
	next.ID = id
	s.charges[idx] = next
	return next.Clone(), nil
}

func (s *store) chargeIndex(id string) int {
	for i := range s.charges {
		if s.charges[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *store) ListIntegrations() []domain.Integration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Integration, 0, len(s.integrations))
	for _, i := range s.integrations {
		res = append(res, i.Clone())
	}
	return res
}

func (s *store) GetIntegration(id string) (domain.Integration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.integrationIndex(id)
	if idx < 0 {
		return domain.Integration{}, fmt.Errorf("integration %s: %w", id, domain.ErrNotFound)
	}
	return s.integrations[idx].Clone(), nil
}

func (s *store) UpdateIntegration(id string, update func(*domain.Integration) error) (domain.Integration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.integrationIndex(id)
	if idx < 0 {
		return domain.Integration{}, fmt.Errorf("integration %s: %w", id, domain.ErrNotFound)
	}
	next := s.integrations[idx].Clone()
	if err := update(&next); err != nil {
		return domain.Integration{}, err
	}
	if !next.Status.Valid() {
		return domain.Integration{}, fmt.Errorf("%w: integration status %q", domain.ErrInvalidArgument, next.Status)
	}
	next.ID = id
	s.integrations[idx] = next
	return next.Clone(), nil
}

func (s *store) integrationIndex(id string) int {
	for i := range s.integrations {
		if s.integrations[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *store) ListAnnotations(squadID string) []domain.Annotation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Annotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		if squadID == "" || a.SquadID == squadID {
			res = append(res, a)
		}
	}
	return res
}

func (s *store) AddAnnotation(a domain.Annotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkNew(a.ID, a.SquadID); err != nil {
		return err
	}
	for _, existing := range s.annotations {
		if existing.ID == a.ID {
			return fmt.Errorf("%w: duplicate annotation id %s", domain.ErrInvalidArgument, a.ID)
		}
	}
	s.annotations = append(s.annotations, a)
	return nil
}

func (s *store) ListChargebacks(squadID string) []domain.Chargeback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.Chargeback, 0, len(s.chargebacks))
	for _, c := range s.chargebacks {
		if squadID == "" || c.SquadID == squadID {
			res = append(res, c.Clone())
		}
	}
	return res
}

func (s *store) AddChargeback(c domain.Chargeback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkNew(c.ID, c.SquadID); err != nil {
		return err
	}
	if c.Amount < 0 {
		return fmt.Errorf("%w: negative chargeback amount", domain.ErrInvalidArgument)
	}
	for _, existing := range s.chargebacks {
		if existing.ID == c.ID {
			return fmt.Errorf("%w: duplicate chargeback id %s", domain.ErrInvalidArgument, c.ID)
		}
	}
	s.chargebacks = append(s.chargebacks, c.Clone())
	return nil
}

// checkNew must be called with the write lock held.
func (s *store) checkNew(id, squadID string) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", domain.ErrInvalidArgument)
	}
	for _, sq := range s.squads {
		if sq.ID == squadID {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown squad %q", domain.ErrInvalidArgument, squadID)
}
