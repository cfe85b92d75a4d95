package integration

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
)

const (
	DefaultSuccessRate = 0.7
	maxSimulatedBatch  = 100
)

// Simulated is a Connector for demo data sources. Connect succeeds with
// probability SuccessRate; Sync reports between 0 and 99 new records.
type Simulated struct {
	SuccessRate float64

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewSimulated(successRate float64, src rand.Source) *Simulated {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &Simulated{
		SuccessRate: successRate,
		rnd:         rand.New(src),
	}
}

func (s *Simulated) Connect(ctx context.Context, _ domain.Integration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	roll := s.rnd.Float64()
	s.mu.Unlock()

	if roll >= s.SuccessRate {
		return ErrConnectFailed
	}
	return nil
}

func (s *Simulated) Sync(ctx context.Context, _ domain.Integration) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Int64N(maxSimulatedBatch), nil
}
