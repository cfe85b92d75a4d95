package integration

import (
	"context"
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/models/domain"
	"golang.org/x/time/rate"
)

// Throttled limits how often the wrapped connector is called.
type Throttled struct {
	next    Connector
	limiter *rate.Limiter
}

func NewThrottled(next Connector, perSecond float64, burst int) *Throttled {
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

func (t *Throttled) Connect(ctx context.Context, in domain.Integration) error {
	if err := t.wait(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", in.ID, err)
	}
	return t.next.Connect(ctx, in)
}

func (t *Throttled) Sync(ctx context.Context, in domain.Integration) (int64, error) {
	if err := t.wait(ctx); err != nil {
		return 0, fmt.Errorf("sync %s: %w", in.ID, err)
	}
	return t.next.Sync(ctx, in)
}

// wait returns ctx's error once ctx is done. A limiter refusal while ctx is
// still live, such as a deadline shorter than the next token, is reported as
// domain.ErrRateLimited.
func (t *Throttled) wait(ctx context.Context) error {
	err := t.limiter.Wait(ctx)
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
}
