package polling

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/metrics"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

const DefaultInterval = 30 * time.Second

// Fetch loads one fresh copy of the polled data.
type Fetch[T any] func(ctx context.Context) (T, error)

// Snapshot is the observable state of a Poller.
type Snapshot[T any] struct {
	Data        T
	HasData     bool
	LastUpdated time.Time // zero until the first successful fetch
	Loading     bool
	Err         error // last fetch error, cleared by the next success
}

type options struct {
	name     string
	clock    clockwork.Clock
	onUpdate func()
}

type Option func(*options)

// WithName labels the poller in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithOnUpdate registers a callback invoked after every accepted fetch result.
func WithOnUpdate(fn func()) Option {
	return func(o *options) { o.onUpdate = fn }
}

// Poller fetches immediately and then once per interval until stopped.
// Fetches may overlap; the last one to complete wins.
type Poller[T any] struct {
	name     string
	fetch    Fetch[T]
	clock    clockwork.Clock
	onUpdate func()

	ctx     context.Context
	cancel  context.CancelFunc
	ticker  clockwork.Ticker
	refresh chan struct{}
	done    chan struct{}

	mu       sync.Mutex
	snapshot Snapshot[T]
	inFlight int
	stopped  bool
	stopOnce sync.Once
}

func Start[T any](ctx context.Context, fetch Fetch[T], interval time.Duration, opts ...Option) (*Poller[T], error) {
	if fetch == nil {
		return nil, fmt.Errorf("fetch func is nil")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", interval)
	}

	o := options{name: "poller", clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(ctx)
	p := &Poller[T]{
		name:     o.name,
		fetch:    fetch,
		clock:    o.clock,
		onUpdate: o.onUpdate,
		ctx:      ctx,
		cancel:   cancel,
		ticker:   o.clock.NewTicker(interval),
		refresh:  make(chan struct{}, 1),
		done:     make(chan struct{}),
	}

	p.launch()
	go p.run()
	return p, nil
}

func (p *Poller[T]) run() {
	defer close(p.done)
	defer p.ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			p.Stop()
			return
		case <-p.ticker.Chan():
			p.launch()
		case <-p.refresh:
			p.launch()
		}
	}
}

func (p *Poller[T]) launch() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.inFlight++
	p.snapshot.Loading = true
	p.mu.Unlock()

	go func() {
		data, err := p.fetch(p.ctx)
		p.complete(data, err)
	}()
}

func (p *Poller[T]) complete(data T, err error) {
	p.mu.Lock()
	p.inFlight--
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.snapshot.Loading = p.inFlight > 0
	if err != nil {
		p.snapshot.Err = err
	} else {
		p.snapshot.Data = data
		p.snapshot.HasData = true
		p.snapshot.LastUpdated = p.clock.Now()
		p.snapshot.Err = nil
	}
	onUpdate := p.onUpdate
	p.mu.Unlock()

	metrics.ObservePoll(p.name, err)
	if err != nil && !errors.Is(err, context.Canceled) {
		zerolog.Ctx(p.ctx).Warn().Err(err).Str("poller", p.name).Msg("poll fetch failed")
	}
	if onUpdate != nil {
		onUpdate()
	}
}

// Snapshot returns the current state.
func (p *Poller[T]) Snapshot() Snapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

// Refresh requests an immediate fetch without resetting the interval.
func (p *Poller[T]) Refresh() {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return
	}
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Stop cancels in-flight fetches and the interval. Results arriving after
// Stop are discarded. Stop is idempotent.
func (p *Poller[T]) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.stopped = true
		p.snapshot.Loading = false
		p.mu.Unlock()
		p.cancel()
	})
}

// Done is closed once the polling loop has exited.
func (p *Poller[T]) Done() <-chan struct{} {
	return p.done
}

func (p *Poller[T]) Name() string {
	return p.name
}
