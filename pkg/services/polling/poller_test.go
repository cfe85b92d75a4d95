package polling

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	waitFor = time.Second
	tick    = 5 * time.Millisecond
)

type counter struct {
	calls atomic.Int64
}

func (c *counter) fetch(_ context.Context) (int64, error) {
	return c.calls.Add(1), nil
}

func TestStart_Validation(t *testing.T) {
	_, err := Start[int](context.Background(), nil, time.Second)
	assert.Error(t, err)

	_, err = Start(context.Background(), func(context.Context) (int, error) { return 0, nil }, 0)
	assert.Error(t, err)
}

func TestPoller_FetchesImmediatelyThenPerInterval(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := &counter{}

	p, err := Start(context.Background(), c.fetch, 30*time.Second, WithClock(clock))
	require.NoError(t, err)
	defer p.Stop()

	assert.Eventually(t, func() bool { return c.calls.Load() == 1 }, waitFor, tick)

	for i := int64(2); i <= 4; i++ {
		clock.BlockUntil(1)
		clock.Advance(30 * time.Second)
		want := i
		assert.Eventually(t, func() bool { return c.calls.Load() == want }, waitFor, tick)
	}

	assert.Eventually(t, func() bool {
		s := p.Snapshot()
		return s.HasData && s.Data == 4 && !s.Loading
	}, waitFor, tick)
	assert.Equal(t, clock.Now(), p.Snapshot().LastUpdated)
}

func TestPoller_StopHaltsPolling(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := &counter{}

	p, err := Start(context.Background(), c.fetch, 30*time.Second, WithClock(clock))
	require.NoError(t, err)
	assert.Eventually(t, func() bool { return c.calls.Load() == 1 }, waitFor, tick)

	p.Stop()
	p.Stop()
	<-p.Done()

	clock.Advance(5 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), c.calls.Load())

	p.Refresh()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int64(1), c.calls.Load())
}

func TestPoller_NoUpdateAfterStop(t *testing.T) {
	release := make(chan struct{})
	var started sync.WaitGroup
	started.Add(1)

	p, err := Start(context.Background(), func(ctx context.Context) (string, error) {
		started.Done()
		<-release
		return "late", nil
	}, time.Minute, WithClock(clockwork.NewFakeClock()))
	require.NoError(t, err)

	started.Wait()
	assert.True(t, p.Snapshot().Loading)

	p.Stop()
	close(release)
	time.Sleep(20 * time.Millisecond)

	s := p.Snapshot()
	assert.False(t, s.HasData)
	assert.Empty(t, s.Data)
	assert.False(t, s.Loading)
}

func TestPoller_StopCancelsFetchContext(t *testing.T) {
	canceled := make(chan struct{})

	p, err := Start(context.Background(), func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(canceled)
		return 0, ctx.Err()
	}, time.Minute, WithClock(clockwork.NewFakeClock()))
	require.NoError(t, err)

	p.Stop()
	select {
	case <-canceled:
	case <-time.After(waitFor):
		t.Fatal("fetch context was not canceled")
	}
}

func TestPoller_ErrorKeepsLastData(t *testing.T) {
	clock := clockwork.NewFakeClock()
	boom := errors.New("boom")
	var calls atomic.Int64

	p, err := Start(context.Background(), func(context.Context) (string, error) {
		switch calls.Add(1) {
		case 1:
			return "first", nil
		case 2:
			return "", boom
		default:
			return "third", nil
		}
	}, 10*time.Second, WithClock(clock))
	require.NoError(t, err)
	defer p.Stop()

	assert.Eventually(t, func() bool { return p.Snapshot().Data == "first" }, waitFor, tick)

	clock.BlockUntil(1)
	clock.Advance(10 * time.Second)
	assert.Eventually(t, func() bool { return p.Snapshot().Err != nil }, waitFor, tick)
	s := p.Snapshot()
	assert.ErrorIs(t, s.Err, boom)
	assert.Equal(t, "first", s.Data)
	assert.True(t, s.HasData)

	clock.BlockUntil(1)
	clock.Advance(10 * time.Second)
	assert.Eventually(t, func() bool { return p.Snapshot().Data == "third" }, waitFor, tick)
	assert.NoError(t, p.Snapshot().Err)
}

func TestPoller_RefreshFetchesOutOfBand(t *testing.T) {
	c := &counter{}
	updates := make(chan struct{}, 10)

	p, err := Start(context.Background(), c.fetch, time.Hour,
		WithClock(clockwork.NewFakeClock()),
		WithName("squads"),
		WithOnUpdate(func() { updates <- struct{}{} }),
	)
	require.NoError(t, err)
	defer p.Stop()

	<-updates
	p.Refresh()
	<-updates
	assert.Equal(t, int64(2), c.calls.Load())
	assert.Equal(t, "squads", p.Name())
}

func TestPoller_ParentContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := &counter{}

	p, err := Start(ctx, c.fetch, time.Minute, WithClock(clockwork.NewFakeClock()))
	require.NoError(t, err)

	cancel()
	select {
	case <-p.Done():
	case <-time.After(waitFor):
		t.Fatal("poller did not stop with its parent context")
	}
}
