package polling

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startCounter(t *testing.T, name string) (*Poller[int64], *counter) {
	t.Helper()
	c := &counter{}
	p, err := Start(context.Background(), c.fetch, time.Hour, WithClock(clockwork.NewFakeClock()), WithName(name))
	require.NoError(t, err)
	return p, c
}

func TestController_Add(t *testing.T) {
	ctrl := NewController()
	p, _ := startCounter(t, "anomalies")
	defer ctrl.Shutdown(context.Background())

	require.NoError(t, ctrl.Add(p))
	assert.Error(t, ctrl.Add(p))
	assert.Equal(t, []string{"anomalies"}, ctrl.Names())
}

func TestController_RefreshAll(t *testing.T) {
	ctrl := NewController()
	a, ca := startCounter(t, "a")
	b, cb := startCounter(t, "b")
	require.NoError(t, ctrl.Add(a))
	require.NoError(t, ctrl.Add(b))
	defer ctrl.Shutdown(context.Background())

	assert.Eventually(t, func() bool { return ca.calls.Load() == 1 && cb.calls.Load() == 1 }, waitFor, tick)

	ctrl.RefreshAll()
	assert.Eventually(t, func() bool { return ca.calls.Load() == 2 && cb.calls.Load() == 2 }, waitFor, tick)

	require.NoError(t, ctrl.Refresh("a"))
	assert.Eventually(t, func() bool { return ca.calls.Load() == 3 }, waitFor, tick)
	assert.ErrorIs(t, ctrl.Refresh("missing"), ErrNotRunning)
}

func TestController_Shutdown(t *testing.T) {
	ctrl := NewController()
	var stopped atomic.Int32
	for _, name := range []string{"a", "b", "c"} {
		p, _ := startCounter(t, name)
		require.NoError(t, ctrl.Add(p))
		go func() {
			<-p.Done()
			stopped.Add(1)
		}()
	}

	require.NoError(t, ctrl.Shutdown(context.Background()))
	assert.Eventually(t, func() bool { return stopped.Load() == 3 }, waitFor, tick)
	assert.Empty(t, ctrl.Names())
}
