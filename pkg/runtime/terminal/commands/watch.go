package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/de-tools/finops-dashboard/pkg/services/polling"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

type OverviewHandler interface {
	Handle(o api.Overview, updated time.Time) error
}

type WatchCmd struct {
	interval time.Duration
	count    int
	clock    clockwork.Clock
	provider Provider
	reporter OverviewHandler
}

func NewWatchCmd(provider Provider, reporter OverviewHandler, clock clockwork.Clock) *cobra.Command {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	wc := &WatchCmd{provider: provider, reporter: reporter, clock: clock}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the dashboard overview and print every update",
		Args:  cobra.NoArgs,
		RunE:  wc.run,
	}
	cmd.Flags().DurationVar(&wc.interval, "interval", polling.DefaultInterval, "Polling interval")
	cmd.Flags().IntVar(&wc.count, "count", 0, "Exit after this many updates (0 watches until interrupted)")
	return cmd
}

func (wc *WatchCmd) run(cmd *cobra.Command, _ []string) error {
	client, err := wc.provider()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	updates := make(chan struct{}, 1)
	poller, err := polling.Start[api.Overview](ctx, client.Overview, wc.interval,
		polling.WithName("overview"),
		polling.WithClock(wc.clock),
		polling.WithOnUpdate(func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		}),
	)
	if err != nil {
		return err
	}
	defer func() {
		poller.Stop()
		<-poller.Done()
	}()

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			snap := poller.Snapshot()
			if snap.Err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "poll failed: %v\n", snap.Err)
				if !snap.HasData {
					continue
				}
			}
			if err := wc.reporter.Handle(snap.Data, snap.LastUpdated); err != nil {
				return err
			}
			printed++
			if wc.count > 0 && printed >= wc.count {
				return nil
			}
		}
	}
}
