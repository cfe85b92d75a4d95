package commands

import (
	"fmt"
	"strconv"

	"github.com/de-tools/finops-dashboard/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type IntegrationsCmd struct {
	provider Provider
	reporter *export.Reporter
}

func NewIntegrationsCmd(provider Provider, reporter *export.Reporter) *cobra.Command {
	ic := &IntegrationsCmd{provider: provider, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "integrations",
		Short: "Inspect and manage data source integrations",
		Args:  cobra.NoArgs,
		RunE:  ic.list,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "connect <integration-id>",
		Short: "Connect an integration (requires the admin capability)",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.connect,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "refresh <integration-id>",
		Short: "Trigger a sync for an integration",
		Args:  cobra.ExactArgs(1),
		RunE:  ic.refresh,
	})
	return cmd
}

func (ic *IntegrationsCmd) list(cmd *cobra.Command, _ []string) error {
	client, err := ic.provider()
	if err != nil {
		return err
	}
	integrations, err := client.ListIntegrations(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list integrations: %w", err)
	}

	table := &export.Table{
		Title:   "Integrations",
		Headers: []string{"ID", "Name", "Source", "Status", "Last Sync", "Records"},
	}
	for _, i := range integrations {
		lastSync, records := "never", "-"
		if i.LastSync != nil {
			lastSync = *i.LastSync
		}
		if i.RecordsProcessed != nil {
			records = strconv.FormatInt(*i.RecordsProcessed, 10)
		}
		table.Rows = append(table.Rows, []string{i.ID, i.Name, i.DataSource, i.Status, lastSync, records})
	}
	return ic.reporter.Handle(table)
}

func (ic *IntegrationsCmd) connect(cmd *cobra.Command, args []string) error {
	client, err := ic.provider()
	if err != nil {
		return err
	}
	result, err := client.ConnectIntegration(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to connect %s: %w", args[0], err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), result.Message); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("integration %s did not connect", args[0])
	}
	return nil
}

func (ic *IntegrationsCmd) refresh(cmd *cobra.Command, args []string) error {
	client, err := ic.provider()
	if err != nil {
		return err
	}
	if err := client.RefreshIntegration(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to refresh %s: %w", args[0], err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s refreshed\n", args[0])
	return err
}
