package commands

import (
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type AnomaliesCmd struct {
	squad    string
	provider Provider
	reporter *export.Reporter
}

func NewAnomaliesCmd(provider Provider, reporter *export.Reporter) *cobra.Command {
	ac := &AnomaliesCmd{provider: provider, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "List and triage cost anomalies",
		Args:  cobra.NoArgs,
		RunE:  ac.list,
	}
	cmd.Flags().StringVar(&ac.squad, "squad", "", "Only show anomalies of this squad")

	cmd.AddCommand(ac.newTransitionCmd("ack", "Acknowledge an anomaly", "acknowledged"))
	cmd.AddCommand(ac.newTransitionCmd("resolve", "Resolve an anomaly", "resolved"))
	return cmd
}

func (ac *AnomaliesCmd) list(cmd *cobra.Command, _ []string) error {
	client, err := ac.provider()
	if err != nil {
		return err
	}
	anomalies, err := client.ListAnomalies(cmd.Context(), ac.squad)
	if err != nil {
		return fmt.Errorf("failed to list anomalies: %w", err)
	}

	table := &export.Table{
		Title:   "Anomalies",
		Headers: []string{"ID", "Squad", "Severity", "Status", "Impact", "Confidence", "Title"},
	}
	var open float64
	for _, a := range anomalies {
		if a.Status != "resolved" {
			open += a.Impact
		}
		table.Rows = append(table.Rows, []string{
			a.ID, a.SquadID, string(a.Severity), a.Status,
			fmt.Sprintf("%.0f", a.Impact), fmt.Sprintf("%d%%", a.Confidence), a.Title,
		})
	}
	table.Summary = map[string]string{"Open impact": fmt.Sprintf("USD %.2f", open)}
	return ac.reporter.Handle(table)
}

func (ac *AnomaliesCmd) newTransitionCmd(use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <anomaly-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ac.provider()
			if err != nil {
				return err
			}
			updated, err := client.SetAnomalyStatus(cmd.Context(), args[0], status)
			if err != nil {
				return fmt.Errorf("failed to update anomaly %s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", updated.ID, updated.Status)
			return err
		},
	}
}
