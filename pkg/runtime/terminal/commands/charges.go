package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/finops-dashboard/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type ChargesCmd struct {
	squad    string
	provider Provider
	reporter *export.Reporter
}

func NewChargesCmd(provider Provider, reporter *export.Reporter) *cobra.Command {
	cc := &ChargesCmd{provider: provider, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "charges",
		Short: "List charges and reassign cost centers",
		Args:  cobra.NoArgs,
		RunE:  cc.list,
	}
	cmd.Flags().StringVar(&cc.squad, "squad", "", "Only show charges of this squad")

	cmd.AddCommand(&cobra.Command{
		Use:   "set-cost-center <charge-id> <cost-center>",
		Short: "Assign a charge to another cost center",
		Args:  cobra.ExactArgs(2),
		RunE:  cc.setCostCenter,
	})
	return cmd
}

func (cc *ChargesCmd) list(cmd *cobra.Command, _ []string) error {
	client, err := cc.provider()
	if err != nil {
		return err
	}
	charges, err := client.ListCharges(cmd.Context(), cc.squad)
	if err != nil {
		return fmt.Errorf("failed to list charges: %w", err)
	}

	table := &export.Table{
		Title:   "Charges",
		Headers: []string{"ID", "Squad", "Service", "Amount", "Cost Center", "Account", "Tags"},
	}
	var total float64
	for _, c := range charges {
		total += c.Amount
		table.Rows = append(table.Rows, []string{
			c.ID, c.SquadID, c.Service, fmt.Sprintf("%.2f", c.Amount), c.CostCenter, c.Account, strings.Join(c.Tags, ","),
		})
	}
	table.Summary = map[string]string{"Total": fmt.Sprintf("USD %.2f", total)}
	return cc.reporter.Handle(table)
}

func (cc *ChargesCmd) setCostCenter(cmd *cobra.Command, args []string) error {
	client, err := cc.provider()
	if err != nil {
		return err
	}
	charge, err := client.UpdateCostCenter(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("failed to update charge %s: %w", args[0], err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s moved to %s\n", charge.ID, charge.CostCenter)
	return err
}
