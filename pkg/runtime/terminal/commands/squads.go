package commands

import (
	"fmt"

	"github.com/de-tools/finops-dashboard/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewSquadsCmd(provider Provider, reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "squads",
		Short: "List squads and their budgets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := provider()
			if err != nil {
				return err
			}
			squads, err := client.ListSquads(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list squads: %w", err)
			}

			table := &export.Table{
				Title:   "Squads",
				Headers: []string{"ID", "Name", "Owner", "Budget"},
			}
			for _, s := range squads {
				table.Rows = append(table.Rows, []string{s.ID, s.Name, s.Owner, fmt.Sprintf("%.2f", s.Budget)})
			}
			return reporter.Handle(table)
		},
	}
}
