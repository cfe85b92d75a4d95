package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/finops-dashboard/pkg/models/api"
	"github.com/spf13/cobra"
)

func NewRoleCmd(provider Provider) *cobra.Command {
	return &cobra.Command{
		Use:       "role [squad_lead|finops|viewer]",
		Short:     "Show or switch the session role",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"squad_lead", "finops", "viewer"},
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := provider()
			if err != nil {
				return err
			}

			var session api.Session
			if len(args) == 1 {
				session, err = client.SetRole(cmd.Context(), args[0])
			} else {
				session, err = client.Session(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("failed to resolve session: %w", err)
			}

			caps := strings.Join(session.Capabilities, ", ")
			if caps == "" {
				caps = "read-only"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "session %s: %s (%s)\n", session.ID, session.Role, caps)
			return err
		},
	}
}
