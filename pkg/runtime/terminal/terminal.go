package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/finops-dashboard/pkg/client"
	"github.com/de-tools/finops-dashboard/pkg/runtime/terminal/commands"
	"github.com/de-tools/finops-dashboard/pkg/runtime/terminal/export"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	server   string
	session  string
	clock    clockwork.Clock
	reporter *export.Reporter
	overview *Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Server  string
	Session string
	Output  io.Writer
	Clock   clockwork.Clock
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Server == "" {
		opts.Server = client.DefaultBaseURL
	}

	cli := &CLI{
		server:   opts.Server,
		session:  opts.Session,
		clock:    opts.Clock,
		reporter: export.NewReporter(opts.Output),
		overview: NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "finops",
		Short:         "FinOps dashboard command-line client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&cli.server, "server", cli.server, "Dashboard API base URL")
	cmd.PersistentFlags().StringVar(&cli.session, "session", cli.session, "Session id sent as "+client.SessionHeader)

	provider := cli.client
	cmd.AddCommand(commands.NewSquadsCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewAnomaliesCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewChargesCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewIntegrationsCmd(provider, cli.reporter))
	cmd.AddCommand(commands.NewRoleCmd(provider))
	cmd.AddCommand(commands.NewWatchCmd(provider, cli.overview, cli.clock))

	return cmd
}

func (cli *CLI) client() (commands.API, error) {
	c, err := client.New(cli.server, client.WithSession(cli.session))
	if err != nil {
		return nil, err
	}
	return c, nil
}
