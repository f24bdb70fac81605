package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/flarebyte/ssr/cmd/ssr/diagnose"
	"github.com/flarebyte/ssr/cmd/ssr/get"
	"github.com/flarebyte/ssr/cmd/ssr/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ssr.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssr",
		Short: "CLI: look up service registry entries across dev, qa, uat and prod",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return get.UsageError(err)
	})

	cmd.AddCommand(version.NewCmd())
	cmd.AddCommand(get.NewCmd())
	cmd.AddCommand(diagnose.NewCmd())
	return cmd
}

// Execute runs the root command with provided args. SIGINT and SIGTERM
// cancel in-flight requests.
func Execute(args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}
