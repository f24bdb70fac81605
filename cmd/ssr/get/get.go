package get

import (
	"io"

	"github.com/spf13/cobra"
)

// NewCmd creates the `ssr get` command.
func NewCmd() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Fetch registry records from each environment and merge them by key",
		Example: `  ssr get -e dev,qa -f billing
  ssr get --config ssr.cue -o table
  ssr get -w 'string.find(record.url, "internal") == nil'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := opts.Envelope(cmd)
			if err != nil {
				return err
			}
			var progress io.Writer
			if opts.Progress {
				progress = cmd.ErrOrStderr()
			}
			_, err = executePipeline(cmd.Context(), in, opts.Deps(cmd), progress)
			return Classify(err)
		},
	}
	opts.Bind(cmd)
	return cmd
}
