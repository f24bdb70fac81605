package version

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/flarebyte/ssr/internal/buildinfo"
	"github.com/spf13/cobra"
)

// NewCmd creates `ssr version`.
func NewCmd() *cobra.Command {
	var short, asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short || !asJSON {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "ssr %s\n", buildinfo.Summary())
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "ssr version: %s\n", buildinfo.Summary())
			out := map[string]any{
				"version":   buildinfo.Version,
				"commit":    buildinfo.Commit,
				"date":      buildinfo.Date,
				"built_by":  buildinfo.BuiltBy,
				"go":        runtime.Version(),
				"go_os":     runtime.GOOS,
				"go_arch":   runtime.GOARCH,
				"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version string")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print detailed JSON version info")
	return cmd
}
