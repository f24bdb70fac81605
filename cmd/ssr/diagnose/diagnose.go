package diagnose

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/flarebyte/ssr/cmd/ssr/get"
	"github.com/flarebyte/ssr/internal/ssr"
	"github.com/flarebyte/ssr/internal/stage"
	"github.com/spf13/cobra"
)

type flags struct {
	stage      string
	stageIndex int
	untilStage string
	untilIndex int
	in         string
	dumpIn     string
	dumpOut    string
	dumpDir    string
}

// NewCmd creates `ssr diagnose`.
func NewCmd() *cobra.Command {
	f := &flags{}
	opts := &get.Options{}
	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Run pipeline stages and print the resulting envelope",
		Example: `  ssr diagnose -e dev --until-stage consolidate
  ssr diagnose --in batches.json --stage consolidate
  ssr diagnose --dump-dir ./tmp/stages`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.in != "" {
				return get.Classify(f.runWithIn(cmd, opts))
			}
			return get.Classify(f.runPrepared(cmd, opts))
		},
	}
	opts.Bind(cmd)
	fl := cmd.Flags()
	fl.StringVar(&f.stage, "stage", "", "Run only this stage")
	fl.IntVar(&f.stageIndex, "stage-index", -1, "Run only the stage at this index of the prepared pipeline (0-based)")
	fl.StringVar(&f.untilStage, "until-stage", "", "Run the prepared pipeline through this stage (inclusive)")
	fl.IntVar(&f.untilIndex, "until-index", -1, "Run the prepared pipeline through this index (inclusive, 0-based)")
	fl.StringVar(&f.in, "in", "", "Path to input envelope JSON")
	fl.StringVar(&f.dumpIn, "dump-in", "", "Path to write resolved input envelope JSON")
	fl.StringVar(&f.dumpOut, "dump-out", "", "Path to write output envelope JSON")
	fl.StringVar(&f.dumpDir, "dump-dir", "", "Directory to write per-stage dumps (<seq>_<stage>_{in,out}.json)")
	return cmd
}

func writeJSONFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dump dir: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

func readEnvelope(path string) (stage.Envelope, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return stage.Envelope{}, fmt.Errorf("failed to read input: %w", err)
	}
	var env stage.Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return stage.Envelope{}, get.UsageError(fmt.Errorf("invalid input JSON: %v", err))
	}
	return env, nil
}

func printEnvelopeOneLine(w io.Writer, env stage.Envelope) error {
	if env.Meta == nil {
		env.Meta = &stage.Meta{}
	}
	env.Meta.ContractVersion = stage.ContractVersion
	if env.Records == nil {
		env.Records = []ssr.Result{}
	}
	stage.SortEnvelopeErrors(&env)
	b, err := json.Marshal(env)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
