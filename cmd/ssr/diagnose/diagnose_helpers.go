package diagnose

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flarebyte/ssr/cmd/ssr/get"
	"github.com/flarebyte/ssr/internal/stage"
	"github.com/spf13/cobra"
)

func (f *flags) maybeDumpIn(env stage.Envelope) error {
	if f.dumpDir != "" || f.dumpIn == "" {
		return nil
	}
	return writeJSONFile(f.dumpIn, env)
}

func (f *flags) maybeDumpOut(env stage.Envelope) error {
	if f.dumpDir != "" || f.dumpOut == "" {
		return nil
	}
	return writeJSONFile(f.dumpOut, env)
}

func (f *flags) dumpStageBoundary(seq int, stageName, suffix string, env stage.Envelope) error {
	if f.dumpDir == "" {
		return nil
	}
	base := fmt.Sprintf("%03d_%s_%s.json", seq, stageName, suffix)
	return writeJSONFile(filepath.Join(f.dumpDir, base), env)
}

func (f *flags) runStagesAndRender(cmd *cobra.Command, opts *get.Options, in stage.Envelope, stages []string) error {
	deps := opts.Deps(cmd)
	out := in
	for i, name := range stages {
		seq := i + 1
		if err := f.dumpStageBoundary(seq, name, "in", out); err != nil {
			return err
		}
		next, err := stage.Run(cmd.Context(), name, out, deps)
		if err != nil {
			if next.Meta != nil || len(next.Errors) > 0 {
				_ = f.dumpStageBoundary(seq, name, "out", next)
				_ = f.maybeDumpOut(next)
			}
			if name == "validate-config" {
				return get.UsageError(err)
			}
			return err
		}
		if err := f.dumpStageBoundary(seq, name, "out", next); err != nil {
			return err
		}
		out = next
	}
	if err := f.maybeDumpOut(out); err != nil {
		return err
	}
	return printEnvelopeOneLine(cmd.OutOrStdout(), out)
}

func findStageIndexByName(stages []string, name, flagName string) (int, error) {
	for i, cur := range stages {
		if cur == name {
			return i, nil
		}
	}
	return -1, get.UsageError(fmt.Errorf("unknown %s: %s", flagName, name))
}

// resolveStages picks the stages to run from the prepared list. Without a
// selector every stage except write-output runs so the envelope is printed
// instead of rendered.
func (f *flags) resolveStages(prepared []string) ([]string, error) {
	switch {
	case f.stageIndex >= 0:
		if f.stageIndex >= len(prepared) {
			return nil, get.UsageError(fmt.Errorf("--stage-index out of range: %d", f.stageIndex))
		}
		return prepared[f.stageIndex : f.stageIndex+1], nil
	case strings.TrimSpace(f.stage) != "":
		name := strings.TrimSpace(f.stage)
		if !stage.Known(name) {
			return nil, get.UsageError(fmt.Errorf("unknown --stage: %s", name))
		}
		return []string{name}, nil
	case f.untilIndex >= 0:
		if f.untilIndex >= len(prepared) {
			return nil, get.UsageError(fmt.Errorf("--until-index out of range: %d", f.untilIndex))
		}
		return prepared[:f.untilIndex+1], nil
	case f.untilStage != "":
		idx, err := findStageIndexByName(prepared, f.untilStage, "--until-stage")
		if err != nil {
			return nil, err
		}
		return prepared[:idx+1], nil
	default:
		if n := len(prepared); n > 0 && prepared[n-1] == "write-output" {
			return prepared[:n-1], nil
		}
		return prepared, nil
	}
}

func (f *flags) runWithIn(cmd *cobra.Command, opts *get.Options) error {
	in, err := readEnvelope(f.in)
	if err != nil {
		return err
	}
	if f.stage == "" && f.stageIndex < 0 {
		return get.UsageError(fmt.Errorf("missing required flag: --stage"))
	}
	stages, err := f.resolveStages(get.PreparedStages(in.Meta))
	if err != nil {
		return err
	}
	if err := f.maybeDumpIn(in); err != nil {
		return err
	}
	return f.runStagesAndRender(cmd, opts, in, stages)
}

func (f *flags) runPrepared(cmd *cobra.Command, opts *get.Options) error {
	in, err := opts.Envelope(cmd)
	if err != nil {
		return err
	}
	stages, err := f.resolveStages(get.PreparedStages(in.Meta))
	if err != nil {
		return err
	}
	if err := f.maybeDumpIn(in); err != nil {
		return err
	}
	return f.runStagesAndRender(cmd, opts, in, stages)
}
