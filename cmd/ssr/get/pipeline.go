package get

import (
	"context"
	"fmt"
	"io"

	"github.com/flarebyte/ssr/internal/stage"
)

// PreparedStages returns the deterministic stage order for a run.
func PreparedStages(meta *stage.Meta) []string {
	stages := []string{}
	if meta != nil && meta.ConfigPath != "" {
		stages = append(stages, "validate-config")
	}
	return append(stages,
		"retrieve",
		"lua-filter",
		"consolidate",
		"write-output",
	)
}

// runStages executes the provided list of stage names in order. Config
// validation failures are reported as usage errors.
func runStages(ctx context.Context, in stage.Envelope, stages []string, deps stage.Deps, progress io.Writer) (stage.Envelope, error) {
	reporter := newProgressReporter(progress)
	out := in
	var err error
	for _, name := range stages {
		out, err = reporter.runStage(ctx, name, out, deps)
		if err != nil {
			if name == "validate-config" {
				return stage.Envelope{}, UsageError(err)
			}
			return stage.Envelope{}, err
		}
	}
	return out, nil
}

// executePipeline runs the prepared stages for `ssr get`.
func executePipeline(ctx context.Context, in stage.Envelope, deps stage.Deps, progress io.Writer) (stage.Envelope, error) {
	stages := PreparedStages(in.Meta)
	if len(stages) == 0 {
		return stage.Envelope{}, fmt.Errorf("empty pipeline")
	}
	return runStages(ctx, in, stages, deps, progress)
}
