package stage

import (
	"context"

	"github.com/flarebyte/ssr/internal/ssr"
)

const consolidateStage = "consolidate"

func consolidateRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	results, err := ssr.Consolidate(in.Batches)
	if err != nil {
		return Envelope{}, err
	}
	out := in
	out.Records = results
	deps.logger().Debug("consolidated records", "batches", len(in.Batches), "results", len(results))
	return out, nil
}

func init() { Register(consolidateStage, consolidateRunner) }
