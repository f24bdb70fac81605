package stage

import (
	"context"
	"time"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/retriever"
	"github.com/flarebyte/ssr/internal/ssr"
)

const retrieveStage = "retrieve"

func retrieveRunner(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	src := sourceFromMeta(in.Meta)
	r := retriever.New(src.URL,
		retriever.WithHTTPClient(deps.HTTPClient),
		retriever.WithTimeout(time.Duration(src.TimeoutMs)*time.Millisecond),
		retriever.WithWorkers(workersFromMeta(in.Meta)),
		retriever.WithLogger(deps.logger()),
	)
	targets := src.Targets
	if len(targets) == 0 {
		targets = environment.All()
	}
	targets = environment.Unique(targets)

	// The envelope is returned even with ErrNoRecordsToProcess so the
	// per-target failures stay inspectable.
	outcome, err := r.Retrieve(ctx, targets, src.Filter)

	out := in
	out.Batches = outcome.Batches
	envErrs := make([]Error, 0, len(outcome.Failures))
	for _, f := range outcome.Failures {
		envErrs = append(envErrs, Error{
			Stage:   retrieveStage,
			Target:  f.Target.String(),
			Message: string(f.Kind) + ": " + f.Err.Error(),
		})
	}
	appendSanitizedErrors(&out, envErrs)

	meta := ensureMeta(&out)
	meta.Stats = &StatsMeta{
		Requested: len(targets),
		Succeeded: len(outcome.Batches),
		Failed:    len(outcome.Failures),
		Records:   ssr.CountRecords(outcome.Batches),
	}
	return out, err
}

func init() { Register(retrieveStage, retrieveRunner) }
