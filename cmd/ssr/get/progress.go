package get

import (
	"context"
	"fmt"
	"io"

	"github.com/flarebyte/ssr/internal/stage"
)

// progressReporter prints one line per stage boundary. A nil writer
// disables it.
type progressReporter struct {
	w io.Writer
}

func newProgressReporter(w io.Writer) *progressReporter {
	return &progressReporter{w: w}
}

func (p *progressReporter) runStage(ctx context.Context, name string, in stage.Envelope, deps stage.Deps) (stage.Envelope, error) {
	if p == nil || p.w == nil {
		return stage.Run(ctx, name, in, deps)
	}
	p.emit("start", name, in)
	out, err := stage.Run(ctx, name, in, deps)
	if err != nil {
		_, _ = fmt.Fprintf(p.w, "progress stage=%s status=failed\n", name)
		return out, err
	}
	p.emit("done", name, out)
	return out, nil
}

func (p *progressReporter) emit(status, name string, env stage.Envelope) {
	records := 0
	for _, b := range env.Batches {
		records += len(b.Records)
	}
	_, _ = fmt.Fprintf(p.w, "progress stage=%s status=%s batches=%d records=%d results=%d errors=%d\n",
		name, status, len(env.Batches), records, len(env.Records), len(env.Errors))
}
