package stage

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/flarebyte/ssr/internal/logging"
)

// Deps carries the collaborators stages reach outside the envelope.
type Deps struct {
	HTTPClient *http.Client
	Logger     *slog.Logger
	Stdout     io.Writer
}

func (d Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return logging.Discard()
}

func (d Deps) stdout() io.Writer {
	if d.Stdout != nil {
		return d.Stdout
	}
	return os.Stdout
}

// Runner executes a stage.
type Runner func(ctx context.Context, in Envelope, deps Deps) (Envelope, error)

var registry = map[string]Runner{}

// Register adds a stage runner.
func Register(name string, r Runner) {
	registry[name] = r
}

// Run executes a registered stage by name. On success meta.stage names the
// last stage that completed.
func Run(ctx context.Context, name string, in Envelope, deps Deps) (Envelope, error) {
	r, ok := registry[name]
	if !ok {
		return Envelope{}, ErrUnknown{name: name}
	}
	out, err := r(ctx, in, deps)
	if err != nil {
		return out, err
	}
	ensureMeta(&out).Stage = name
	return out, nil
}

// Known reports whether a stage with that name is registered.
func Known(name string) bool {
	_, ok := registry[name]
	return ok
}

// ErrUnknown is returned when a stage is not found.
type ErrUnknown struct{ name string }

func (e ErrUnknown) Error() string { return "unknown stage: " + e.name }
