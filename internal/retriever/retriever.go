// Package retriever queries the registry endpoint once per environment and
// collects the per-environment record batches.
package retriever

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/parallel"
	"github.com/flarebyte/ssr/internal/ssr"
)

// DefaultURL is the registry queried when no base URL is configured.
const DefaultURL = "https://ssr.xenial.com"

// QueryParam is the query parameter carrying the environment name.
const QueryParam = "env"

// Kind classifies a per-target failure.
type Kind string

const (
	// KindTransport covers network errors, HTTP error statuses and bodies
	// that are not a JSON array of records.
	KindTransport Kind = "transport"
	// KindPrepare means an isolated request for the target could not be built.
	KindPrepare Kind = "prepare"
)

// TargetError reports why a single environment contributed no records.
type TargetError struct {
	Target environment.Target
	Kind   Kind
	Err    error
}

func (e *TargetError) Error() string {
	if e.Kind == KindPrepare {
		return fmt.Sprintf("%s: unable to prepare request: %v", e.Target, e.Err)
	}
	return fmt.Sprintf("%s: failed to retrieve records: %v", e.Target, e.Err)
}

func (e *TargetError) Unwrap() error { return e.Err }

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	Code   int
	Status string
}

func (e StatusError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return "unexpected status " + e.Status
}

// Outcome holds the batches of targets that answered and the failures of
// those that did not. Batches follow the requested target order.
type Outcome struct {
	Batches  []ssr.Batch
	Failures []*TargetError
}

// Retriever issues one GET per environment against a shared base URL.
type Retriever struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	workers    int
	logger     *slog.Logger
}

// Option customises a Retriever.
type Option func(*Retriever)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(r *Retriever) {
		if h != nil {
			r.httpClient = h
		}
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		if d >= 0 {
			r.timeout = d
		}
	}
}

// WithWorkers caps the number of requests in flight. Zero means one per target.
func WithWorkers(n int) Option {
	return func(r *Retriever) { r.workers = n }
}

// WithLogger sets the logger used for per-target diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Retriever) {
		if l != nil {
			r.logger = l
		}
	}
}

// New constructs a Retriever for base. An empty base selects DefaultURL.
func New(base string, opts ...Option) *Retriever {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultURL
	}
	r := &Retriever{
		baseURL:    trimmed,
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// BaseURL returns the configured registry location.
func (r *Retriever) BaseURL() string { return r.baseURL }

// Retrieve fetches every target and keeps going past individual failures.
// An empty target list means all environments; repeated targets are queried
// once. pattern filters records case-insensitively before they are batched.
// When no record survives, the outcome is returned with
// ssr.ErrNoRecordsToProcess.
func (r *Retriever) Retrieve(ctx context.Context, targets []environment.Target, pattern string) (Outcome, error) {
	if len(targets) == 0 {
		targets = environment.All()
	}
	targets = environment.Unique(targets)
	pattern = strings.ToLower(pattern)

	type fetchRes struct {
		idx   int
		batch ssr.Batch
		err   error
	}
	workers := parallel.Workers(r.workers, len(targets))
	results := parallel.RunIndexed(len(targets), workers, func(idx int) fetchRes {
		b, err := r.Fetch(ctx, targets[idx], pattern)
		return fetchRes{idx: idx, batch: b, err: err}
	})
	sort.Slice(results, func(i, j int) bool { return results[i].idx < results[j].idx })

	var out Outcome
	for _, res := range results {
		if res.err != nil {
			var te *TargetError
			if !errors.As(res.err, &te) {
				te = &TargetError{Target: targets[res.idx], Kind: KindTransport, Err: res.err}
			}
			r.logFailure(te)
			out.Failures = append(out.Failures, te)
			continue
		}
		out.Batches = append(out.Batches, res.batch)
	}
	if ssr.CountRecords(out.Batches) == 0 {
		return out, ssr.ErrNoRecordsToProcess
	}
	return out, nil
}

// Fetch performs the request for a single target and returns its filtered
// batch. Errors are always *TargetError.
func (r *Retriever) Fetch(ctx context.Context, target environment.Target, pattern string) (ssr.Batch, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	req, err := r.newRequest(ctx, target)
	if err != nil {
		return ssr.Batch{}, &TargetError{Target: target, Kind: KindPrepare, Err: err}
	}

	start := time.Now()
	records, err := r.do(req)
	if err != nil {
		return ssr.Batch{}, &TargetError{Target: target, Kind: KindTransport, Err: err}
	}
	filtered := ssr.Filter(records, pattern)
	r.logger.Debug("retrieved records",
		"target", target.String(),
		"received", len(records),
		"kept", len(filtered),
		"elapsed", time.Since(start).String(),
	)
	return ssr.Batch{Target: target, Records: filtered}, nil
}

// newRequest builds a request from a freshly parsed copy of the base URL so
// no state is shared between targets.
func (r *Retriever) newRequest(ctx context.Context, target environment.Target) (*http.Request, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: %d", environment.ErrInvalidTarget, int(target))
	}
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url: %q", r.baseURL)
	}
	q := u.Query()
	q.Set(QueryParam, target.String())
	u.RawQuery = q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (r *Retriever) do(req *http.Request) ([]ssr.Record, error) {
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, StatusError{Code: resp.StatusCode, Status: resp.Status}
	}
	return decodeRecords(resp.Body)
}

func (r *Retriever) logFailure(e *TargetError) {
	msg := "failed to retrieve records"
	if e.Kind == KindPrepare {
		msg = "unable to prepare isolated request"
	}
	r.logger.Warn(msg, "target", e.Target.String(), "kind", string(e.Kind), "err", e.Err)
}
