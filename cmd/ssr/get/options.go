package get

import (
	"fmt"
	"net/http"
	"time"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/logging"
	"github.com/flarebyte/ssr/internal/render"
	"github.com/flarebyte/ssr/internal/retriever"
	"github.com/flarebyte/ssr/internal/stage"
	"github.com/spf13/cobra"
)

// Options holds the flags shared by `ssr get` and `ssr diagnose`.
type Options struct {
	URL      string
	Envs     []string
	Filter   string
	Where    string
	Output   string
	Out      string
	Pretty   bool
	Config   string
	Timeout  time.Duration
	Workers  int
	Verbose  bool
	Progress bool
}

// Bind registers the source, filter and output flags on cmd.
func (o *Options) Bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.URL, "url", "u", retriever.DefaultURL, "Registry base URL")
	f.StringSliceVarP(&o.Envs, "env", "e", nil, "Environments to query (dev|qa|uat|prod); repeat or comma-separate, default all")
	f.StringVarP(&o.Filter, "filter", "f", "", "Case-insensitive substring matched against name, description or key")
	f.StringVarP(&o.Where, "where", "w", "", "Lua predicate over the record and env globals")
	f.StringVarP(&o.Output, "output", "o", render.FormatJSON, "Output format: json|yaml|table")
	f.StringVar(&o.Out, "out", "-", "Output path ('-' for stdout)")
	f.BoolVar(&o.Pretty, "pretty", false, "Indent JSON output")
	f.StringVarP(&o.Config, "config", "c", "", "Path to config file (.cue)")
	f.DurationVar(&o.Timeout, "timeout", 0, "Per-request timeout (0 disables)")
	f.IntVar(&o.Workers, "workers", 0, "Maximum concurrent requests (0 means one per environment)")
	f.BoolVarP(&o.Verbose, "verbose", "v", false, "Log debug diagnostics to stderr")
	f.BoolVar(&o.Progress, "progress", false, "Report stage progress on stderr")
}

// Envelope builds the initial pipeline input. Only flags set explicitly are
// copied so that config file values can fill the rest.
func (o *Options) Envelope(cmd *cobra.Command) (stage.Envelope, error) {
	changed := cmd.Flags().Changed
	meta := &stage.Meta{ConfigPath: o.Config, Source: &stage.SourceMeta{}}

	if changed("url") {
		meta.Source.URL = o.URL
		meta.Override(stage.FieldSourceURL)
	}
	if changed("env") {
		targets, err := environment.ParseList(o.Envs)
		if err != nil {
			return stage.Envelope{}, UsageError(err)
		}
		meta.Source.Targets = environment.Unique(targets)
		meta.Override(stage.FieldSourceTargets)
	}
	if changed("filter") {
		meta.Source.Filter = o.Filter
		meta.Override(stage.FieldSourceFilter)
	}
	if changed("timeout") {
		if o.Timeout < 0 {
			return stage.Envelope{}, UsageError(fmt.Errorf("invalid --timeout: %s", o.Timeout))
		}
		meta.Source.TimeoutMs = int(o.Timeout / time.Millisecond)
		meta.Override(stage.FieldSourceTimeout)
	}
	if changed("workers") {
		if o.Workers < 0 {
			return stage.Envelope{}, UsageError(fmt.Errorf("invalid --workers: %d", o.Workers))
		}
		meta.Workers = o.Workers
		meta.Override(stage.FieldWorkers)
	}
	if changed("where") {
		meta.Lua = &stage.LuaMeta{WhereInline: o.Where}
		meta.Override(stage.FieldLuaWhere)
	}
	if changed("output") || changed("out") || changed("pretty") {
		meta.Output = &stage.OutputMeta{Pretty: o.Pretty}
		if changed("output") {
			if !render.ValidFormat(o.Output) {
				return stage.Envelope{}, UsageError(fmt.Errorf("invalid --output: %q (expected json|yaml|table)", o.Output))
			}
			meta.Output.Format = o.Output
			meta.Override(stage.FieldOutputFormat)
		}
		if changed("out") {
			meta.Output.Out = o.Out
			meta.Override(stage.FieldOutputOut)
		}
		if changed("pretty") {
			meta.Override(stage.FieldOutputPretty)
		}
	}
	return stage.Envelope{Meta: meta}, nil
}

// Deps wires the HTTP client, logger and stdout used by stages.
func (o *Options) Deps(cmd *cobra.Command) stage.Deps {
	return stage.Deps{
		HTTPClient: &http.Client{},
		Logger:     logging.New(cmd.ErrOrStderr(), o.Verbose),
		Stdout:     cmd.OutOrStdout(),
	}
}
