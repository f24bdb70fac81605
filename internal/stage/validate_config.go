package stage

import (
	"context"

	"github.com/flarebyte/ssr/internal/config"
)

const validateConfigStage = "validate-config"

// ValidateConfig is the stage implementation for "validate-config". Values
// already present in meta (set from flags) take precedence over the file.
func ValidateConfig(ctx context.Context, in Envelope, deps Deps) (Envelope, error) {
	if in.Meta == nil || in.Meta.ConfigPath == "" {
		return Envelope{}, ErrMissingConfigPath{}
	}
	min, err := config.ParseMinimal(in.Meta.ConfigPath)
	if err != nil {
		return Envelope{}, err
	}
	out := in
	applyMinimalToMeta(&out, min)
	deps.logger().Debug("config loaded", "path", in.Meta.ConfigPath, "configVersion", min.ConfigVersion)
	return out, nil
}

// ErrMissingConfigPath is returned when validate-config runs without a path.
type ErrMissingConfigPath struct{}

func (ErrMissingConfigPath) Error() string { return "missing required meta.configPath" }

func applyMinimalToMeta(out *Envelope, min config.Minimal) {
	meta := ensureMeta(out)
	meta.Config = &ConfigMeta{ConfigVersion: min.ConfigVersion}
	meta.ConfigPath = "" // do not persist configPath in output

	applySourceMeta(meta, min.Source)
	applyLuaMeta(meta, min.Where)
	applyOutputMeta(meta, min.Output)
	if min.Workers.HasCount && meta.Workers == 0 && !meta.overridden(FieldWorkers) {
		meta.Workers = min.Workers.Count
	}
}

// fillable reports whether a config value may be written to field: it was
// not pinned by a flag and still holds the zero value.
func fillable(meta *Meta, field string, zero bool) bool {
	return zero && !meta.overridden(field)
}

func applySourceMeta(meta *Meta, s config.Source) {
	if meta.Source == nil {
		meta.Source = &SourceMeta{}
	}
	src := meta.Source
	if s.HasURL && fillable(meta, FieldSourceURL, src.URL == "") {
		src.URL = s.URL
	}
	if s.HasEnvironments && fillable(meta, FieldSourceTargets, len(src.Targets) == 0) {
		src.Targets = s.Environments
	}
	if s.HasFilter && fillable(meta, FieldSourceFilter, src.Filter == "") {
		src.Filter = s.Filter
	}
	if s.HasTimeout && fillable(meta, FieldSourceTimeout, src.TimeoutMs == 0) {
		src.TimeoutMs = s.TimeoutMs
	}
}

func applyLuaMeta(meta *Meta, w config.Where) {
	if !w.HasInline {
		return
	}
	if meta.Lua == nil {
		meta.Lua = &LuaMeta{}
	}
	if fillable(meta, FieldLuaWhere, meta.Lua.WhereInline == "") {
		meta.Lua.WhereInline = w.Inline
	}
}

func applyOutputMeta(meta *Meta, o config.Output) {
	if !o.HasFormat && !o.HasOut && !o.HasPretty {
		return
	}
	if meta.Output == nil {
		meta.Output = &OutputMeta{}
	}
	if o.HasFormat && fillable(meta, FieldOutputFormat, meta.Output.Format == "") {
		meta.Output.Format = o.Format
	}
	if o.HasOut && fillable(meta, FieldOutputOut, meta.Output.Out == "") {
		meta.Output.Out = o.Out
	}
	if o.HasPretty && fillable(meta, FieldOutputPretty, !meta.Output.Pretty) {
		meta.Output.Pretty = o.Pretty
	}
}

func init() { Register(validateConfigStage, ValidateConfig) }
