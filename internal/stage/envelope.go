package stage

import (
	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
)

// ContractVersion is stamped on every envelope written out.
const ContractVersion = "1"

// Error is an envelope-level diagnostic. Target is empty for errors not tied
// to one environment.
type Error struct {
	Stage   string `json:"stage"`
	Target  string `json:"target,omitempty"`
	Message string `json:"message"`
}

// ConfigMeta holds validated config essentials.
type ConfigMeta struct {
	ConfigVersion string `json:"configVersion"`
}

// SourceMeta describes what to query.
type SourceMeta struct {
	URL       string               `json:"url,omitempty"`
	Targets   []environment.Target `json:"targets,omitempty"`
	Filter    string               `json:"filter,omitempty"`
	TimeoutMs int                  `json:"timeoutMs,omitempty"`
}

// LuaMeta holds the optional record predicate.
type LuaMeta struct {
	WhereInline string `json:"whereInline,omitempty"`
	TimeoutMs   int    `json:"timeoutMs,omitempty"`
}

// OutputMeta holds rendering settings for write-output.
type OutputMeta struct {
	Format string `json:"format,omitempty"`
	Out    string `json:"out,omitempty"`
	Pretty bool   `json:"pretty,omitempty"`
}

// StatsMeta summarises retrieval.
type StatsMeta struct {
	Requested int `json:"requested"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Records   int `json:"records"`
	Filtered  int `json:"filtered,omitempty"`
}

// Meta holds optional metadata with deterministic JSON field order.
type Meta struct {
	ContractVersion string      `json:"contractVersion,omitempty"`
	Stage           string      `json:"stage,omitempty"`
	ConfigPath      string      `json:"configPath,omitempty"`
	Config          *ConfigMeta `json:"config,omitempty"`
	Source          *SourceMeta `json:"source,omitempty"`
	Lua             *LuaMeta    `json:"lua,omitempty"`
	Output          *OutputMeta `json:"output,omitempty"`
	Workers         int         `json:"workers,omitempty"`
	Overrides       []string    `json:"overrides,omitempty"`
	Stats           *StatsMeta  `json:"stats,omitempty"`
}

// Envelope is the JSON-serializable contract between stages.
// Field order is stable to keep JSON deterministic in tests.
type Envelope struct {
	Batches []ssr.Batch  `json:"batches,omitempty"`
	Records []ssr.Result `json:"records"`
	Meta    *Meta        `json:"meta,omitempty"`
	Errors  []Error      `json:"errors,omitempty"`
}

func ensureMeta(env *Envelope) *Meta {
	if env.Meta == nil {
		env.Meta = &Meta{}
	}
	return env.Meta
}

// Meta fields that can be pinned by Overrides.
const (
	FieldSourceURL     = "source.url"
	FieldSourceTargets = "source.targets"
	FieldSourceFilter  = "source.filter"
	FieldSourceTimeout = "source.timeoutMs"
	FieldLuaWhere      = "lua.whereInline"
	FieldOutputFormat  = "output.format"
	FieldOutputOut     = "output.out"
	FieldOutputPretty  = "output.pretty"
	FieldWorkers       = "workers"
)

// Override marks field as set explicitly so config values never replace it,
// even when it holds the zero value.
func (m *Meta) Override(field string) {
	if !m.overridden(field) {
		m.Overrides = append(m.Overrides, field)
	}
}

func (m *Meta) overridden(field string) bool {
	for _, f := range m.Overrides {
		if f == field {
			return true
		}
	}
	return false
}

func sourceFromMeta(meta *Meta) SourceMeta {
	if meta == nil || meta.Source == nil {
		return SourceMeta{}
	}
	return *meta.Source
}

func workersFromMeta(meta *Meta) int {
	if meta == nil {
		return 0
	}
	return meta.Workers
}
