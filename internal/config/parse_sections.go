package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"github.com/flarebyte/ssr/internal/environment"
)

// parseSourceSection extracts optional source.* fields.
func parseSourceSection(v cue.Value) (Source, error) {
	var s Source
	sv := v.LookupPath(cue.ParsePath("source"))
	if !sv.Exists() {
		return s, nil
	}
	uv := sv.LookupPath(cue.ParsePath("url"))
	if uv.Exists() {
		if uv.Kind() != cue.StringKind {
			return s, fmt.Errorf("invalid type for field: source.url (expected string)")
		}
		_ = uv.Decode(&s.URL)
		s.HasURL = true
	}
	ev := sv.LookupPath(cue.ParsePath("environments"))
	if ev.Exists() {
		var names []string
		if ev.Kind() != cue.ListKind || ev.Decode(&names) != nil {
			return s, fmt.Errorf("invalid type for field: source.environments (expected list of strings)")
		}
		targets, err := environment.ParseList(names)
		if err != nil {
			return s, fmt.Errorf("invalid value for source.environments: %w", err)
		}
		s.Environments = targets
		s.HasEnvironments = true
	}
	fv := sv.LookupPath(cue.ParsePath("filter"))
	if fv.Exists() && fv.Kind() == cue.StringKind {
		_ = fv.Decode(&s.Filter)
		s.HasFilter = true
	}
	tv := sv.LookupPath(cue.ParsePath("timeoutMs"))
	if tv.Exists() {
		if tv.Kind() != cue.IntKind {
			return s, fmt.Errorf("invalid type for field: source.timeoutMs (expected int)")
		}
		_ = tv.Decode(&s.TimeoutMs)
		if s.TimeoutMs < 0 {
			return s, fmt.Errorf("invalid value for source.timeoutMs: must be >= 0")
		}
		s.HasTimeout = true
	}
	return s, nil
}

// parseWhereSection extracts optional where.inline.
func parseWhereSection(v cue.Value) Where {
	var w Where
	wv := v.LookupPath(cue.ParsePath("where"))
	if !wv.Exists() {
		return w
	}
	iv := wv.LookupPath(cue.ParsePath("inline"))
	if iv.Exists() && iv.Kind() == cue.StringKind {
		if err := iv.Decode(&w.Inline); err == nil {
			w.HasInline = true
		}
	}
	return w
}

// parseOutputSection extracts optional output.* fields.
func parseOutputSection(v cue.Value) (Output, error) {
	var o Output
	ov := v.LookupPath(cue.ParsePath("output"))
	if !ov.Exists() {
		return o, nil
	}
	fv := ov.LookupPath(cue.ParsePath("format"))
	if fv.Exists() && fv.Kind() == cue.StringKind {
		_ = fv.Decode(&o.Format)
		switch o.Format {
		case "json", "yaml", "table":
		default:
			return o, fmt.Errorf("invalid value for output.format: %q", o.Format)
		}
		o.HasFormat = true
	}
	outv := ov.LookupPath(cue.ParsePath("out"))
	if outv.Exists() && outv.Kind() == cue.StringKind {
		_ = outv.Decode(&o.Out)
		o.HasOut = true
	}
	pv := ov.LookupPath(cue.ParsePath("pretty"))
	if pv.Exists() && pv.Kind() == cue.BoolKind {
		_ = pv.Decode(&o.Pretty)
		o.HasPretty = true
	}
	return o, nil
}

// parseWorkersSection extracts optional workers count.
func parseWorkersSection(v cue.Value) (Workers, error) {
	var w Workers
	wv := v.LookupPath(cue.ParsePath("workers"))
	if !wv.Exists() {
		return w, nil
	}
	if wv.Kind() != cue.IntKind {
		return w, fmt.Errorf("invalid type for field: workers (expected int)")
	}
	_ = wv.Decode(&w.Count)
	if w.Count < 1 {
		return w, fmt.Errorf("invalid value for workers: must be >= 1")
	}
	w.HasCount = true
	return w, nil
}
