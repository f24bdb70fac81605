package config

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"github.com/flarebyte/ssr/internal/environment"
)

func requireStringField(v cue.Value, name string) error {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return fmt.Errorf("missing required field: %s", name)
	}
	if f.Kind() != cue.StringKind {
		return fmt.Errorf("invalid type for field: %s (expected string)", name)
	}
	return nil
}

// Minimal holds the validated subset of the config file.
type Minimal struct {
	ConfigVersion string
	Source        Source
	Where         Where
	Output        Output
	Workers       Workers
}

// ParseMinimal validates and extracts values from the CUE config at path.
func ParseMinimal(path string) (Minimal, error) {
	v, err := compileCUE(path)
	if err != nil {
		return Minimal{}, err
	}
	if err := requireStringField(v, "configVersion"); err != nil {
		return Minimal{}, err
	}
	var m Minimal
	if err := v.LookupPath(cue.ParsePath("configVersion")).Decode(&m.ConfigVersion); err != nil {
		return Minimal{}, fmt.Errorf("invalid value for configVersion: %v", err)
	}
	if !IsSupportedConfigVersion(m.ConfigVersion) {
		return Minimal{}, errors.New(unsupportedVersionMessage(m.ConfigVersion))
	}
	if err := checkSections(v, m.ConfigVersion); err != nil {
		return Minimal{}, err
	}
	if m.Source, err = parseSourceSection(v); err != nil {
		return Minimal{}, err
	}
	m.Where = parseWhereSection(v)
	if m.Output, err = parseOutputSection(v); err != nil {
		return Minimal{}, err
	}
	if m.Workers, err = parseWorkersSection(v); err != nil {
		return Minimal{}, err
	}
	return m, nil
}

// Source holds the registry location, targets and pattern.
type Source struct {
	URL             string
	Environments    []environment.Target
	Filter          string
	TimeoutMs       int
	HasURL          bool
	HasEnvironments bool
	HasFilter       bool
	HasTimeout      bool
}

// Where holds an optional Lua predicate applied to every source record.
type Where struct {
	Inline    string
	HasInline bool
}

// Output holds optional rendering settings.
type Output struct {
	Format    string
	Out       string
	Pretty    bool
	HasFormat bool
	HasOut    bool
	HasPretty bool
}

// Workers holds the optional request concurrency.
type Workers struct {
	Count    int
	HasCount bool
}
