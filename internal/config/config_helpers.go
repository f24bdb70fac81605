package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// compileCUE reads and compiles the ssr config at path. Compile errors are
// reported against the file's base name.
func compileCUE(path string) (cue.Value, error) {
	if filepath.Ext(path) != ".cue" {
		return cue.Value{}, errors.New("unsupported config format: expected .cue")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}
	v := cuecontext.New().CompileBytes(src, cue.Filename(filepath.Base(path)))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid config: %v", err)
	}
	return v, nil
}

// checkSections rejects top-level fields that version does not define, so a
// misspelt section such as `sources` fails instead of being ignored.
func checkSections(v cue.Value, version string) error {
	allowed := configSections[version]
	it, err := v.Fields()
	if err != nil {
		return fmt.Errorf("invalid config: %v", err)
	}
	for it.Next() {
		name := it.Selector().String()
		if !slices.Contains(allowed, name) {
			return fmt.Errorf("unknown config section: %s (expected one of: %s)", name, strings.Join(allowed, ", "))
		}
	}
	return nil
}
