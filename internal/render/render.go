// Package render writes consolidated results as JSON, YAML or a text table.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
)

const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatTable}

// Options tune rendering.
type Options struct {
	// Pretty indents JSON output.
	Pretty bool
	// Targets selects the environment columns of the table format.
	// Empty means all environments.
	Targets []environment.Target
}

// ValidFormat reports whether name is a supported format.
func ValidFormat(name string) bool {
	for _, f := range Formats {
		if f == name {
			return true
		}
	}
	return false
}

// Write renders results to w in the named format. An empty format is JSON.
func Write(w io.Writer, format string, results []ssr.Result, opts Options) error {
	var data []byte
	var err error
	switch strings.ToLower(format) {
	case "", FormatJSON:
		if opts.Pretty {
			data, err = encodeJSONPretty(nonNil(results))
		} else {
			data, err = encodeJSONCompact(nonNil(results))
		}
	case FormatYAML:
		data, err = MarshalYAML(results)
	case FormatTable:
		data = []byte(Table(results, opts.Targets))
	default:
		return fmt.Errorf("unsupported output format: %q (supported: %s)", format, strings.Join(Formats, ", "))
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func nonNil(results []ssr.Result) []ssr.Result {
	if results == nil {
		return []ssr.Result{}
	}
	return results
}

func encodeJSONCompact(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeJSONPretty(v any) ([]byte, error) {
	b, err := encodeJSONCompact(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, bytes.TrimRight(b, "\n"), "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
