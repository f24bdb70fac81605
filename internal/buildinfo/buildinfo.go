// Package buildinfo exposes version metadata for the ssr binary. Values can be
// overridden with -ldflags; the cli package values are used as fallbacks.
package buildinfo

import (
	"strings"

	"github.com/flarebyte/ssr/cli"
)

var (
	// Version defaults to cli.Version, then "dev".
	Version = "dev"
	Commit  = ""
	// Date falls back to cli.Date.
	Date    = ""
	BuiltBy = ""
)

// Summary returns a concise single-line version string.
func Summary() string {
	v := Version
	if v == "" {
		v = cli.Version
	}
	if v == "" {
		v = "dev"
	}

	d := Date
	if d == "" {
		d = cli.Date
	}

	parts := make([]string, 0, 2)
	if Commit != "" {
		c := Commit
		if len(c) > 7 {
			c = c[:7]
		}
		parts = append(parts, "commit="+c)
	}
	if d != "" {
		parts = append(parts, "date="+d)
	}
	if len(parts) > 0 {
		v += " (" + strings.Join(parts, ", ") + ")"
	}
	return v
}
