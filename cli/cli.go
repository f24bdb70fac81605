// Package cli holds link-time version values for external build scripts:
//
//	-ldflags "-X 'github.com/flarebyte/ssr/cli.Version=1.2.3' -X 'github.com/flarebyte/ssr/cli.Date=2026-10-17'"
package cli

var (
	Version string
	Date    string
)
