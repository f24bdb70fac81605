package buildinfo

import (
	"testing"

	"github.com/flarebyte/ssr/cli"
)

func TestSummary(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	oldCliV, oldCliD := cli.Version, cli.Date
	defer func() {
		Version, Commit, Date = oldV, oldC, oldD
		cli.Version, cli.Date = oldCliV, oldCliD
	}()

	cases := []struct {
		name                 string
		version, commit, dat string
		cliVersion, cliDate  string
		want                 string
	}{
		{"defaults", "", "", "", "", "", "dev"},
		{"cli fallback", "", "", "", "0.3.0", "2026-10-17", "0.3.0 (date=2026-10-17)"},
		{"short commit", "1.0.0", "0123456789abcdef", "", "", "", "1.0.0 (commit=0123456)"},
		{"explicit wins", "1.1.0", "abc", "2026-01-02", "9.9.9", "1999-01-01", "1.1.0 (commit=abc, date=2026-01-02)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			Version, Commit, Date = tc.version, tc.commit, tc.dat
			cli.Version, cli.Date = tc.cliVersion, tc.cliDate
			if got := Summary(); got != tc.want {
				t.Fatalf("Summary() = %q, want %q", got, tc.want)
			}
		})
	}
}
