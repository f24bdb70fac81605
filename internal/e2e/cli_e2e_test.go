package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/flarebyte/ssr/internal/ssr"
)

type runResult struct {
	code   int
	stdout []byte
	stderr []byte
}

func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found")
		}
		dir = parent
	}
}

func buildSSR(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := filepath.Join(t.TempDir(), "ssr")
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	cmd := exec.Command("go", "build", "-o", bin, "./cmd/ssr")
	cmd.Dir = moduleRoot(t)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("build failed: %v\n%s", err, string(out))
	}
	return bin
}

func runCmd(t *testing.T, bin string, args ...string) runResult {
	t.Helper()
	cmd := exec.Command(bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	code := 0
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok {
			code = ee.ExitCode()
		} else {
			code = -1
		}
	}
	return runResult{code: code, stdout: stdout.Bytes(), stderr: stderr.Bytes()}
}

func assertStable(t *testing.T, runs []runResult) {
	t.Helper()
	if len(runs) < 2 {
		t.Fatalf("need >=2 runs")
	}
	a := runs[0]
	for i, r := range runs[1:] {
		if r.code != a.code {
			t.Fatalf("exit code drift at run %d: %d vs %d", i+1, r.code, a.code)
		}
		if !bytes.Equal(r.stdout, a.stdout) {
			t.Fatalf("stdout drift at run %d", i+1)
		}
	}
}

// registry serves many keys per environment so consolidation has work to do.
func registry(t *testing.T, keys int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env := r.URL.Query().Get("env")
		if env == "uat" {
			http.Error(w, "maintenance", http.StatusServiceUnavailable)
			return
		}
		recs := make([]ssr.Record, 0, keys)
		for i := keys - 1; i >= 0; i-- {
			k := "svc-" + strconv.Itoa(i)
			recs = append(recs, ssr.Record{Name: k, Description: "service " + k, Key: k, URL: "https://" + env + ".example/" + k})
		}
		_ = json.NewEncoder(w).Encode(recs)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCLI_DeterministicAcrossRunsAndWorkers(t *testing.T) {
	bin := buildSSR(t)
	srv := registry(t, 40)
	var runs []runResult
	for _, workers := range []string{"1", "2", "4", "0", "4"} {
		runs = append(runs, runCmd(t, bin, "get", "-u", srv.URL, "--workers", workers))
	}
	assertStable(t, runs)
	if runs[0].code != 0 {
		t.Fatalf("unexpected exit %d: %s", runs[0].code, runs[0].stderr)
	}
	var results []ssr.Result
	if err := json.Unmarshal(runs[0].stdout, &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 40 || len(results[0].URLs) != 3 {
		t.Fatalf("unexpected results: %d keys, %d urls", len(results), len(results[0].URLs))
	}
	if !strings.Contains(string(runs[0].stderr), "target=uat") {
		t.Fatalf("missing uat warning: %s", runs[0].stderr)
	}
}

func TestCLI_ExitCodes(t *testing.T) {
	bin := buildSSR(t)
	srv := registry(t, 3)
	cases := []struct {
		name string
		args []string
		code int
	}{
		{"ok", []string{"get", "-u", srv.URL, "-e", "dev"}, 0},
		{"no records", []string{"get", "-u", srv.URL, "-f", "nomatch"}, 3},
		{"only failing env", []string{"get", "-u", srv.URL, "-e", "uat"}, 3},
		{"bad env", []string{"get", "-e", "staging"}, 2},
		{"bad flag", []string{"get", "--nope"}, 2},
		{"bad lua", []string{"get", "-u", srv.URL, "-e", "dev", "-w", "record.("}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := runCmd(t, bin, tc.args...)
			if r.code != tc.code {
				t.Fatalf("want exit %d, got %d (stderr: %s)", tc.code, r.code, r.stderr)
			}
			if tc.code != 0 {
				lines := strings.Split(strings.TrimRight(string(r.stderr), "\n"), "\n")
				last := lines[len(lines)-1]
				if last == "" || strings.Contains(last, "Usage:") {
					t.Fatalf("expected a single error line, got %q", r.stderr)
				}
			}
		})
	}
}
