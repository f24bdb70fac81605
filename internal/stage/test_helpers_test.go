package stage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/flarebyte/ssr/internal/ssr"
)

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func normalizeJSON(t *testing.T, b []byte) []byte {
	t.Helper()
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

// registryServer answers per env with the given records; envs missing from
// the map fail with 502.
func registryServer(t *testing.T, byEnv map[string][]ssr.Record) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recs, ok := byEnv[r.URL.Query().Get("env")]
		if !ok {
			http.Error(w, "unavailable", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(recs)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func runAll(t *testing.T, in Envelope, deps Deps, stages ...string) (Envelope, error) {
	t.Helper()
	out := in
	var err error
	for _, name := range stages {
		out, err = Run(context.Background(), name, out, deps)
		if err != nil {
			return Envelope{}, err
		}
	}
	return out, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}
