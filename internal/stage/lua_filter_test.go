package stage

import (
	"context"
	"strings"
	"testing"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
)

func luaEnvelope(where string) Envelope {
	return Envelope{
		Batches: []ssr.Batch{
			{Target: environment.Dev, Records: []ssr.Record{
				{Name: "a", Key: "a", URL: "https://dev/a"},
				{Name: "b", Key: "b", URL: "https://internal/b"},
			}},
			{Target: environment.Prod, Records: []ssr.Record{
				{Name: "a", Key: "a", URL: "https://prod/a"},
			}},
		},
		Meta: &Meta{Lua: &LuaMeta{WhereInline: where}, Stats: &StatsMeta{Records: 3}},
	}
}

func TestLuaFilter_ExpressionOverRecordAndEnv(t *testing.T) {
	out, err := Run(context.Background(), "lua-filter", luaEnvelope(`env ~= "prod" and not string.find(record.url, "internal", 1, true)`), Deps{})
	if err != nil {
		t.Fatalf("lua-filter: %v", err)
	}
	if len(out.Batches) != 2 {
		t.Fatalf("batches must be kept: %+v", out.Batches)
	}
	if len(out.Batches[0].Records) != 1 || out.Batches[0].Records[0].Key != "a" {
		t.Fatalf("unexpected dev records: %+v", out.Batches[0].Records)
	}
	if len(out.Batches[1].Records) != 0 {
		t.Fatalf("prod records should be dropped: %+v", out.Batches[1].Records)
	}
	if out.Meta.Stats.Filtered != 2 || out.Meta.Stats.Records != 1 {
		t.Fatalf("unexpected stats: %+v", out.Meta.Stats)
	}
}

func TestLuaFilter_ExplicitReturnAndNilIsFalse(t *testing.T) {
	out, err := Run(context.Background(), "lua-filter", luaEnvelope(`if record.key == "b" then return true end`), Deps{})
	if err != nil {
		t.Fatalf("lua-filter: %v", err)
	}
	if ssr.CountRecords(out.Batches) != 1 || out.Batches[0].Records[0].Key != "b" {
		t.Fatalf("unexpected records: %+v", out.Batches)
	}
}

func TestLuaFilter_NoPredicateIsNoop(t *testing.T) {
	in := luaEnvelope("")
	out, err := Run(context.Background(), "lua-filter", in, Deps{})
	if err != nil {
		t.Fatalf("lua-filter: %v", err)
	}
	if ssr.CountRecords(out.Batches) != 3 {
		t.Fatalf("records changed without predicate")
	}
}

func TestLuaFilter_ErrorsAreFatal(t *testing.T) {
	for _, where := range []string{`record.missing.field`, `return (`, `dofile("/etc/passwd")`} {
		_, err := Run(context.Background(), "lua-filter", luaEnvelope(where), Deps{})
		if err == nil || !strings.HasPrefix(err.Error(), "lua-filter:") {
			t.Fatalf("%q: expected lua-filter error, got %v", where, err)
		}
	}
}

func TestLuaFilter_TimeoutStopsRunawayScripts(t *testing.T) {
	in := luaEnvelope(`return (function() while true do end end)()`)
	in.Meta.Lua.TimeoutMs = 50
	_, err := Run(context.Background(), "lua-filter", in, Deps{})
	if err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestBuildLuaPredicate(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"", "return true"},
		{`record.key == "returns-api"`, `return (record.key == "returns-api")`},
		{`record.returned ~= nil`, `return (record.returned ~= nil)`},
		{`  return record.key == "a"  `, `return record.key == "a"`},
		{`if env == "qa" then return true end`, `if env == "qa" then return true end`},
	}
	for _, tc := range cases {
		if got := buildLuaPredicate(tc.code); got != tc.want {
			t.Fatalf("buildLuaPredicate(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestLuaFilter_ReturnInsideLiteralIsAnExpression(t *testing.T) {
	in := luaEnvelope(`record.key == "returns-api" or record.key == "a"`)
	out, err := Run(context.Background(), "lua-filter", in, Deps{})
	if err != nil {
		t.Fatalf("lua-filter: %v", err)
	}
	if ssr.CountRecords(out.Batches) != 2 {
		t.Fatalf("unexpected records: %+v", out.Batches)
	}
}
