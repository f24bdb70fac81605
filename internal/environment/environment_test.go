package environment

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParse_RoundTrip(t *testing.T) {
	for _, target := range All() {
		got, err := Parse(target.String())
		if err != nil {
			t.Fatalf("parse %s: %v", target, err)
		}
		if got != target {
			t.Fatalf("round trip mismatch: want %v got %v", target, got)
		}
	}
}

func TestParse_CaseAndSpace(t *testing.T) {
	cases := map[string]Target{
		"DEV":    Dev,
		" Qa ":   Qa,
		"uAt":    Uat,
		"prod\n": Prod,
	}
	for in, want := range cases {
		got, err := Parse(in)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %v got %v", in, want, got)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, in := range []string{"", "staging", "production", "d ev"} {
		_, err := Parse(in)
		if err == nil {
			t.Fatalf("expected error for %q", in)
		}
		if !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("expected ErrInvalidTarget for %q, got %v", in, err)
		}
	}
}

func TestString_Stable(t *testing.T) {
	want := []string{"dev", "qa", "uat", "prod"}
	for i, target := range All() {
		if target.String() != want[i] {
			t.Fatalf("want %s got %s", want[i], target.String())
		}
	}
	if Target(9).Valid() {
		t.Fatalf("Target(9) should be invalid")
	}
}

func TestParseList_StopsOnFirstInvalid(t *testing.T) {
	got, err := ParseList([]string{"dev", "qa"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != Dev || got[1] != Qa {
		t.Fatalf("unexpected targets: %v", got)
	}
	if _, err := ParseList([]string{"dev", "nope", "qa"}); !errors.Is(err, ErrInvalidTarget) {
		t.Fatalf("expected ErrInvalidTarget, got %v", err)
	}
	empty, err := ParseList(nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v %v", empty, err)
	}
}

func TestUnique_KeepsFirstOccurrence(t *testing.T) {
	got := Unique([]Target{Qa, Dev, Qa, Prod, Dev})
	want := []Target{Qa, Dev, Prod}
	if len(got) != len(want) {
		t.Fatalf("unexpected targets: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected targets: %v", got)
		}
	}
}

func TestJSON_MapKeysAndSlices(t *testing.T) {
	b, err := json.Marshal(map[Target]string{Qa: "q", Dev: "d"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"dev":"d","qa":"q"}` {
		t.Fatalf("unexpected json: %s", b)
	}
	var list []Target
	if err := json.Unmarshal([]byte(`["uat","PROD"]`), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 2 || list[0] != Uat || list[1] != Prod {
		t.Fatalf("unexpected list: %v", list)
	}
	if err := json.Unmarshal([]byte(`["stage"]`), &list); err == nil {
		t.Fatalf("expected error for unknown target")
	}
}
