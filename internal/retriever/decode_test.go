package retriever

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeRecords(t *testing.T) {
	const one = `[{"name":"n","description":"d","key":"k","url":"u","extra":1}]`
	cases := []struct {
		name    string
		body    string
		want    int
		wantErr string
	}{
		{"array", one, 1, ""},
		{"trailing whitespace", one + "\n\t ", 1, ""},
		{"empty array", `[]`, 0, ""},
		{"trailing garbage", one + ` trailing-garbage`, 0, "unexpected data after JSON array"},
		{"second array", one + one, 0, "unexpected data after JSON array"},
		{"null", `null`, 0, "response is not a JSON array"},
		{"object", `{"name":"n"}`, 0, "decode response"},
		{"missing key", `[{"name":"n","description":"d","url":"u"}]`, 0, "missing field: key"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := decodeRecords(strings.NewReader(tc.body))
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("want error containing %q, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tc.want {
				t.Fatalf("want %d records, got %d", tc.want, len(got))
			}
		})
	}
	if _, err := decodeRecords(strings.NewReader(one + "x")); !errors.Is(err, errTrailingData) {
		t.Fatalf("trailing data should wrap errTrailingData, got %v", err)
	}
}
