// Package environment defines the closed set of deployment targets the
// registry is queried against.
package environment

import (
	"errors"
	"fmt"
	"strings"
)

// Target is one of the four fixed deployment environments.
type Target int

const (
	Dev Target = iota
	Qa
	Uat
	Prod
)

// ErrInvalidTarget is returned when a string names no known environment.
var ErrInvalidTarget = errors.New("invalid environment")

var names = [...]string{
	Dev:  "dev",
	Qa:   "qa",
	Uat:  "uat",
	Prod: "prod",
}

// All returns every target in declaration order.
func All() []Target {
	return []Target{Dev, Qa, Uat, Prod}
}

// Names returns the serialized form of every target, in declaration order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names[:])
	return out
}

// Valid reports whether t is one of the declared targets.
func (t Target) Valid() bool {
	return t >= Dev && t <= Prod
}

func (t Target) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Target(%d)", int(t))
	}
	return names[t]
}

// Parse converts s into a Target. Matching ignores case and surrounding space.
func Parse(s string) (Target, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if v == n {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (expected one of: %s)", ErrInvalidTarget, s, strings.Join(names[:], ", "))
}

// ParseList parses every value in order and fails on the first invalid one.
func ParseList(values []string) ([]Target, error) {
	out := make([]Target, 0, len(values))
	for _, v := range values {
		t, err := Parse(v)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Unique drops repeated targets, keeping first occurrences in order.
func Unique(targets []Target) []Target {
	seen := make(map[Target]bool, len(targets))
	out := make([]Target, 0, len(targets))
	for _, t := range targets {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// MarshalText implements encoding.TextMarshaler.
func (t Target) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTarget, int(t))
	}
	return []byte(names[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Target) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
