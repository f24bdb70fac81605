// Package ssr holds the service-registry record model, the pattern filter and
// the consolidation of per-environment batches into one entry per key.
package ssr

import (
	"errors"
	"sort"
	"strings"

	"github.com/flarebyte/ssr/internal/environment"
)

// ErrNoRecordsToProcess is reported when nothing survives retrieval and
// filtering.
var ErrNoRecordsToProcess = errors.New("no records to process")

// Record is one entry returned by the registry endpoint.
type Record struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Key         string `json:"key"`
	URL         string `json:"url"`
}

// Batch pairs a target with the records returned for it, in response order.
type Batch struct {
	Target  environment.Target `json:"target"`
	Records []Record           `json:"records"`
}

// Result is one consolidated entry per key. Name and description come from
// the first record seen with that key.
type Result struct {
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Key         string                        `json:"key"`
	URLs        map[environment.Target]string `json:"url"`
}

// URL returns the location recorded for t and whether one exists.
func (r Result) URL(t environment.Target) (string, bool) {
	u, ok := r.URLs[t]
	return u, ok
}

// Targets returns the environments with a recorded URL, in declaration order.
func (r Result) Targets() []environment.Target {
	out := make([]environment.Target, 0, len(r.URLs))
	for _, t := range environment.All() {
		if _, ok := r.URLs[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether r passes the case-insensitive pattern. An empty
// pattern matches everything; the URL is never considered.
func Matches(r Record, pattern string) bool {
	if pattern == "" {
		return true
	}
	p := strings.ToLower(pattern)
	return strings.Contains(strings.ToLower(r.Name), p) ||
		strings.Contains(strings.ToLower(r.Description), p) ||
		strings.Contains(strings.ToLower(r.Key), p)
}

// Filter returns the records matching pattern, preserving order.
func Filter(records []Record, pattern string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if Matches(r, pattern) {
			out = append(out, r)
		}
	}
	return out
}

// CountRecords returns the total number of records across batches.
func CountRecords(batches []Batch) int {
	n := 0
	for _, b := range batches {
		n += len(b.Records)
	}
	return n
}

// Consolidate folds batches into one Result per key, sorted by key. Within a
// target, a later record with the same key overwrites the earlier URL.
// When no records are supplied it returns an empty list and
// ErrNoRecordsToProcess.
func Consolidate(batches []Batch) ([]Result, error) {
	byKey := make(map[string]*Result)
	for _, b := range batches {
		for _, rec := range b.Records {
			res, ok := byKey[rec.Key]
			if !ok {
				res = &Result{
					Name:        rec.Name,
					Description: rec.Description,
					Key:         rec.Key,
					URLs:        map[environment.Target]string{},
				}
				byKey[rec.Key] = res
			}
			res.URLs[b.Target] = rec.URL
		}
	}

	out := make([]Result, 0, len(byKey))
	for _, res := range byKey {
		out = append(out, *res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	if len(out) == 0 {
		return out, ErrNoRecordsToProcess
	}
	return out, nil
}
