package stage

import (
	"sort"
	"strings"
)

func sanitizeErrorMessage(msg string) string {
	s := strings.Join(strings.Fields(msg), " ")
	if s == "" {
		return "error"
	}
	return s
}

func sanitizedError(e Error) Error {
	e.Message = sanitizeErrorMessage(e.Message)
	return e
}

func appendSanitizedErrors(out *Envelope, envErrs []Error) {
	if len(envErrs) == 0 {
		return
	}
	for _, e := range envErrs {
		out.Errors = append(out.Errors, sanitizedError(e))
	}
	SortEnvelopeErrors(out)
}

// SortEnvelopeErrors sorts errors by (stage, target, message) deterministically.
func SortEnvelopeErrors(env *Envelope) {
	if env == nil || len(env.Errors) == 0 {
		return
	}
	sort.Slice(env.Errors, func(i, j int) bool {
		ei, ej := env.Errors[i], env.Errors[j]
		if ei.Stage != ej.Stage {
			return ei.Stage < ej.Stage
		}
		if ei.Target != ej.Target {
			return ei.Target < ej.Target
		}
		return ei.Message < ej.Message
	})
}
