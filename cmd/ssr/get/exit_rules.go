package get

import (
	"errors"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
)

const (
	exitCodeSuccess   = 0
	exitCodeExecErr   = 1
	exitCodeUsage     = 2
	exitCodeNoRecords = 3
)

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string { return e.err.Error() }
func (e exitError) ExitCode() int { return e.code }
func (e exitError) Unwrap() error { return e.err }

// UsageError marks err as caused by invalid input (flags, environments, config).
func UsageError(err error) error {
	if err == nil {
		return nil
	}
	var ee exitError
	if errors.As(err, &ee) {
		return err
	}
	return exitError{code: exitCodeUsage, err: err}
}

// Classify maps a command error to the exit code reported by main.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ee exitError
	if errors.As(err, &ee) {
		if _, ok := err.(exitError); ok {
			return err
		}
		return exitError{code: ee.code, err: err}
	}
	switch {
	case errors.Is(err, ssr.ErrNoRecordsToProcess):
		return exitError{code: exitCodeNoRecords, err: err}
	case errors.Is(err, environment.ErrInvalidTarget):
		return exitError{code: exitCodeUsage, err: err}
	default:
		return exitError{code: exitCodeExecErr, err: err}
	}
}
