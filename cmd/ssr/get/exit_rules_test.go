package get

import (
	"errors"
	"fmt"
	"testing"

	"github.com/flarebyte/ssr/internal/environment"
	"github.com/flarebyte/ssr/internal/ssr"
)

func assertExitError(t *testing.T, err error, wantMsg string, wantCode int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error")
	}
	if err.Error() != wantMsg {
		t.Fatalf("unexpected error: %v", err)
	}
	ec, ok := err.(interface{ ExitCode() int })
	if !ok || ec.ExitCode() != wantCode {
		t.Fatalf("unexpected exit code for %v", err)
	}
}

func TestClassify_Success(t *testing.T) {
	if err := Classify(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClassify_NoRecords(t *testing.T) {
	err := Classify(ssr.ErrNoRecordsToProcess)
	assertExitError(t, err, "no records to process", exitCodeNoRecords)
	if !errors.Is(err, ssr.ErrNoRecordsToProcess) {
		t.Fatalf("sentinel lost")
	}
}

func TestClassify_InvalidEnvironmentIsUsage(t *testing.T) {
	_, perr := environment.Parse("staging")
	assertExitError(t, Classify(perr), perr.Error(), exitCodeUsage)
}

func TestClassify_ExecutionError(t *testing.T) {
	assertExitError(t, Classify(fmt.Errorf("write-output: disk full")), "write-output: disk full", exitCodeExecErr)
}

func TestClassify_KeepsExplicitUsage(t *testing.T) {
	err := Classify(UsageError(errors.New("invalid config: bad")))
	assertExitError(t, err, "invalid config: bad", exitCodeUsage)
	if UsageError(nil) != nil {
		t.Fatalf("UsageError(nil) must be nil")
	}
}

func TestClassify_WrappedUsageKeepsCodeAndMessage(t *testing.T) {
	err := Classify(fmt.Errorf("diagnose: %w", UsageError(errors.New("bad flag"))))
	assertExitError(t, err, "diagnose: bad flag", exitCodeUsage)
}
