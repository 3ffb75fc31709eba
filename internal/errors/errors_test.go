package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "simple error", err: errors.New("habit not found"), expected: "Error: habit not found"},
		{name: "usage error", err: Usage(errors.New("unexpected argument foo")), expected: "Error: unexpected argument foo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Format(tt.err); result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	sentinel := errors.New("not enough coins")
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: ExitOK},
		{name: "plain", err: sentinel, want: ExitFailure},
		{name: "usage", err: Usage(sentinel), want: ExitUsage},
		{name: "wrapped usage", err: fmt.Errorf("parse: %w", Usage(sentinel)), want: ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestUsage(t *testing.T) {
	if Usage(nil) != nil {
		t.Error("Usage(nil) should be nil")
	}
	sentinel := errors.New("bad flag")
	if err := Usage(sentinel); !errors.Is(err, sentinel) {
		t.Errorf("Usage should wrap its cause, got %v", err)
	}
}

// runFatal re-runs the named test in a child process with env set and
// returns the exit code and stderr.
func runFatal(t *testing.T, name, env string) (int, string) {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run="+name+"$")
	cmd.Env = append(os.Environ(), env+"=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), stderr.String()
	}
	if err != nil {
		t.Fatalf("failed to run child process: %v", err)
	}
	return 0, stderr.String()
}

func TestFatal(t *testing.T) {
	if os.Getenv("STAMPET_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}
	code, stderr := runFatal(t, "TestFatal", "STAMPET_TEST_FATAL")
	if code != ExitFailure {
		t.Errorf("Fatal() exit code = %d, want %d", code, ExitFailure)
	}
	if !strings.Contains(stderr, "Error: test error") {
		t.Errorf("Fatal() stderr = %q, want to contain %q", stderr, "Error: test error")
	}
}

func TestFatal_Usage(t *testing.T) {
	if os.Getenv("STAMPET_TEST_FATAL_USAGE") == "1" {
		Fatal(Usage(errors.New("unknown command")))
		return
	}
	if code, _ := runFatal(t, "TestFatal_Usage", "STAMPET_TEST_FATAL_USAGE"); code != ExitUsage {
		t.Errorf("Fatal() exit code = %d, want %d", code, ExitUsage)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("STAMPET_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}
	if code, _ := runFatal(t, "TestFatal_NilError", "STAMPET_TEST_FATAL_NIL"); code != 0 {
		t.Errorf("Fatal(nil) should not exit, got code %d", code)
	}
}
