package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/stampet/internal/logger"
)

// Process exit codes
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// Usage marks err as a command-line usage mistake
func Usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// IsUsage reports whether err, or anything it wraps, came from Usage
func IsUsage(err error) bool {
	var u *usageError
	return stderrors.As(err, &u)
}

// ExitCode maps err to the code the process should exit with
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsUsage(err):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// Format renders err for the terminal with an "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs err, prints it to stderr and exits with ExitCode(err).
// A nil err is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	if IsUsage(err) {
		logger.Debug("Invalid command line", "error", err)
	} else {
		logger.Error("Command execution failed", "error", err)
	}
	logger.Flush()
	fmt.Fprintln(os.Stderr, Format(err))
	os.Exit(ExitCode(err))
}
