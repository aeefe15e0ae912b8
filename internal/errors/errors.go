package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/worktrack/internal/logger"
)

var (
	// ErrValidation is returned when user input fails validation (e.g. empty entry text)
	ErrValidation = stderrors.New("validation failed")
	// ErrMalformedData is returned when a persisted file does not parse
	ErrMalformedData = stderrors.New("malformed data")
	// ErrRestoreFormat is returned when a backup file has no recognizable entries array
	ErrRestoreFormat = stderrors.New("unrecognized backup format")
)

// IOError wraps a failed file operation with the operation name and path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError returns nil when err is nil.
func NewIOError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

// Validationf returns an error wrapping ErrValidation
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// RestoreFormatf returns an error wrapping ErrRestoreFormat
func RestoreFormatf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrRestoreFormat, fmt.Sprintf(format, args...))
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
