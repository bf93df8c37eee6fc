package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/dailyhabits/internal/logger"
)

var (
	// ErrInvalid marks caller mistakes: bad operation arguments, empty habit names.
	ErrInvalid = stderrors.New("invalid argument")
	// ErrNotFound marks lookups of things that are not registered, such as an unknown operation.
	ErrNotFound = stderrors.New("not found")
)

// Invalidf returns an error wrapping ErrInvalid
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// NotFoundf returns an error wrapping ErrNotFound
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// IsInvalid reports whether err was caused by invalid input
func IsInvalid(err error) bool {
	return stderrors.Is(err, ErrInvalid)
}

// IsNotFound reports whether err wraps ErrNotFound
func IsNotFound(err error) bool {
	return stderrors.Is(err, ErrNotFound)
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

// Fatalf formats a message, logs it and exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintln(os.Stderr, Formatf("%s", msg))
	os.Exit(1)
}
