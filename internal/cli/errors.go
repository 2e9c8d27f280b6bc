package cli

import (
	"errors"
	"fmt"
)

// Process exit statuses.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Unexpected failure
	ExitCommandError = 2 // Usage, unreadable input, parse, write or store failure
)

// Error codes reported to the user.
const (
	ErrCodeGeneric      = "E001" // Unexpected internal failure
	ErrCodeNotFound     = "E005" // Input file missing or unreadable
	ErrCodeWriteFailed  = "E007" // Output or metrics file write error
	ErrCodeParseFailed  = "E008" // RDF document could not be parsed
	ErrCodeUsage        = "E009" // Missing or malformed arguments
	ErrCodeConfig       = "E010" // Configuration could not be loaded
	ErrCodeStore        = "E011" // Index store failure
	ErrCodeInvalidQuery = "E012" // Search filters rejected
)

// ExitError is what a command returns when it fails. Status becomes the
// process exit status; Code and Message are what the user was shown.
type ExitError struct {
	Status  int
	Code    string
	Message string
	Err     error // cause, if any
}

func (e *ExitError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// commandError builds an ExitError with ExitCommandError status.
func commandError(code, message string, cause error) *ExitError {
	return &ExitError{Status: ExitCommandError, Code: code, Message: message, Err: cause}
}

// ExitStatus maps an error returned by a command to a process exit status.
// nil is success, an *ExitError anywhere in the chain supplies its own
// status, anything else is ExitFailure.
func ExitStatus(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status
	}
	return ExitFailure
}
