package checker

import (
	"errors"
	"fmt"
)

var (
	// Configuration errors. They are shown to the user and abort the pass.
	ErrInterpreterNotFound = errors.New("python interpreter is not found")
	ErrScriptNotFound      = errors.New("sorry, can't find correct plugin path")

	ErrCheckerFailed  = errors.New("checker failed")
	ErrCheckerTimeout = errors.New("checker timed out")
	ErrParseOutput    = errors.New("failed to parse checker output")
)

// Error describes a failed checker process.
type Error struct {
	Command string
	Err     error
	Output  string
}

func (e *Error) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err should be surfaced as a blocking
// message rather than logged.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInterpreterNotFound) || errors.Is(err, ErrScriptNotFound)
}
