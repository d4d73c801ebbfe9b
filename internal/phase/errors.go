package phase

import (
	"errors"
	"fmt"
)

var (
	// ErrPromptFailed wraps failures of the prompter while asking for a version.
	ErrPromptFailed = errors.New("error reading version from input handler")

	// ErrTooManyAttempts is returned when the operator keeps entering versions
	// of the wrong kind.
	ErrTooManyAttempts = errors.New("too many invalid versions entered")
)

// InvalidVersionError reports a configured or suggested version whose
// snapshot-ness does not match the phase.
type InvalidVersionError struct {
	Version        string
	ExpectSnapshot bool
}

func (e *InvalidVersionError) Error() string {
	v := e.Version
	if v == "" {
		v = "empty version"
	}
	if e.ExpectSnapshot {
		return fmt.Sprintf("%s is invalid, expected a snapshot", v)
	}
	return fmt.Sprintf("%s is invalid, expected a non-snapshot", v)
}

// ExecutionError is the failure of a phase, naming the module being processed
type ExecutionError struct {
	Phase    string
	ModuleID string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.ModuleID == "" {
		return fmt.Sprintf("%s: %v", e.Phase, e.Err)
	}
	return fmt.Sprintf("%s: module %s: %v", e.Phase, e.ModuleID, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
