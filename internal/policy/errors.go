package policy

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for policy failures.
var (
	// ErrNotFound indicates the configured policy id has no registered implementation.
	ErrNotFound = errors.New("version policy not found")

	// ErrParse indicates a policy could not parse the version it was given.
	ErrParse = errors.New("unable to parse version")
)

// NotFoundError reports an unknown policy id together with the registered ones
type NotFoundError struct {
	ID        string
	Available []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("policy '%s' is unknown, available: [%s]", e.ID, strings.Join(e.Available, ", "))
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ParseError reports a base version the policy cannot work with
type ParseError struct {
	Version string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("unable to parse version %q", e.Version)
	}
	return fmt.Sprintf("unable to parse version %q: %v", e.Version, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
