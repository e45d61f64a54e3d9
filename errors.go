package options

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by cells, the facade, and the registry. Callers
// match them with errors.Is; wrapped messages carry the option identity.
var (
	// ErrInvalidArgument reports a construction-time invariant violation,
	// such as a validated cell whose initial value fails its own predicate.
	ErrInvalidArgument = errors.New("options: invalid argument")

	// ErrValidationFailed reports a rejected mutation. The stored value is
	// unchanged whenever this error is returned.
	ErrValidationFailed = errors.New("options: validation failed")

	// ErrInvalidOperation reports a UI-binding invariant violation:
	// attaching a control to an internal option, or forcing an option
	// internal while a control is still attached.
	ErrInvalidOperation = errors.New("options: invalid operation")

	// ErrOutOfRange reports an index past the end of a multichoice list.
	ErrOutOfRange = errors.New("options: index out of range")

	// ErrWrongType reports a strict facade access whose requested type does
	// not match the active cell, or a persisted record whose type tag does
	// not match the option it is being restored into.
	ErrWrongType = errors.New("options: wrong value type")
)

// ValidationError captures the identity of the option that rejected a value
// alongside the originating error.
type ValidationError struct {
	Section string
	Name    string
	Err     error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("options: %s/%s: %v", e.Section, e.Name, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func rejectValue(c Classifier, detail string) error {
	return &ValidationError{
		Section: c.Section,
		Name:    c.Name,
		Err:     fmt.Errorf("%w: %s", ErrValidationFailed, detail),
	}
}

func rejectConstruction(c Classifier, detail string) error {
	return &ValidationError{
		Section: c.Section,
		Name:    c.Name,
		Err:     fmt.Errorf("%w: %s", ErrInvalidArgument, detail),
	}
}
