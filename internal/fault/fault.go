// Package fault defines the structured errors returned by the scheduling and
// lifecycle core. Errors carry a kind, an optional field and a message so
// that front ends can localize them without parsing text.
package fault

import (
	"errors"
	"fmt"
)

// Kinds reported by Describe.
const (
	KindValidation        = "validation"
	KindMissingField      = "missing_field"
	KindIllegalTransition = "illegal_transition"
	KindNotFound          = "not_found"
	KindInternal          = "internal"
)

// ErrNotFound is returned by store lookups when no row matches.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed input, tagged with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Message
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// MissingFieldError reports a conditionally required field that was absent.
// It unwraps to a ValidationError for the same field, so errors.As matches
// either type.
type MissingFieldError struct {
	Field   string
	Message string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field: %s: %s", e.Field, e.Message)
}

func (e *MissingFieldError) Unwrap() error {
	return &ValidationError{Field: e.Field, Message: e.Message}
}

// Missing builds a MissingFieldError.
func Missing(field, message string) *MissingFieldError {
	return &MissingFieldError{Field: field, Message: message}
}

// IllegalTransitionError reports a lifecycle transition with no edge in the
// transition table for the current state. It unwraps to a ValidationError on
// the status field, and to Cause when one is set.
type IllegalTransitionError struct {
	Entity  string // "work_order", "ncr"
	From    string
	To      string
	Action  string // set when the transition was requested by action name
	Allowed []string
	// Cause is a payload error that would also have rejected the request,
	// such as missing notes for a status that requires them.
	Cause error
}

func (e *IllegalTransitionError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s: cannot %s from %s; allowed targets: %v", e.Entity, e.Action, e.From, e.Allowed)
	}
	return fmt.Sprintf("%s: invalid status transition from %s to %s; allowed targets: %v", e.Entity, e.From, e.To, e.Allowed)
}

func (e *IllegalTransitionError) Unwrap() []error {
	errs := []error{&ValidationError{Field: "status", Message: e.Error()}}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}

// Detail is the structured form of an error handed to front ends.
type Detail struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Describe classifies err. MissingFieldError and IllegalTransitionError are
// checked before ValidationError because both unwrap to one. A missing field
// wins over an illegal transition that carries it as Cause.
func Describe(err error) Detail {
	var missing *MissingFieldError
	var invalid *ValidationError
	var illegal *IllegalTransitionError
	switch {
	case errors.As(err, &missing):
		return Detail{Kind: KindMissingField, Field: missing.Field, Message: missing.Message}
	case errors.As(err, &illegal):
		return Detail{Kind: KindIllegalTransition, Field: "status", Message: illegal.Error()}
	case errors.As(err, &invalid):
		return Detail{Kind: KindValidation, Field: invalid.Field, Message: invalid.Message}
	case errors.Is(err, ErrNotFound):
		return Detail{Kind: KindNotFound, Message: err.Error()}
	default:
		return Detail{Kind: KindInternal, Message: err.Error()}
	}
}
