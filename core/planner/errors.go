package planner

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidReference means a dish, phase or appliance id did not resolve.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrConstraintViolation means a value is outside its allowed range or
	// inconsistent with the catalog.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrDegenerateInput means there is nothing to schedule.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrApplianceConflict is returned under ConflictReject.
	ErrApplianceConflict = errors.New("appliance double-booked")
)

// FieldError is one problem found in a request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Kind    error  `json:"-"`
}

// ValidationError collects every problem found in a request.
type ValidationError struct {
	Problems []FieldError
}

func (e *ValidationError) add(field string, kind error, format string, args ...any) {
	e.Problems = append(e.Problems, FieldError{Field: field, Message: fmt.Sprintf(format, args...), Kind: kind})
}

func (e *ValidationError) empty() bool { return len(e.Problems) == 0 }

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Message))
	}
	return "invalid plan request: " + strings.Join(parts, "; ")
}

// Unwrap exposes the distinct problem kinds to errors.Is.
func (e *ValidationError) Unwrap() []error {
	var kinds []error
	seen := map[error]bool{}
	for _, p := range e.Problems {
		if p.Kind != nil && !seen[p.Kind] {
			seen[p.Kind] = true
			kinds = append(kinds, p.Kind)
		}
	}
	return kinds
}

// Fields groups messages by field name.
func (e *ValidationError) Fields() map[string][]string {
	out := make(map[string][]string, len(e.Problems))
	for _, p := range e.Problems {
		out[p.Field] = append(out[p.Field], p.Message)
	}
	return out
}

// Reason maps an error to a short label for metrics and events.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDegenerateInput):
		return "degenerate_input"
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrConstraintViolation):
		return "constraint_violation"
	case errors.Is(err, ErrApplianceConflict):
		return "appliance_conflict"
	default:
		return "internal"
	}
}
