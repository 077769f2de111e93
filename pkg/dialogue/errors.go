package dialogue

import (
	"errors"
	"fmt"
)

// Sentinel errors for the dialogue package.
var (
	// ErrSessionEnded indicates a turn arrived for a finished session.
	ErrSessionEnded = errors.New("dialogue: session already ended")

	// ErrUnknownMode indicates the session references an undeclared mode.
	ErrUnknownMode = errors.New("dialogue: unknown mode")

	// ErrInconsistent indicates an invariant violation mid-turn, such
	// as a record vanishing between resolve and update. The host should
	// apologize and end the session.
	ErrInconsistent = errors.New("dialogue: internal inconsistency")
)

// ValidationError reports a slot value rejected by its validator. It is
// resolved locally by re-prompting and never crosses the engine
// boundary.
type ValidationError struct {
	Field  FieldName
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("dialogue: invalid %s: %s", e.Field, e.Reason)
}

// Invalid builds a ValidationError with a spoken reason.
func Invalid(field FieldName, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
