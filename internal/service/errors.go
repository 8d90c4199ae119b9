package service

import "errors"

// ErrorType discriminates business validation failures. Values cross the API
// boundary verbatim as the error_type field; the UI layer maps them to
// localized text.
type ErrorType string

const (
	ErrTypeMissingParameters     ErrorType = "missing parameters"
	ErrTypeInvalidClassData      ErrorType = "invalid class data"
	ErrTypePastRebookingDeadline ErrorType = "past rebooking deadline"
	ErrTypeNoSubscription        ErrorType = "no subscription"
	ErrTypeOutdatedSubscription  ErrorType = "outdated subscription"
	ErrTypeInstructorConflict    ErrorType = "instructor conflict"
	ErrTypeInstructorUnavailable ErrorType = "instructor unavailable"

	// ErrTypeConfirmationRequired carries advisory conflicts (child overlap,
	// double booking). The caller may re-submit with confirmation to
	// override.
	ErrTypeConfirmationRequired ErrorType = "confirmation required"
)

// Error is a structured business failure. Store-access failures are never
// wrapped in Error; they stay plain errors and surface as a generic message.
type Error struct {
	Type    ErrorType `json:"error_type"`
	Message string    `json:"message"`

	// Set when Type is ErrTypeConfirmationRequired.
	ConflictingChildren []string `json:"conflicting_children,omitempty"`
	DoubleBooked        bool     `json:"double_booked,omitempty"`
}

func (e *Error) Error() string {
	return string(e.Type) + ": " + e.Message
}

func newError(t ErrorType, msg string) *Error {
	return &Error{Type: t, Message: msg}
}

// AsBusinessError extracts the structured failure, if the error is one.
func AsBusinessError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType reports whether err is a business failure of the given type.
func IsType(err error, t ErrorType) bool {
	e, ok := AsBusinessError(err)
	return ok && e.Type == t
}
