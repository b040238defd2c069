package securepay

import (
	"fmt"
)

// ValidationError is returned by setters and validators when a value breaks a
// local precondition. It is raised at assignment time, never deferred to build.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("securepay: invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the named field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// UnsupportedFeatureError is returned for operations the gateway restricts,
// such as attaching a second action to one request.
type UnsupportedFeatureError struct {
	Feature string
}

func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("securepay: unsupported feature: %s", e.Feature)
}

// IncompleteMessageError is returned when a message or URL is requested
// before a ready action is attached.
type IncompleteMessageError struct {
	Reason string
}

func (e *IncompleteMessageError) Error() string {
	return fmt.Sprintf("securepay: incomplete message: %s", e.Reason)
}

// TypeNotSupportedError is returned for an unknown transaction or periodic
// type tag, or an action that is not one of the known kinds.
type TypeNotSupportedError struct {
	Type string
}

func (e *TypeNotSupportedError) Error() string {
	return fmt.Sprintf("securepay: type [%s] is not supported", e.Type)
}

// TransportError wraps a failure talking to the gateway. StatusCode and Body
// are set when the gateway answered with a non-2xx HTTP status.
type TransportError struct {
	URL        string
	StatusCode int
	Body       []byte
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("securepay: transport error %d from %s: %s", e.StatusCode, e.URL, e.Body)
	}
	return fmt.Sprintf("securepay: transport error from %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
