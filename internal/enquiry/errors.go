package enquiry

import (
	"errors"
	"fmt"
)

// ErrSenderDenied rejects an enquiry whose sender is on the deny list.
var ErrSenderDenied = errors.New("enquiry: sender denied")

// ValidationError reports a missing or malformed field. Message is safe to
// show to the submitter.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("enquiry: invalid %s: %s", e.Field, e.Message)
}

// TransportError wraps a failure of an outbound step (mail relay or webhook).
type TransportError struct {
	Step string // "business mail", "customer mail", "webhook"
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("enquiry: %s: %v", e.Step, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
