// Package aierr defines the closed error taxonomy of the AI orchestration core.
//
// Every failure inside the core funnels into one of four kinds before it
// crosses the package boundary. Only KindValidation is meant to reach end users;
// the other kinds are recovered by the orchestrators through the fallback path.
package aierr

import (
	"errors"
	"fmt"
)

// Kind is the top-level class of a core error.
type Kind string

const (
	// KindConfiguration covers "no model available" and unknown model ids.
	KindConfiguration Kind = "CONFIGURATION"
	// KindProvider covers failures reported by, or on the way to, an LLM vendor.
	KindProvider Kind = "PROVIDER"
	// KindParse covers model output that cannot be decoded.
	KindParse Kind = "PARSE"
	// KindValidation covers blank or otherwise unusable caller input.
	KindValidation Kind = "VALIDATION"
)

// Reason refines a Kind.
type Reason string

const (
	ReasonNoModelAvailable Reason = "no_model_available"
	ReasonUnknownModel     Reason = "unknown_model"

	ReasonUnauthenticated  Reason = "unauthenticated"
	ReasonRateLimited      Reason = "rate_limited"
	ReasonQuotaExhausted   Reason = "quota_exhausted"
	ReasonTransportFailure Reason = "transport_failure"
	ReasonUnknown          Reason = "unknown"

	ReasonMalformedJSON Reason = "malformed_json"

	ReasonEmptyInput Reason = "empty_input"
)

// Error is the single error type the core returns.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	// Status is the upstream HTTP status when one was observed, 0 otherwise.
	Status  int
	Cause   error
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Kind)
	if e.Reason != "" {
		prefix += "/" + string(e.Reason)
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a *Error of the same kind. A target with an
// empty Reason matches every reason of that kind, so the exported sentinels
// work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// WithContext adds context to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// Sentinels for errors.Is.
var (
	ErrConfiguration    = &Error{Kind: KindConfiguration}
	ErrProvider         = &Error{Kind: KindProvider}
	ErrParse            = &Error{Kind: KindParse}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrNoModelAvailable = &Error{Kind: KindConfiguration, Reason: ReasonNoModelAvailable}
	ErrMalformedJSON    = &Error{Kind: KindParse, Reason: ReasonMalformedJSON}
)

// Configuration creates a configuration error.
func Configuration(reason Reason, msg string) *Error {
	return &Error{Kind: KindConfiguration, Reason: reason, Message: msg}
}

// Provider creates a provider error.
func Provider(reason Reason, status int, msg string, cause error) *Error {
	return &Error{Kind: KindProvider, Reason: reason, Status: status, Message: msg, Cause: cause}
}

// Parse creates a malformed JSON parse error.
func Parse(msg string, cause error) *Error {
	return &Error{Kind: KindParse, Reason: ReasonMalformedJSON, Message: msg, Cause: cause}
}

// Validation creates a validation error for blank input.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Reason: ReasonEmptyInput, Message: msg}
}

// KindOf extracts the kind from any error, or "" if err is not a core error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ReasonOf extracts the reason from any error, or "" if err is not a core error.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}

// IsKind checks if an error is of a specific kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
