// Package fault defines the typed error taxonomy shared by every service
// layer in both portal APIs. Services return *Fault values; the HTTP layer
// translates them to status codes in one place (see HTTPErrorHandler) so
// handlers never map errors by hand.
package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a fault for HTTP translation.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindPermissionDenied
	KindConflict
	KindUnavailable
	KindRateLimited
)

// String returns the snake_case name of the kind, used in logs and bodies.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindNotFound:
		return "not_found"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindPermissionDenied:
		return "permission_denied"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "internal"
	}
}

// Fault is a typed error carrying a classification and a caller-safe message.
// Wrapped errors are preserved for logging but never serialized to clients.
type Fault struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// Validation reports malformed or missing input.
func Validation(format string, args ...interface{}) *Fault {
	return &Fault{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an unknown or soft-deleted resource.
func NotFound(resource string) *Fault {
	return &Fault{Kind: KindNotFound, Message: resource + " not found"}
}

// Unauthenticated reports a missing or invalid credential.
func Unauthenticated(message string) *Fault {
	return &Fault{Kind: KindUnauthenticated, Message: message}
}

// PermissionDenied reports an authenticated caller without access.
func PermissionDenied(message string) *Fault {
	return &Fault{Kind: KindPermissionDenied, Message: message}
}

// Conflict reports a duplicate or otherwise conflicting resource.
func Conflict(message string) *Fault {
	return &Fault{Kind: KindConflict, Message: message}
}

// Unavailable reports a downstream provider failure.
func Unavailable(service string, err error) *Fault {
	return &Fault{Kind: KindUnavailable, Message: service + " unavailable", Err: err}
}

// RateLimited reports a caller exceeding the request rate.
func RateLimited(message string) *Fault {
	return &Fault{Kind: KindRateLimited, Message: message}
}

// Internal wraps an unexpected error. The message shown to clients is generic.
func Internal(err error) *Fault {
	return &Fault{Kind: KindInternal, Message: "internal error", Err: err}
}

// KindOf extracts the Kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return KindInternal
}

// IsNotFound reports whether err is a not-found fault.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsValidation reports whether err is a validation fault.
func IsValidation(err error) bool {
	return KindOf(err) == KindValidation
}

// IsConflict reports whether err is a conflict fault.
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}
