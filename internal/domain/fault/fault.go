// Package fault defines the error taxonomy shared by every component.
//
// Stores and engines return concrete sentinel errors for their own
// callers; the feature layer converts them to fault kinds so the
// transport mapping (kind -> HTTP status) lives in exactly one place.
package fault

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a business-rule failure.
type Kind int

const (
	// Unauthenticated: no, expired, or malformed identity token.
	Unauthenticated Kind = iota + 1
	// NoActiveWorkspace: no workspace assertion on the request.
	NoActiveWorkspace
	// Forbidden: identity and workspace resolved, role insufficient.
	Forbidden
	// NotFound: the entity does not exist or lives in another tenant.
	// The two cases are deliberately indistinguishable to callers.
	NotFound
	// Conflict: duplicate name or code, session already closed,
	// invitation exhausted, last owner would be removed.
	Conflict
	// Expired: invitation past its expiry.
	Expired
	// Invalid: malformed input (bad date, non-positive ttl, unknown role).
	Invalid
	// Internal: persistence I/O failure; fatal to the request.
	Internal
)

// Error carries a kind plus a message safe to return to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error // wrapped cause, not exposed to clients
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two fault errors by kind alone.
func (e *Error) Is(target error) bool {
	var fe *Error
	if errors.As(target, &fe) {
		return e.Kind == fe.Kind
	}
	return false
}

// New builds a fault error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a cause to a fault error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from err, or Internal when err carries none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Internal
}

// Status maps a fault kind to its HTTP status.
func Status(kind Kind) int {
	switch kind {
	case Unauthenticated:
		return http.StatusUnauthorized
	case NoActiveWorkspace, Invalid:
		return http.StatusBadRequest
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Expired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}
