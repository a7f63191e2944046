package types

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies failures returned by the recommendation proxy
type ErrorKind string

const (
	ErrorKindUnauthenticated ErrorKind = "unauthenticated"
	ErrorKindInvalidArgument ErrorKind = "invalid-argument"
	ErrorKindInternal        ErrorKind = "internal"
)

// AllErrorKinds returns all valid error kinds
func AllErrorKinds() []ErrorKind {
	return []ErrorKind{
		ErrorKindUnauthenticated,
		ErrorKindInvalidArgument,
		ErrorKindInternal,
	}
}

// IsValid checks if the error kind is valid
func (k ErrorKind) IsValid() bool {
	switch k {
	case ErrorKindUnauthenticated,
		ErrorKindInvalidArgument,
		ErrorKindInternal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	return string(k)
}

// Status returns the canonical status name used on the callable wire format
func (k ErrorKind) Status() string {
	switch k {
	case ErrorKindUnauthenticated:
		return "UNAUTHENTICATED"
	case ErrorKindInvalidArgument:
		return "INVALID_ARGUMENT"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus returns the HTTP status code for the error kind
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case ErrorKindUnauthenticated:
		return http.StatusUnauthorized
	case ErrorKindInvalidArgument:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ParseErrorKind parses a string into an ErrorKind
func ParseErrorKind(s string) (ErrorKind, error) {
	kind := ErrorKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid error kind: %s", s)
	}
	return kind, nil
}

// ErrorKindFromStatus maps a canonical status name back to an ErrorKind.
// Unknown statuses map to ErrorKindInternal.
func ErrorKindFromStatus(status string) ErrorKind {
	for _, k := range AllErrorKinds() {
		if k.Status() == status {
			return k
		}
	}
	return ErrorKindInternal
}
