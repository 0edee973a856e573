package api

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	KindRequest ErrorKind = iota
	KindTransport
	KindUnauthenticated
	KindForbidden
	KindPasswordChangeRequired
	KindNoContent
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindPasswordChangeRequired:
		return "password-change-required"
	case KindNoContent:
		return "no-content"
	default:
		return "request"
	}
}

const GenericFailureMessage = "Request failed"

// Error is a normalized backend failure. Message is safe to show to users.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Wrapped error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d)", e.Message, e.Status)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// KindOf returns the kind of an *Error anywhere in err's chain, and false if
// there is none.
func KindOf(err error) (ErrorKind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	return 0, false
}

func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// Message returns a user-facing message for any error.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return GenericFailureMessage
}

func kindForStatus(status int) ErrorKind {
	switch status {
	case 401:
		return KindUnauthenticated
	case 403:
		return KindForbidden
	case 423:
		return KindPasswordChangeRequired
	case 204:
		return KindNoContent
	default:
		return KindRequest
	}
}

func asAPIError(err error, target **Error) bool {
	return err != nil && errors.As(err, target)
}
