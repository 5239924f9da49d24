package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	Is = errors.Is
	As = errors.As
)

// Kind classifies an error for mapping onto an HTTP status
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindUnavailable:
		return "Unavailable"
	default:
		return "Internal"
	}
}

// HTTPStatus returns the status code a kind is reported with
func (k Kind) HTTPStatus() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a error type for passing more information
type Error struct {
	// Kind is the returned error type
	Kind Kind
	// Message is the human readable string that indicate the error
	Message string

	cause error
}

var _ error = (*Error)(nil)

var (
	NotFound    = NewWithKind(KindNotFound)
	Invalid     = NewWithKind(KindValidation)
	Unavailable = NewWithKind(KindUnavailable)
	Internal    = NewWithKind(KindInternal)
)

func NewWithKind(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Error implements error
func (e *Error) Error() string {
	str := fmt.Sprintf("[%s]", e.Kind)
	if e.Message != "" {
		str += " " + e.Message
	}
	if e.cause != nil {
		str += fmt.Sprintf(" (%s)", e.cause)
	}
	return str
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Wrap returns a copy of the error with the cause set
func (e *Error) Wrap(cause error) *Error {
	err := *e
	err.cause = cause
	return &err
}

// Explain makes a copy of the error with given message
func (e *Error) Explain(message string, args ...any) *Error {
	err := *e
	err.Message = fmt.Sprintf(message, args...)
	return &err
}

// Is matches another *Error by kind, otherwise defers to the cause
func (e *Error) Is(target error) bool {
	if e == nil {
		return target == nil
	}
	if other, ok := target.(*Error); ok {
		return other.Kind == e.Kind
	}
	if e.cause != nil {
		return Is(e.cause, target)
	}
	return false
}

// KindOf reports the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// PublicMessage is the text safe to return to a caller. Client-side kinds
// carry their own explanation; server-side kinds never expose the cause.
func PublicMessage(err error) string {
	var e *Error
	if !As(err, &e) {
		return "internal server error"
	}
	switch e.Kind {
	case KindNotFound:
		if e.Message != "" {
			return e.Message
		}
		return "resource not found"
	case KindValidation:
		if e.Message != "" {
			return e.Message
		}
		return "invalid request"
	case KindUnavailable:
		return "database unavailable"
	default:
		return "internal server error"
	}
}
