package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the transport layer. Composers and repos only
// ever produce these kinds; anything else is treated as internal.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error carries the domain error taxonomy: a kind, the entity model it refers
// to, a numeric domain code with its human message, and an optional cause.
type Error struct {
	Kind    Kind
	Model   string
	Code    int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "not authenticated"
	}
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// ForbiddenCode is a Forbidden outcome with a domain code attached, e.g. the
// "not published" gate.
func ForbiddenCode(model string, code int, message string) *Error {
	return &Error{Kind: KindForbidden, Model: model, Code: code, Message: message}
}

// NotFound reports a missing entity with its model-scoped domain code. The
// message comes from the code table so every layer reports the same wording.
func NotFound(model string, code int, detail string) *Error {
	msg := CodeMessage(model, code)
	if detail != "" {
		msg = msg + ": " + detail
	}
	return &Error{Kind: KindNotFound, Model: model, Code: code, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool  { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }

// CodeOf returns the numeric domain code carried by err, or 0.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
