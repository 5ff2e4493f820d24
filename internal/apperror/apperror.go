// Package apperror classifies failures into a closed set of kinds so handlers
// can pick a status code and a public message without inspecting causes.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindConfiguration
	KindAuthorization
	KindValidation
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindAuthorization:
		return "authorization"
	case KindValidation:
		return "validation"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error carries the kind, the operation that failed and the underlying cause.
// Message is safe to show to callers; Err is for the log only.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Op + ": " + e.Message
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Configuration(op, message string) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Message: message}
}

func Unauthorized(op string) *Error {
	return &Error{Kind: KindAuthorization, Op: op, Message: "Unauthorized"}
}

func Validation(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

func Upstream(op string, err error) *Error {
	return &Error{Kind: KindUpstream, Op: op, Message: "upstream service error", Err: err}
}

func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Op: op, Message: "Internal Server Error", Err: err}
}

// KindOf returns KindInternal for errors that were never classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Status(err error) int {
	switch KindOf(err) {
	case KindConfiguration:
		return http.StatusInternalServerError
	case KindAuthorization:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text sent to the client. With exposeDetails the
// root cause message is forwarded verbatim; otherwise only the stable message
// of the error kind is used.
func PublicMessage(err error, exposeDetails bool) string {
	var e *Error
	if !errors.As(err, &e) {
		if exposeDetails {
			return err.Error()
		}
		return "Internal Server Error"
	}
	if exposeDetails && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}
