// Package apperror defines the closed set of domain failures every request
// pipeline stage may return. Handlers never translate them; the response
// envelope dispatches on Kind.
package apperror

import (
	"errors"
	"net/http"
)

// Kind tags a domain failure.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindDuplicate
	KindServiceUnavailable
)

type kindInfo struct {
	status  int
	code    string
	message string
}

var kinds = map[Kind]kindInfo{
	KindInternal:           {http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"},
	KindBadRequest:         {http.StatusBadRequest, "BAD_REQUEST", "Bad request"},
	KindUnauthorized:       {http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized"},
	KindForbidden:          {http.StatusForbidden, "FORBIDDEN", "Forbidden"},
	KindNotFound:           {http.StatusNotFound, "NOT_FOUND", "Not found"},
	KindDuplicate:          {http.StatusConflict, "DUPLICATE", "Duplicate"},
	KindServiceUnavailable: {http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Service unavailable"},
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	if info, ok := kinds[k]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// Code returns the stable error code for the kind.
func (k Kind) Code() string {
	if info, ok := kinds[k]; ok {
		return info.code
	}
	return "INTERNAL_ERROR"
}

func (k Kind) String() string { return k.Code() }

// Error is a domain failure. Data, when set, is rendered to the client
// alongside the message.
type Error struct {
	Kind    Kind
	Message string
	Data    any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code of the failure.
func (e *Error) Status() int { return e.Kind.Status() }

// Code returns the stable error code of the failure.
func (e *Error) Code() string { return e.Kind.Code() }

// WithData returns a copy of e carrying data.
func (e *Error) WithData(data any) *Error {
	cp := *e
	cp.Data = data
	return &cp
}

// New builds an Error of the given kind. An empty message falls back to the
// kind's default message.
func New(kind Kind, message string) *Error {
	if message == "" {
		if info, ok := kinds[kind]; ok {
			message = info.message
		}
	}
	return &Error{Kind: kind, Message: message}
}

func BadRequest(message string) *Error         { return New(KindBadRequest, message) }
func Unauthorized(message string) *Error       { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error          { return New(KindForbidden, message) }
func NotFound(message string) *Error           { return New(KindNotFound, message) }
func Duplicate(message string) *Error          { return New(KindDuplicate, message) }
func Internal(message string) *Error           { return New(KindInternal, message) }
func ServiceUnavailable(message string) *Error { return New(KindServiceUnavailable, message) }

// Wrap builds an Error of the given kind that keeps cause in its chain.
func Wrap(kind Kind, message string, cause error) *Error {
	e := New(kind, message)
	e.Err = cause
	return e
}

// As reports whether err carries a domain failure and returns it.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal for errors that carry no
// domain failure.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}
