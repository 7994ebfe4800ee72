// Package httperr defines the error kinds produced by the permission gate and
// the CSRF protector, and the error continuation used to deliver them.
//
// Middleware in this module never panics or writes a response on its own when
// a request is rejected. It builds an error with a Constructor and hands it to
// a Handler, so a single place in the application decides how failures are
// rendered.
package httperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error raised by the middlewares.
type Kind int

const (
	// KindInvalidInput marks programmer errors, such as asking for a token
	// without a session id or URL.
	KindInvalidInput Kind = iota + 1
	// KindUnauthorized marks requests that must not proceed.
	KindUnauthorized
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid input"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidInput:
		return ErrInvalidInput
	case KindUnauthorized:
		return ErrUnauthorized
	default:
		return nil
	}
}

// Error is the default error value built for a rejected request.
type Error struct {
	Kind    Kind
	URL     string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.URL != "" {
		msg = fmt.Sprintf("%s: [%s]", msg, e.URL)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel of e's kind, so callers can match
// with errors.Is(err, httperr.ErrUnauthorized).
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// StatusCode maps the kind to an HTTP status.
func (e *Error) StatusCode() int {
	if e.Kind == KindUnauthorized {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// Constructor builds the error delivered for a rejected request. Installations
// swap it to raise their own error types.
type Constructor func(kind Kind, r *http.Request, msg string) error

// New is the default Constructor.
func New(kind Kind, r *http.Request, msg string) error {
	e := &Error{Kind: kind, Message: msg}
	if r != nil && r.URL != nil {
		e.URL = r.URL.RequestURI()
	}
	return e
}

// Wrap returns an error of the given kind wrapping err.
func Wrap(kind Kind, err error, msg string) error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// Handler is the error continuation: it receives every failure raised while
// processing a request and is responsible for the response.
type Handler func(w http.ResponseWriter, r *http.Request, err error)

// Default writes a plain-text error. The status comes from any error in the
// chain exposing StatusCode() int, falling back to 500.
func Default(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, http.StatusText(Status(err)), Status(err))
}

// Status returns the HTTP status carried by err.
func Status(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
