package status

import (
	"errors"
)

// Kind classifies every failure the server is able to respond to.
type Kind uint8

const (
	// KindInternal is also the zero value, so an uninitialized HTTPError is never
	// mistaken for a client error.
	KindInternal Kind = iota
	KindBadRequest
	KindNotFound
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad request"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Code maps the kind to the status code it is responded with. The mapping is total.
func (k Kind) Code() Code {
	switch k {
	case KindBadRequest:
		return BadRequest
	case KindNotFound:
		return NotFound
	case KindUnauthorized:
		return Unauthorized
	default:
		return InternalServerError
	}
}

type HTTPError struct {
	Kind    Kind
	Code    Code
	Message string
	cause   error
}

func NewError(kind Kind, message string) HTTPError {
	return HTTPError{
		Kind:    kind,
		Code:    kind.Code(),
		Message: message,
	}
}

// Wrap returns a new error of the kind, carrying the cause. The cause is accessible
// via errors.Unwrap.
func Wrap(kind Kind, message string, cause error) HTTPError {
	err := NewError(kind, message)
	err.cause = cause
	return err
}

func (h HTTPError) Error() string {
	text := h.Kind.String()
	if len(h.Message) > 0 {
		text += ": " + h.Message
	}

	if h.cause != nil {
		text += ": " + h.cause.Error()
	}

	return text
}

func (h HTTPError) Unwrap() error {
	return h.cause
}

// Is reports whether the target is an HTTPError of the same kind with either the same
// message or none at all. So errors.Is(status.BadRequest("..."), status.ErrBadRequest)
// holds for any detail, while two errors with different details don't match.
func (h HTTPError) Is(target error) bool {
	t, ok := target.(HTTPError)
	return ok && t.Kind == h.Kind && (len(t.Message) == 0 || t.Message == h.Message)
}

// Kind-only errors. Each of them matches every error of its kind.
var (
	ErrBadRequest   = HTTPError{Kind: KindBadRequest, Code: BadRequest}
	ErrNotFound     = HTTPError{Kind: KindNotFound, Code: NotFound}
	ErrUnauthorized = HTTPError{Kind: KindUnauthorized, Code: Unauthorized}
	ErrInternal     = HTTPError{Kind: KindInternal, Code: InternalServerError}
)

func BadRequest(detail string) error {
	return NewError(KindBadRequest, detail)
}

func NotFound(detail string) error {
	return NewError(KindNotFound, detail)
}

func Unauthorized(detail string) error {
	return NewError(KindUnauthorized, detail)
}

func Internal(detail string) error {
	return NewError(KindInternal, detail)
}

// KindOf extracts the kind of the error. Errors that aren't HTTPError are
// considered internal.
func KindOf(err error) Kind {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Kind
	}

	return KindInternal
}

// CodeOf returns the status code the error must be responded with.
func CodeOf(err error) Code {
	return KindOf(err).Code()
}

// Detail returns the message of the error without the kind prefix. For errors
// that aren't HTTPError, the whole error text is returned.
func Detail(err error) string {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Message
	}

	return err.Error()
}
