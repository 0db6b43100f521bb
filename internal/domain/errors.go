package domain

import "errors"

// Kind classifies an Error. Delivery layers map a Kind to a single status code.
type Kind uint8

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindInvalidSession
	KindInvalidCredentials
	KindUsernameTaken
	KindForbidden
	KindNotFound
	KindConflict
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindInvalidSession:
		return "invalid session"
	case KindInvalidCredentials:
		return "invalid credentials"
	case KindUsernameTaken:
		return "username taken"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation failed"
	default:
		return "internal error"
	}
}

// Error is the tagged error returned by services and repositories.
// Message is safe to show to API clients; Err carries the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind. A target without a
// Message matches every error of its Kind, so errors.Is(err, ErrNotFound) holds
// for ErrEventNotFound and ErrUserNotFound alike.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// NewError returns an Error of the given kind.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationError returns a KindValidation error with the given message.
func ValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// MessageOf returns the client-safe message of the first *Error in err's chain.
// Errors without a tag yield the generic internal message.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		if de.Message != "" {
			return de.Message
		}
		return de.Kind.String()
	}
	return KindInternal.String()
}

// Kind-level sentinels. Match with errors.Is.
var (
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrValidation      = &Error{Kind: KindValidation}
)

// Specific errors.
var (
	ErrInvalidSession     = NewError(KindInvalidSession, "invalid or expired session")
	ErrInvalidCredentials = NewError(KindInvalidCredentials, "invalid credentials")
	ErrUsernameTaken      = NewError(KindUsernameTaken, "username already exists")
	ErrUserNotFound       = NewError(KindNotFound, "user not found")
	ErrEventNotFound      = NewError(KindNotFound, "event not found")
	ErrNotHost            = NewError(KindForbidden, "only the host can modify this event")
	ErrHostCannotUnattend = NewError(KindForbidden, "host cannot unattend their own event")
	ErrAlreadyAttending   = NewError(KindConflict, "already attending this event")
	ErrNotAttending       = NewError(KindConflict, "not attending this event")
)
