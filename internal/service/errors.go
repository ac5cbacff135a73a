package service

import (
	"context"
	"errors"
	"fmt"

	"simplefit/internal/async"
	"simplefit/internal/domain"
	"simplefit/internal/repository"
)

// Kind classifies a service failure. Handlers map kinds to responses.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotAuthenticated
	KindNotFound
	KindRemoteFailure
	KindInvalidInput
	KindTimeout
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindNotFound:
		return "not_found"
	case KindRemoteFailure:
		return "remote_failure"
	case KindInvalidInput:
		return "invalid_input"
	case KindTimeout:
		return "timeout"
	case KindConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Error is the single error type services return. Message is safe to show to users.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound) holds
// for every not-found error regardless of message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Kind sentinels for errors.Is.
var (
	ErrNotAuthenticated = &Error{Kind: KindNotAuthenticated, Message: "user not authenticated"}
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrRemoteFailure    = &Error{Kind: KindRemoteFailure, Message: "remote store failure"}
	ErrInvalidInput     = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrTimeout          = &Error{Kind: KindTimeout, Message: "timed out"}
	ErrConflict         = &Error{Kind: KindConflict, Message: "conflict"}
)

// Specific failures the API surfaces verbatim.
var (
	ErrUserAlreadyExists    = &Error{Kind: KindConflict, Message: "user with this email already exists"}
	ErrAuthenticationFailed = &Error{Kind: KindNotAuthenticated, Message: "authentication failed: invalid email or password"}
)

func NotAuthenticated() error {
	return ErrNotAuthenticated
}

func NotFound(entity, id string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func RemoteFailure(op string, err error) error {
	return &Error{Kind: KindRemoteFailure, Message: "failed to " + op, Err: err}
}

func InvalidInput(message string, err error) error {
	return &Error{Kind: KindInvalidInput, Message: message, Err: err}
}

func Timeout(op string) error {
	return &Error{Kind: KindTimeout, Message: "timed out waiting to " + op}
}

// KindOf returns the kind of err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// translate converts lower-layer errors into the service taxonomy. op names the
// operation for remote failures; entity and id name the missing record.
func translate(err error, op, entity, id string) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	var validation domain.ValidationError
	switch {
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, repository.ErrNotFound):
		return NotFound(entity, id)
	case errors.As(err, &validation):
		return InvalidInput(err.Error(), nil)
	case errors.Is(err, async.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return Timeout(op)
	case errors.Is(err, repository.ErrConflict):
		return &Error{Kind: KindConflict, Message: "concurrent update while trying to " + op, Err: err}
	default:
		return RemoteFailure(op, err)
	}
}
