package domain

import "errors"

// Kind classifies a failure so the transport layer can pick a status code
// without knowing which operation produced it.
type Kind uint8

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindBadRequest
	KindForbidden
	KindUnauthorized
	KindConflict
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	case KindConflict:
		return "conflict"
	case KindStorageUnavailable:
		return "storage_unavailable"
	default:
		return "unexpected"
	}
}

// Error is a classified failure carrying a stable, client-safe message.
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

// Kind returns the failure class.
func (e *Error) Kind() Kind { return e.kind }

// Messages returned to clients. Existing clients match on these strings.
const (
	MsgUserNotFound       = "User not found"
	MsgAddressNotInUser   = "User does not have the specified address."
	MsgInvalidEmail       = "Invalid email format"
	MsgEmailInUse         = "Email is already in use"
	MsgInvalidPostalCode  = "Invalid postal code format"
	MsgInvalidCredentials = "Invalid email or password."
	MsgInvalidPagination  = "Page and limit must be greater than 0."
	MsgForbidden          = "Forbidden"
	MsgUnauthorized       = "Unauthorized"
	MsgEmailConflict      = "Email is already registered"
	MsgStorageUnavailable = "Service temporarily unavailable"
	MsgUnexpected         = "Something went wrong"
)

var (
	ErrUserNotFound       = newError(KindNotFound, MsgUserNotFound)
	ErrAddressNotInUser   = newError(KindNotFound, MsgAddressNotInUser)
	ErrInvalidEmail       = newError(KindBadRequest, MsgInvalidEmail)
	ErrEmailInUse         = newError(KindBadRequest, MsgEmailInUse)
	ErrInvalidPostalCode  = newError(KindBadRequest, MsgInvalidPostalCode)
	ErrInvalidPagination  = newError(KindBadRequest, MsgInvalidPagination)
	ErrForbidden          = newError(KindForbidden, MsgForbidden)
	ErrUnauthorized       = newError(KindUnauthorized, MsgUnauthorized)
	ErrInvalidCredentials = newError(KindUnauthorized, MsgInvalidCredentials)

	// ErrEmailConflict is raised by storage when its unique constraint on
	// email rejects a write that passed the service's own pre-check.
	ErrEmailConflict = newError(KindConflict, MsgEmailConflict)

	// ErrStorageUnavailable marks connectivity failures of the persistence
	// layer. Repositories wrap the driver error around it.
	ErrStorageUnavailable = newError(KindStorageUnavailable, MsgStorageUnavailable)
)

// KindOf reports the class of err, looking through wrapping.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.kind
	}
	return KindUnexpected
}

// Unavailable wraps a driver error so that it classifies as
// KindStorageUnavailable while keeping the cause for logs.
func Unavailable(cause error) error {
	return &storageError{cause: cause}
}

type storageError struct {
	cause error
}

func (e *storageError) Error() string {
	return "storage unavailable: " + e.cause.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.cause}
}
