package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The HTTP layer maps each kind to a
// status code; callers should branch on Kind, not on message text.
type Kind string

const (
	KindAuth              Kind = "auth_error"
	KindSignatureMismatch Kind = "signature_mismatch"
	KindStaleTimestamp    Kind = "stale_timestamp"
	KindInvalidContent    Kind = "invalid_content"
	KindInvalidArgument   Kind = "invalid_argument"
	KindBanned            Kind = "banned"
	KindRateLimited       Kind = "rate_limited"
	KindNotFound          Kind = "not_found"
	KindStorage           Kind = "storage_error"
	KindInternal          Kind = "internal_error"
)

// Error is the failure variant returned by every service operation
type Error struct {
	Kind    Kind
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func storageError(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: op + " failed", Err: err}
}

// KindOf extracts the Kind of err. Errors not produced by this package
// are reported as KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
