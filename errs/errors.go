package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so callers can branch on the
// failure mode without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidInput
	KindEmptyCart
	KindUnauthorized
	KindForbidden
	KindConflict
	KindStoreFailure
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

func InvalidInput(message string) *Error {
	return New(KindInvalidInput, http.StatusBadRequest, message, nil)
}

func EmptyCart(message string) *Error {
	return New(KindEmptyCart, http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, http.StatusForbidden, message, nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, http.StatusConflict, message, nil)
}

func StoreFailure(message string, err error) *Error {
	return New(KindStoreFailure, http.StatusInternalServerError, message, err)
}

// KindOf extracts the Kind from any error; unknown errors map to KindUnknown.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// From converts an arbitrary error into *Error, wrapping unknown
// errors as a store failure.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return StoreFailure("internal error", err)
}
