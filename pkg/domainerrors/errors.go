// Package domainerrors carries coded errors across layer boundaries so
// callers can branch on cause instead of matching message strings.
package domainerrors

import (
	"errors"
	"net/http"
)

type Code string

const (
	// Identity errors.
	CodeInvalidIdentifier Code = "invalid_identifier"
	CodeInvalidAddress    Code = "invalid_address"
	CodeAlreadyExists     Code = "already_exists"
	CodeNotFound          Code = "not_found"
	CodeNikNotRegistered  Code = "nik_not_registered"
	CodeNotEligible       Code = "not_eligible"

	// Authorization errors.
	CodeUnauthorized Code = "unauthorized"

	// Delegation state errors.
	CodeProviderNotEligible    Code = "provider_not_eligible"
	CodeRequestAlreadyExists   Code = "request_already_exists"
	CodeInvalidRequestState    Code = "invalid_request_state"
	CodeRequestAlreadyResolved Code = "request_already_resolved"

	// Signed-dispatch errors.
	CodeInvalidSignature Code = "invalid_signature"
	CodeInvalidNonce     Code = "invalid_nonce"

	// Generic.
	CodeBadRequest Code = "bad_request"
	CodeTimeout    Code = "timeout"
	CodeInternal   Code = "internal"
)

// Error pairs a stable code with a human-readable message and an optional
// wrapped cause.
type Error struct {
	Code    Code
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

func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, Err: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf extracts the outermost code, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps codes onto HTTP statuses for the transport layer.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidIdentifier, CodeInvalidAddress, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidSignature:
		return http.StatusUnauthorized
	case CodeNotFound, CodeNikNotRegistered:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeRequestAlreadyExists, CodeInvalidRequestState,
		CodeRequestAlreadyResolved, CodeInvalidNonce, CodeNotEligible, CodeProviderNotEligible:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
