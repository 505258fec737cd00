// Package fault defines the error taxonomy shared by the auth core,
// the authorization middleware and the entity services. Every failure
// crossing a component boundary is an *Error carrying a Kind, so the
// HTTP layer can map it to a status code without inspecting messages.
package fault

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindNoToken
	KindInvalidCredentials
	KindInvalidToken
	KindInvalidRefreshToken
	KindUserInactive
	KindSchoolAccess
	KindPathDenied
	KindMethodDenied
	KindInvalidRole
	KindUnauthorized
	KindValidation
	KindNotFound
	KindConflict
	KindOperationFailed
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the kind from an error chain. Errors that are not
// *Error are treated as unexpected.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a failure to its response status. Auth, token and
// permission failures are all 401; only unexpected errors become 500.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNoToken, KindInvalidCredentials, KindInvalidToken, KindInvalidRefreshToken,
		KindUserInactive, KindSchoolAccess, KindPathDenied, KindMethodDenied,
		KindInvalidRole, KindUnauthorized:
		return http.StatusUnauthorized
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Canned failures with the exact client-facing wording. Credential and
// token paths deliberately share generic messages so callers cannot
// distinguish "no such user" from "wrong password".
var (
	ErrNoToken             = New(KindNoToken, "No token provided")
	ErrInvalidCredentials  = New(KindInvalidCredentials, "Invalid credentials")
	ErrInvalidToken        = New(KindInvalidToken, "Invalid token")
	ErrInvalidRefreshToken = New(KindInvalidRefreshToken, "Invalid refresh token")
	ErrUserInactive        = New(KindUserInactive, "User not found or inactive")
	ErrSchoolAccess        = New(KindSchoolAccess, "Unauthorized access to school resources")
	ErrPathDenied          = New(KindPathDenied, "Unauthorized access to resource")
	ErrMethodDenied        = New(KindMethodDenied, "Unauthorized method")
	ErrInvalidRole         = New(KindInvalidRole, "Invalid role")
	ErrUnauthorized        = New(KindUnauthorized, "Unauthorized")
)

// OperationFailed wraps an unexpected internal failure behind a generic
// message so storage details never leak to the caller.
func OperationFailed(message string) *Error {
	return New(KindOperationFailed, message)
}
