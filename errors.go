package auth

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeInvalidCredentials = "INVALID_CREDENTIALS"
	textCodeSessionExpired     = "SESSION_EXPIRED"
	textCodeNotAuthenticated   = "NOT_AUTHENTICATED"
	textCodeTransportFailure   = "AUTH_TRANSPORT_FAILURE"
)

// ErrInvalidCredentials covers both unknown-email and wrong-secret failures.
// The two cases are deliberately indistinguishable so callers cannot probe
// which accounts exist.
var ErrInvalidCredentials = goerrors.New("invalid email or password", goerrors.CategoryAuth).
	WithTextCode(textCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrSessionExpired is the reason recorded when the monitor forces logout.
var ErrSessionExpired = goerrors.New("session expired", goerrors.CategoryAuth).
	WithTextCode(textCodeSessionExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrNotAuthenticated is returned by operations that require an active session.
var ErrNotAuthenticated = goerrors.New("not authenticated", goerrors.CategoryAuth).
	WithTextCode(textCodeNotAuthenticated).
	WithCode(goerrors.CodeUnauthorized)

// WrapTransportError classifies a backend failure so a real credential
// service can be swapped in without changing the Failed(reason) contract.
// The mock store never produces one.
func WrapTransportError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "authentication backend unavailable").
		WithTextCode(textCodeTransportFailure)
}

// IsInvalidCredentialsError reports whether err reduces to the single
// credential-failure value.
func IsInvalidCredentialsError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrInvalidCredentials)
}
