package auth

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// CredentialSource is the lookup boundary the Auther authenticates against.
// Implementations must never expose stored secrets: VerifyIdentity returns a
// secret-free user copy or ErrInvalidCredentials, and lookups report absence
// as a boolean rather than an error.
type CredentialSource interface {
	FindByEmail(ctx context.Context, email string) (*User, bool)
	VerifyIdentity(ctx context.Context, email, secret string) (*User, error)
}

// Authenticator produces a session for valid credentials. Exactly one of
// session/error is returned; callers observe the in-flight phase through the
// Manager state, not through this call.
type Authenticator interface {
	Authenticate(ctx context.Context, email, secret string) (*Session, error)
}

// TokenMinter issues the opaque per-login session token.
type TokenMinter interface {
	Mint(user *User) (string, error)
}

// Subscriber receives the full state snapshot after every transition.
type Subscriber func(AuthState)

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
