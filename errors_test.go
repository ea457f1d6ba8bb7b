package auth_test

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"

	auth "github.com/AshirAzeem-Developer/xolva-dashboard"
)

func TestIsInvalidCredentialsError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			"the sentinel itself",
			auth.ErrInvalidCredentials,
			true,
		},
		{
			"wrapped sentinel",
			goerrors.Wrap(auth.ErrInvalidCredentials, goerrors.CategoryAuth, "login failed"),
			true,
		},
		{
			"different auth error",
			auth.ErrSessionExpired,
			false,
		},
		{
			"plain error",
			errors.New("boom"),
			false,
		},
		{
			"nil error",
			nil,
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, auth.IsInvalidCredentialsError(tt.err))
		})
	}
}

func TestInvalidCredentialsMessageIsUserFacing(t *testing.T) {
	// shown verbatim in the login form; must not leak which field was wrong
	msg := auth.ErrInvalidCredentials.Error()
	assert.Contains(t, msg, "invalid email or password")
	assert.NotContains(t, msg, "not found")
}

func TestWrapTransportErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := auth.WrapTransportError(cause)

	assert.True(t, goerrors.Is(err, cause))
	assert.False(t, auth.IsInvalidCredentialsError(err))
}
