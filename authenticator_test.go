package auth_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/AshirAzeem-Developer/xolva-dashboard"
)

func newTestAuther(t *testing.T) (*auth.Auther, *auth.CredentialStore) {
	t.Helper()
	store, err := auth.NewCredentialStore(auth.DefaultIdentities())
	require.NoError(t, err)

	tokens := auth.NewTokenService(
		[]byte("test-signing-key"),
		30*time.Minute,
		"xolva-test",
		[]string{"dashboard"},
		nil,
	)

	auther := auth.NewAuthenticator(store, tokens).WithLatency(0)
	return auther, store
}

func TestAuthenticateSuccess(t *testing.T) {
	auther, _ := newTestAuther(t)

	session, err := auther.Authenticate(context.Background(), "admin@company.com", "admin123")
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, "1", session.User.ID)
	assert.Equal(t, auth.RoleAdmin, session.User.Role)
	assert.True(t, auth.IsAdmin(session.User))
	assert.NotEmpty(t, session.Token)
	assert.False(t, session.CreatedAt.IsZero())
}

func TestAuthenticateStripsSecrets(t *testing.T) {
	auther, _ := newTestAuther(t)

	for _, seed := range auth.DefaultIdentities() {
		session, err := auther.Authenticate(context.Background(), seed.Email, seed.Secret)
		require.NoError(t, err, "seed %s", seed.Email)

		raw, err := json.Marshal(session.User)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), seed.Secret)
		assert.NotContains(t, string(raw), "secret")
	}
}

func TestAuthenticateFailureModesAreIdentical(t *testing.T) {
	auther, _ := newTestAuther(t)

	_, wrongSecret := auther.Authenticate(context.Background(), "jane@company.com", "wrong")
	_, unknownEmail := auther.Authenticate(context.Background(), "ghost@company.com", "jane123")

	require.Error(t, wrongSecret)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongSecret.Error(), unknownEmail.Error())
	assert.True(t, auth.IsInvalidCredentialsError(wrongSecret))
	assert.True(t, auth.IsInvalidCredentialsError(unknownEmail))
}

func TestAuthenticateMintsDistinctTokens(t *testing.T) {
	auther, _ := newTestAuther(t)

	first, err := auther.Authenticate(context.Background(), "admin@company.com", "admin123")
	require.NoError(t, err)
	second, err := auther.Authenticate(context.Background(), "admin@company.com", "admin123")
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestAuthenticateTokenCarriesIdentityClaims(t *testing.T) {
	auther, _ := newTestAuther(t)

	session, err := auther.Authenticate(context.Background(), "jane@company.com", "jane123")
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(session.Token, &auth.SessionClaims{}, func(*jwt.Token) (any, error) {
		return []byte("test-signing-key"), nil
	})
	require.NoError(t, err)

	claims, ok := parsed.Claims.(*auth.SessionClaims)
	require.True(t, ok)
	assert.Equal(t, "2", claims.UID)
	assert.Equal(t, "manager", claims.UserRole)
	assert.Equal(t, "xolva-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestAuthenticateHonorsCancellation(t *testing.T) {
	auther, _ := newTestAuther(t)
	auther.WithLatency(time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := auther.Authenticate(ctx, "admin@company.com", "admin123")
		done <- err
	}()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.False(t, auth.IsInvalidCredentialsError(err))
	case <-time.After(time.Second):
		t.Fatal("cancelled authenticate did not return")
	}
}

func TestAuthenticateEmitsActivityEvents(t *testing.T) {
	auther, _ := newTestAuther(t)

	var events []auth.ActivityEventType
	auther.WithActivitySink(auth.ActivitySinkFunc(func(_ context.Context, ev auth.ActivityEvent) error {
		events = append(events, ev.EventType)
		return nil
	}))

	_, err := auther.Authenticate(context.Background(), "admin@company.com", "admin123")
	require.NoError(t, err)
	_, err = auther.Authenticate(context.Background(), "admin@company.com", "wrong")
	require.Error(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, auth.ActivityEventLoginSuccess, events[0])
	assert.Equal(t, auth.ActivityEventLoginFailure, events[1])
}
