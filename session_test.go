package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	auth "github.com/AshirAzeem-Developer/xolva-dashboard"
)

func TestSessionAccessors(t *testing.T) {
	created := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	session := &auth.Session{
		User:      &auth.User{ID: "2", Email: "jane@company.com"},
		Token:     "opaque-token",
		CreatedAt: created,
	}

	assert.Equal(t, "2", session.UserID())
	assert.Equal(t, 25*time.Minute, session.Age(created.Add(25*time.Minute)))
}

func TestSessionNilSafety(t *testing.T) {
	var session *auth.Session
	assert.Empty(t, session.UserID())
	assert.Equal(t, time.Duration(0), session.Age(time.Now()))
}

func TestSessionStringElidesToken(t *testing.T) {
	session := auth.Session{
		User:  &auth.User{ID: "2"},
		Token: "very-secret-token-material",
	}

	s := session.String()
	assert.Contains(t, s, "user=2")
	assert.NotContains(t, s, "very-secret-token-material")
}
