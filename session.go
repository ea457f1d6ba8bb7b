package auth

import (
	"fmt"
	"time"
)

// Session is the product of a successful authentication: a secret-free user
// copy, an opaque token unique to this login, and the creation instant. It
// is held exactly once, by the Manager, and destroyed on logout or expiry.
type Session struct {
	User      *User     `json:"user,omitempty"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UserID returns the session owner's id, or "" for a nil session.
func (s *Session) UserID() string {
	if s == nil || s.User == nil {
		return ""
	}
	return s.User.ID
}

// Age is the elapsed time since the session was created.
func (s *Session) Age(now time.Time) time.Duration {
	if s == nil {
		return 0
	}
	return now.Sub(s.CreatedAt)
}

func (s *Session) withUser(user *User) *Session {
	return &Session{
		User:      user,
		Token:     s.Token,
		CreatedAt: s.CreatedAt,
	}
}

func (s Session) String() string {
	return fmt.Sprintf(
		"Session user=%s created_at=%s token_len=%d",
		s.UserID(),
		s.CreatedAt.Format(time.RFC1123),
		len(s.Token),
	)
}
