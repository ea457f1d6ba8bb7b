package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// DefaultLoginLatency is the simulated network delay for the mock backend.
var DefaultLoginLatency = time.Second

// Auther validates credentials against a CredentialSource and produces
// sessions. The artificial latency stands in for the network round trip the
// prototype simulates; callers observe the in-flight phase through the
// Manager state while this call is pending.
type Auther struct {
	source  CredentialSource
	minter  TokenMinter
	latency time.Duration
	logger  Logger
	sink    ActivitySink
	now     func() time.Time
}

var _ Authenticator = (*Auther)(nil)

// NewAuthenticator returns a new Auther backed by source.
func NewAuthenticator(source CredentialSource, minter TokenMinter) *Auther {
	return &Auther{
		source:  source,
		minter:  minter,
		latency: DefaultLoginLatency,
		logger:  defLogger{},
		sink:    noopActivitySink{},
		now:     time.Now,
	}
}

func (a *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		a.logger = logger
	}
	return a
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (a *Auther) WithActivitySink(sink ActivitySink) *Auther {
	a.sink = normalizeActivitySink(sink)
	return a
}

// WithLatency overrides the simulated network delay. Zero disables it.
func (a *Auther) WithLatency(latency time.Duration) *Auther {
	a.latency = latency
	return a
}

// WithClock injects a custom clock (useful for tests).
func (a *Auther) WithClock(clock func() time.Time) *Auther {
	if clock != nil {
		a.now = clock
	}
	return a
}

// Authenticate checks credentials and mints a session. Exactly one of
// session/error is returned. Unknown email and wrong secret collapse into
// ErrInvalidCredentials so callers cannot enumerate accounts.
func (a *Auther) Authenticate(ctx context.Context, email, secret string) (*Session, error) {
	if a.latency > 0 {
		timer := time.NewTimer(a.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "authentication cancelled")
		}
	}

	user, err := a.source.VerifyIdentity(ctx, email, secret)
	if err != nil {
		a.logger.Info("authentication rejected for %s", email)
		a.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return nil, err
	}

	token, err := a.minter.Mint(user)
	if err != nil {
		a.logger.Error("session token mint failed: %v", err)
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to mint session token")
	}

	a.emitAuthEvent(ctx, ActivityEventLoginSuccess, user.ID, map[string]any{
		"email": user.Email,
		"role":  string(user.Role),
	})

	return &Session{
		User:      user,
		Token:     token,
		CreatedAt: a.now(),
	}, nil
}

func (a *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: a.now(),
	}
	if err := a.sink.Record(ctx, event); err != nil {
		a.logger.Warn("authenticator activity sink error: %v", err)
	}
}
