package auth

import (
	"context"
	"sync"
	"time"
)

// Phase is the tag of the auth state union. Exactly one phase is active at
// any time; every invariant below hangs off that.
type Phase string

const (
	PhaseAnonymous      Phase = "anonymous"
	PhaseAuthenticating Phase = "authenticating"
	PhaseAuthenticated  Phase = "authenticated"
	PhaseFailed         Phase = "failed"
)

// AuthState is the snapshot handed to subscribers and returned by State().
// Session is non-nil iff Phase is PhaseAuthenticated; Err is non-nil iff
// Phase is PhaseFailed.
type AuthState struct {
	Phase   Phase
	Session *Session
	Err     error
}

// IsAuthenticated is true iff the state holds a session.
func (s AuthState) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}

// IsLoading is true while a login attempt is in flight.
func (s AuthState) IsLoading() bool {
	return s.Phase == PhaseAuthenticating
}

// User returns the authenticated user, nil otherwise.
func (s AuthState) User() *User {
	if s.Session == nil {
		return nil
	}
	return s.Session.User
}

// Token returns the session token, "" outside PhaseAuthenticated.
func (s AuthState) Token() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.Token
}

func (s AuthState) equal(other AuthState) bool {
	return s.Phase == other.Phase && s.Session == other.Session && s.Err == other.Err
}

type eventKind string

const (
	eventLoginStart   eventKind = "login.start"
	eventLoginSuccess eventKind = "login.success"
	eventLoginFailure eventKind = "login.failure"
	eventLogout       eventKind = "logout"
	eventProfileMerge eventKind = "profile.merge"
)

type authEvent struct {
	kind    eventKind
	session *Session
	err     error
	update  ProfileUpdate
}

// reduce is the pure transition function over the state union. Unhandled
// event/state pairs return the state unchanged, which makes logout
// idempotent and drops profile updates outside PhaseAuthenticated.
func reduce(state AuthState, ev authEvent) AuthState {
	switch ev.kind {
	case eventLoginStart:
		// re-entry from PhaseFailed clears the prior reason
		return AuthState{Phase: PhaseAuthenticating}
	case eventLoginSuccess:
		if state.Phase != PhaseAuthenticating {
			return state
		}
		return AuthState{Phase: PhaseAuthenticated, Session: ev.session}
	case eventLoginFailure:
		if state.Phase != PhaseAuthenticating {
			return state
		}
		return AuthState{Phase: PhaseFailed, Err: ev.err}
	case eventLogout:
		return AuthState{Phase: PhaseAnonymous}
	case eventProfileMerge:
		if state.Phase != PhaseAuthenticated || ev.update.IsZero() {
			return state
		}
		merged := ev.update.applyTo(state.Session.User)
		return AuthState{Phase: PhaseAuthenticated, Session: state.Session.withUser(merged)}
	default:
		return state
	}
}

// ManagerOption customizes Manager construction.
type ManagerOption func(*Manager)

// WithManagerClock injects a custom clock (useful for tests).
func WithManagerClock(clock func() time.Time) ManagerOption {
	return func(m *Manager) {
		if clock != nil {
			m.now = clock
		}
	}
}

// WithManagerLogger overrides the manager logger.
func WithManagerLogger(logger Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerActivitySink sets the ActivitySink used for transition events.
func WithManagerActivitySink(sink ActivitySink) ManagerOption {
	return func(m *Manager) {
		m.sink = normalizeActivitySink(sink)
	}
}

// WithManagerStore wires the credential store for online/profile
// bookkeeping after transitions. Optional; without it the registry simply
// never learns about logins.
func WithManagerStore(store *CredentialStore) ManagerOption {
	return func(m *Manager) {
		m.store = store
	}
}

// Manager owns the auth state: the single writer every consumer reads from.
// Transitions are serialized under one mutex; subscribers are invoked with
// the full snapshot after the lock is released, so callbacks may call back
// into the Manager.
type Manager struct {
	mu      sync.Mutex
	authn   Authenticator
	store   *CredentialStore
	logger  Logger
	sink    ActivitySink
	now     func() time.Time
	ctx     context.Context
	cancel  context.CancelFunc
	state   AuthState
	subs    map[int]Subscriber
	subIDs  []int
	nextSub int
	attempt uint64
}

// NewManager creates the state container. The zero state is anonymous.
func NewManager(authn Authenticator, opts ...ManagerOption) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		authn:  authn,
		logger: defLogger{},
		sink:   noopActivitySink{},
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		state:  AuthState{Phase: PhaseAnonymous},
		subs:   map[int]Subscriber{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	return m
}

// Close cancels any in-flight login and drops all subscribers.
func (m *Manager) Close() {
	m.cancel()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = map[int]Subscriber{}
	m.subIDs = nil
}

// State returns the current snapshot, always consistent with the most
// recent transition.
func (m *Manager) State() AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers fn for state snapshots and returns an unsubscribe
// func. The current state is not replayed; subscribers that need it read
// State() first.
func (m *Manager) Subscribe(fn Subscriber) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subIDs = append(m.subIDs, id)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Login starts an authentication attempt. Fire-and-forget: the result is
// observed through the state subscription. A newer Login supersedes any
// attempt still in flight; the stale resolution is discarded on arrival.
func (m *Manager) Login(email, secret string) {
	m.mu.Lock()
	m.attempt++
	attempt := m.attempt
	notify := m.applyLocked(authEvent{kind: eventLoginStart})
	m.mu.Unlock()
	notify()

	go m.resolveLogin(attempt, email, secret)
}

func (m *Manager) resolveLogin(attempt uint64, email, secret string) {
	session, err := m.authn.Authenticate(m.ctx, email, secret)

	m.mu.Lock()

	if attempt != m.attempt {
		m.mu.Unlock()
		m.logger.Debug("discarding superseded login resolution (attempt %d)", attempt)
		return
	}
	if m.state.Phase != PhaseAuthenticating {
		// logged out while the attempt was in flight
		m.mu.Unlock()
		return
	}

	var notify func()
	if err != nil {
		notify = m.applyLocked(authEvent{kind: eventLoginFailure, err: err})
	} else {
		notify = m.applyLocked(authEvent{kind: eventLoginSuccess, session: session})
		if m.store != nil {
			m.store.MarkOnline(session.UserID(), true, m.now())
		}
	}
	m.mu.Unlock()
	notify()
}

// Logout destroys the session from any state. Idempotent: logging out while
// anonymous is a no-op and notifies nobody.
func (m *Manager) Logout() {
	m.LogoutWithReason(nil)
}

// LogoutWithReason is Logout with an audit annotation, used by the session
// monitor to distinguish expiry from a user-initiated sign-out. The reason
// is not carried into the resulting state; the terminal state is plain
// anonymous.
func (m *Manager) LogoutWithReason(reason error) {
	m.mu.Lock()

	userID := m.state.Session.UserID()
	had := m.state.Phase == PhaseAuthenticated

	notify := m.applyLocked(authEvent{kind: eventLogout})

	if had {
		if m.store != nil {
			m.store.MarkOnline(userID, false, m.now())
		}
		var metadata map[string]any
		if reason != nil {
			metadata = map[string]any{"reason": reason.Error()}
		}
		m.recordLocked(ActivityEventLogout, userID, metadata)
	}
	m.mu.Unlock()
	notify()
}

// UpdateProfile shallow-merges the partial update into the authenticated
// user. Outside PhaseAuthenticated it is a no-op.
func (m *Manager) UpdateProfile(update ProfileUpdate) {
	m.mu.Lock()

	if m.state.Phase != PhaseAuthenticated {
		m.mu.Unlock()
		m.logger.Debug("profile update ignored outside authenticated state")
		return
	}

	notify := m.applyLocked(authEvent{kind: eventProfileMerge, update: update})

	userID := m.state.Session.UserID()
	if !update.IsZero() {
		if m.store != nil {
			m.store.ApplyProfile(userID, update)
		}
		m.recordLocked(ActivityEventProfileUpdated, userID, nil)
	}
	m.mu.Unlock()
	notify()
}

// CurrentUser returns the authenticated user, nil otherwise.
func (m *Manager) CurrentUser() *User {
	return m.State().User()
}

// HasPermission checks the current user's grant for resource/action.
func (m *Manager) HasPermission(resource string, action Action) bool {
	return HasPermission(m.CurrentUser(), resource, action)
}

// IsAdmin checks the current user's role.
func (m *Manager) IsAdmin() bool {
	return IsAdmin(m.CurrentUser())
}

// IsManager is true when the current user is a manager or admin.
func (m *Manager) IsManager() bool {
	return IsManager(m.CurrentUser())
}

// CanEditTask applies the task edit policy to the current user.
func (m *Manager) CanEditTask(task Task) bool {
	return CanEditTask(m.CurrentUser(), task)
}

// CanDeleteTask applies the task delete policy to the current user.
func (m *Manager) CanDeleteTask(task Task) bool {
	return CanDeleteTask(m.CurrentUser(), task)
}

// applyLocked reduces the event and stages the broadcast. Must hold m.mu.
// The returned func carries the snapshot to subscribers and must be called
// after the lock is released; it is a no-op when nothing changed.
func (m *Manager) applyLocked(ev authEvent) func() {
	next := reduce(m.state, ev)
	if next.equal(m.state) {
		return func() {}
	}

	from := m.state.Phase
	m.state = next
	m.logger.Debug("auth state %s -> %s", from, next.Phase)

	snapshot := m.state
	subs := make([]Subscriber, 0, len(m.subs))
	for _, id := range m.subIDs {
		if fn, ok := m.subs[id]; ok {
			subs = append(subs, fn)
		}
	}

	return func() {
		for _, fn := range subs {
			fn(snapshot)
		}
	}
}

// recordLocked emits an activity event; sink errors are logged, never
// propagated. Must hold m.mu.
func (m *Manager) recordLocked(eventType ActivityEventType, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		ToPhase:    m.state.Phase,
		Metadata:   metadata,
		OccurredAt: m.now(),
	}
	if err := m.sink.Record(m.ctx, event); err != nil {
		m.logger.Warn("manager activity sink error: %v", err)
	}
}
