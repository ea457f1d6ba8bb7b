package auth

import (
	"math"
	"sync"
	"time"
)

const (
	// DefaultSessionLifetime is the total mock session lifetime.
	DefaultSessionLifetime = 30 * time.Minute
	// DefaultWarningLead is how long before expiry the advisory fires.
	DefaultWarningLead = 5 * time.Minute
	// DefaultTickInterval is the watchdog check resolution.
	DefaultTickInterval = time.Second
)

// MonitorOption customizes SessionMonitor construction.
type MonitorOption func(*SessionMonitor)

// WithMonitorClock injects a custom clock (useful for tests).
func WithMonitorClock(clock func() time.Time) MonitorOption {
	return func(sm *SessionMonitor) {
		if clock != nil {
			sm.now = clock
		}
	}
}

// WithMonitorLogger overrides the monitor logger.
func WithMonitorLogger(logger Logger) MonitorOption {
	return func(sm *SessionMonitor) {
		if logger != nil {
			sm.logger = logger
		}
	}
}

// WithMonitorActivitySink sets the ActivitySink for session events.
func WithMonitorActivitySink(sink ActivitySink) MonitorOption {
	return func(sm *SessionMonitor) {
		sm.sink = normalizeActivitySink(sink)
	}
}

// WithMonitorIntervals overrides lifetime, warning lead, and tick. Zero
// values keep the defaults.
func WithMonitorIntervals(lifetime, warningLead, tick time.Duration) MonitorOption {
	return func(sm *SessionMonitor) {
		if lifetime > 0 {
			sm.lifetime = lifetime
		}
		if warningLead > 0 {
			sm.warningLead = warningLead
		}
		if tick > 0 {
			sm.tick = tick
		}
	}
}

// SessionMonitor is the ticking watchdog over the authenticated session.
// It runs only while the Manager is authenticated: the subscription starts a
// watch per session and tears it down on any exit from the authenticated
// phase, so no timer outlives its session.
//
// Inside the warning window the expiring-soon advisory fires exactly once
// per threshold crossing; Renew moves the expiry baseline (the token is
// deliberately left unchanged) and re-arms the advisory.
type SessionMonitor struct {
	mu          sync.Mutex
	mgr         *Manager
	lifetime    time.Duration
	warningLead time.Duration
	tick        time.Duration
	now         func() time.Time
	logger      Logger
	sink        ActivitySink

	onExpiringSoon func(secondsRemaining int)
	onExpired      func()

	unsubscribe func()
	stopCh      chan struct{}
	baseline    time.Time
	token       string
	warned      bool
}

// NewSessionMonitor wires a monitor to mgr. Call Start to begin watching.
func NewSessionMonitor(mgr *Manager, opts ...MonitorOption) *SessionMonitor {
	sm := &SessionMonitor{
		mgr:         mgr,
		lifetime:    DefaultSessionLifetime,
		warningLead: DefaultWarningLead,
		tick:        DefaultTickInterval,
		now:         time.Now,
		logger:      defLogger{},
		sink:        noopActivitySink{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(sm)
		}
	}

	return sm
}

// OnExpiringSoon registers the advisory callback. The argument is the whole
// seconds remaining at the moment the warning window is entered.
func (sm *SessionMonitor) OnExpiringSoon(fn func(secondsRemaining int)) *SessionMonitor {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onExpiringSoon = fn
	return sm
}

// OnExpired registers the expiry callback, invoked once right before the
// forced logout.
func (sm *SessionMonitor) OnExpired(fn func()) *SessionMonitor {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onExpired = fn
	return sm
}

// Start subscribes the monitor to the Manager and, if a session is already
// active, begins watching it immediately.
func (sm *SessionMonitor) Start() {
	sm.mu.Lock()
	if sm.unsubscribe != nil {
		sm.mu.Unlock()
		return
	}
	sm.mu.Unlock()

	unsub := sm.mgr.Subscribe(sm.handleState)

	sm.mu.Lock()
	sm.unsubscribe = unsub
	sm.mu.Unlock()

	sm.handleState(sm.mgr.State())
}

// Stop detaches from the Manager and cancels any running watch.
func (sm *SessionMonitor) Stop() {
	sm.mu.Lock()
	unsub := sm.unsubscribe
	sm.unsubscribe = nil
	sm.stopWatchLocked()
	sm.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

// Renew resets the expiry baseline to now and clears a pending advisory.
// The session and its token are untouched; whether renewal should mint a
// fresh token is a product decision deferred for the hardened rewrite.
func (sm *SessionMonitor) Renew() {
	sm.mu.Lock()
	if sm.stopCh == nil {
		sm.mu.Unlock()
		return
	}
	sm.baseline = sm.now()
	sm.warned = false
	userID := sm.mgr.State().Session.UserID()
	sm.mu.Unlock()

	sm.record(ActivityEventSessionRenewed, userID, nil)
}

// ForceLogout ends the session on the user's behalf (the sign-out button in
// the expiry dialog).
func (sm *SessionMonitor) ForceLogout() {
	sm.mgr.Logout()
}

// Watching reports whether a session is currently under watch.
func (sm *SessionMonitor) Watching() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.stopCh != nil
}

// Remaining returns the time left before forced logout, zero when idle.
func (sm *SessionMonitor) Remaining() time.Duration {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.stopCh == nil {
		return 0
	}
	remaining := sm.lifetime - sm.now().Sub(sm.baseline)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (sm *SessionMonitor) handleState(state AuthState) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !state.IsAuthenticated() {
		sm.stopWatchLocked()
		return
	}

	if sm.stopCh != nil && sm.token == state.Session.Token {
		// same session, e.g. a profile merge; keep the running watch
		return
	}

	sm.stopWatchLocked()
	sm.token = state.Session.Token
	sm.baseline = state.Session.CreatedAt
	sm.warned = false
	sm.stopCh = make(chan struct{})
	go sm.watch(sm.stopCh)
}

func (sm *SessionMonitor) stopWatchLocked() {
	if sm.stopCh != nil {
		close(sm.stopCh)
		sm.stopCh = nil
		sm.token = ""
		sm.warned = false
	}
}

func (sm *SessionMonitor) watch(stop chan struct{}) {
	ticker := time.NewTicker(sm.tick)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if sm.check() {
				return
			}
		}
	}
}

// check runs one watchdog pass. Reports true when the session expired and
// the watch should end.
func (sm *SessionMonitor) check() bool {
	sm.mu.Lock()

	if sm.stopCh == nil {
		sm.mu.Unlock()
		return true
	}

	remaining := sm.lifetime - sm.now().Sub(sm.baseline)

	if remaining <= 0 {
		userID := sm.mgr.State().Session.UserID()
		sm.stopWatchLocked()
		onExpired := sm.onExpired
		sm.mu.Unlock()

		sm.logger.Info("session expired, forcing logout")
		sm.record(ActivityEventSessionExpired, userID, nil)
		if onExpired != nil {
			onExpired()
		}
		sm.mgr.LogoutWithReason(ErrSessionExpired)
		return true
	}

	if remaining <= sm.warningLead && !sm.warned {
		sm.warned = true
		seconds := int(math.Ceil(remaining.Seconds()))
		userID := sm.mgr.State().Session.UserID()
		onWarn := sm.onExpiringSoon
		sm.mu.Unlock()

		sm.logger.Debug("session expiring in %ds", seconds)
		sm.record(ActivityEventSessionWarning, userID, map[string]any{"seconds_remaining": seconds})
		if onWarn != nil {
			onWarn(seconds)
		}
		return false
	}

	if sm.warned && remaining > sm.warningLead {
		// baseline moved back out of the window; re-arm the advisory
		sm.warned = false
	}

	sm.mu.Unlock()
	return false
}

func (sm *SessionMonitor) record(eventType ActivityEventType, userID string, metadata map[string]any) {
	event := ActivityEvent{
		EventType:  eventType,
		UserID:     userID,
		Metadata:   metadata,
		OccurredAt: sm.now(),
	}
	if err := sm.sink.Record(sm.mgr.ctx, event); err != nil {
		sm.logger.Warn("session monitor activity sink error: %v", err)
	}
}
