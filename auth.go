package auth

// Stack is the fully wired auth core the dashboard boots with: seeded
// credential store, token mint, authenticator, state manager, and session
// monitor, all sharing one logger and activity sink.
type Stack struct {
	Store   *CredentialStore
	Tokens  *TokenService
	Auther  *Auther
	Manager *Manager
	Monitor *SessionMonitor
}

// StackOption customizes Stack construction.
type StackOption func(*stackOptions)

type stackOptions struct {
	logger Logger
	sink   ActivitySink
}

// WithStackLogger sets the logger shared by every component.
func WithStackLogger(logger Logger) StackOption {
	return func(o *stackOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithStackActivitySink sets the activity sink shared by every component.
func WithStackActivitySink(sink ActivitySink) StackOption {
	return func(o *stackOptions) {
		o.sink = normalizeActivitySink(sink)
	}
}

// New validates cfg, seeds the store, and wires the core together. The
// monitor is constructed but not started; call Stack.Monitor.Start once the
// UI has registered its callbacks.
func New(cfg Config, seeds []IdentitySeed, opts ...StackOption) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := &stackOptions{
		logger: defLogger{},
		sink:   noopActivitySink{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(options)
		}
	}

	store, err := NewCredentialStore(seeds)
	if err != nil {
		return nil, err
	}
	store.WithLogger(options.logger)

	tokens := NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.GetTokenTTL(),
		cfg.Issuer,
		cfg.Audience,
		options.logger,
	)

	auther := NewAuthenticator(store, tokens).
		WithLogger(options.logger).
		WithActivitySink(options.sink).
		WithLatency(cfg.GetLoginLatency())

	manager := NewManager(auther,
		WithManagerLogger(options.logger),
		WithManagerActivitySink(options.sink),
		WithManagerStore(store),
	)

	monitor := NewSessionMonitor(manager,
		WithMonitorLogger(options.logger),
		WithMonitorActivitySink(options.sink),
		WithMonitorIntervals(cfg.GetSessionLifetime(), cfg.GetWarningLead(), cfg.GetTickInterval()),
	)

	return &Stack{
		Store:   store,
		Tokens:  tokens,
		Auther:  auther,
		Manager: manager,
		Monitor: monitor,
	}, nil
}

// Close stops the monitor and releases the manager.
func (s *Stack) Close() {
	s.Monitor.Stop()
	s.Manager.Close()
}
