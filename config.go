package auth

import (
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"
)

// Config carries the tunable knobs of the auth core. All durations are
// whole seconds in YAML; use the Get* accessors for time.Duration values.
type Config struct {
	SigningKey      string   `yaml:"signing_key"`
	Issuer          string   `yaml:"issuer"`
	Audience        []string `yaml:"audience"`
	TokenTTL        int      `yaml:"token_ttl"`
	LoginLatency    int      `yaml:"login_latency"`
	SessionLifetime int      `yaml:"session_lifetime"`
	WarningLead     int      `yaml:"warning_lead"`
	TickInterval    int      `yaml:"tick_interval"`
}

// DefaultConfig returns the prototype defaults: 30 minute sessions, a 5
// minute warning window, 1 second ticks, and a 1 second simulated login
// round trip.
func DefaultConfig() Config {
	return Config{
		SigningKey:      "xolva-dashboard-dev-key",
		Issuer:          "xolva-dashboard",
		Audience:        []string{"dashboard"},
		TokenTTL:        int(DefaultSessionLifetime / time.Second),
		LoginLatency:    int(DefaultLoginLatency / time.Second),
		SessionLifetime: int(DefaultSessionLifetime / time.Second),
		WarningLead:     int(DefaultWarningLead / time.Second),
		TickInterval:    int(DefaultTickInterval / time.Second),
	}
}

// LoadConfig reads a YAML file over the defaults. A missing path returns
// the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, goerrors.Wrap(err, goerrors.CategoryOperation, "failed to read config file")
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse config file")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate enforces the relationships the monitor depends on, notably that
// the warning lead fits inside the session lifetime.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.SigningKey, validation.Required),
		validation.Field(&c.SessionLifetime, validation.Required, validation.Min(1)),
		validation.Field(&c.WarningLead, validation.Required, validation.Min(1)),
		validation.Field(&c.TickInterval, validation.Required, validation.Min(1)),
		validation.Field(&c.LoginLatency, validation.Min(0)),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid auth config")
	}

	if c.WarningLead >= c.SessionLifetime {
		return goerrors.New("warning lead must be shorter than session lifetime", goerrors.CategoryValidation)
	}

	return nil
}

// GetTokenTTL returns the token lifetime as a Duration.
func (c Config) GetTokenTTL() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// GetLoginLatency returns the simulated login delay as a Duration.
func (c Config) GetLoginLatency() time.Duration {
	return time.Duration(c.LoginLatency) * time.Second
}

// GetSessionLifetime returns the session lifetime as a Duration.
func (c Config) GetSessionLifetime() time.Duration {
	return time.Duration(c.SessionLifetime) * time.Second
}

// GetWarningLead returns the advisory lead time as a Duration.
func (c Config) GetWarningLead() time.Duration {
	return time.Duration(c.WarningLead) * time.Second
}

// GetTickInterval returns the watchdog resolution as a Duration.
func (c Config) GetTickInterval() time.Duration {
	return time.Duration(c.TickInterval) * time.Second
}
