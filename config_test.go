package auth_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/AshirAzeem-Developer/xolva-dashboard"
)

func TestDefaultConfig(t *testing.T) {
	cfg := auth.DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 30*time.Minute, cfg.GetSessionLifetime())
	assert.Equal(t, 5*time.Minute, cfg.GetWarningLead())
	assert.Equal(t, time.Second, cfg.GetTickInterval())
	assert.Equal(t, time.Second, cfg.GetLoginLatency())
}

func TestLoadConfigMissingFileKeepsDefaults(t *testing.T) {
	cfg, err := auth.LoadConfig(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)
	assert.Equal(t, auth.DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.yml")
	content := []byte("session_lifetime: 900\nwarning_lead: 120\nissuer: staging-dashboard\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := auth.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 15*time.Minute, cfg.GetSessionLifetime())
	assert.Equal(t, 2*time.Minute, cfg.GetWarningLead())
	assert.Equal(t, "staging-dashboard", cfg.Issuer)
	// untouched keys keep their defaults
	assert.Equal(t, time.Second, cfg.GetTickInterval())
	assert.Equal(t, auth.DefaultConfig().SigningKey, cfg.SigningKey)
}

func TestConfigValidation(t *testing.T) {
	cfg := auth.DefaultConfig()
	cfg.WarningLead = cfg.SessionLifetime
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "warning lead")

	cfg = auth.DefaultConfig()
	cfg.SigningKey = ""
	assert.Error(t, cfg.Validate())

	cfg = auth.DefaultConfig()
	cfg.TickInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.yml")
	require.NoError(t, os.WriteFile(path, []byte("session_lifetime: [nope"), 0o600))

	_, err := auth.LoadConfig(path)
	assert.Error(t, err)
}

func TestStackWiring(t *testing.T) {
	cfg := auth.DefaultConfig()
	cfg.LoginLatency = 0
	cfg.SessionLifetime = 2
	cfg.WarningLead = 1
	cfg.TickInterval = 1

	stack, err := auth.New(cfg, auth.DefaultIdentities())
	require.NoError(t, err)
	defer stack.Close()

	stack.Monitor.Start()
	stack.Manager.Login("admin@company.com", "admin123")
	waitForPhase(t, stack.Manager, auth.PhaseAuthenticated)

	assert.True(t, stack.Manager.IsAdmin())
	require.Eventually(t, stack.Monitor.Watching, time.Second, 5*time.Millisecond)
}

func TestStackRejectsInvalidSeeds(t *testing.T) {
	bad := []auth.IdentitySeed{{User: auth.User{ID: "9"}, Secret: ""}}
	_, err := auth.New(auth.DefaultConfig(), bad)
	assert.Error(t, err)
}
