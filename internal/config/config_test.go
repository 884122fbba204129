package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, "server:\n  addr: \"\"\n"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, "memory", c.Storage.Driver)
	assert.Equal(t, "memory", c.Cache.Kind)
	assert.Equal(t, time.Hour, c.Auth.Reset.TTL)
	assert.Equal(t, 24*time.Hour, c.Auth.Verify.TTL)
	assert.Equal(t, 10, c.Security.PasswordPolicy.MinLength)
	assert.Equal(t, 5, c.Rate.Forgot.Limit)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9999")
	t.Setenv("AUTH_VERIFY_TTL", "48h")

	c, err := Load(writeConfig(t, "storage:\n  driver: memory\n"))
	require.NoError(t, err)
	assert.Equal(t, ":9999", c.Server.Addr)
	assert.Equal(t, 48*time.Hour, c.Auth.Verify.TTL)
}

func TestValidateRejectsBadDriver(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: oracle\n"))
	assert.Error(t, err)
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	_, err := Load(writeConfig(t, "storage:\n  driver: postgres\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "storage:\n  driver: postgres\n  dsn: postgres://localhost/gestoria\n"))
	assert.NoError(t, err)
}

func TestValidateProdNeedsJWTSecret(t *testing.T) {
	_, err := Load(writeConfig(t, "app:\n  app_env: prod\n"))
	assert.Error(t, err)
}
