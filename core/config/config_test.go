package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Telegram.AdminID = 1000
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, "$", cfg.Orders.Currency)
}

func TestNormalizeRequiredFields(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	assert.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Telegram.AdminID = 0
	assert.Error(t, Normalize(cfg))
}

func TestNormalizeRunModes(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	assert.Error(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	assert.Error(t, Normalize(cfg), "webhook mode requires url, listen, and port")

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook.URL = "https://bot.example.com/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	require.NoError(t, Normalize(cfg))
}

func TestLoadFromEnvOnly(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "1000")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(1000), cfg.Telegram.AdminID)
	assert.Equal(t, "$", cfg.Orders.Currency)
}

func TestLoadMissingFileFallsBackToEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_ID", "1000")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `telegram:
  token: from-file
  admin_id: 1000
orders:
  currency: "€"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Telegram.Token, "environment wins over the file")
	assert.Equal(t, int64(1000), cfg.Telegram.AdminID)
	assert.Equal(t, "€", cfg.Orders.Currency)
}
