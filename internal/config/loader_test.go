package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTOML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	path := writeTOML(t, `
mode = "scan"

[twelvedata]
api_key = "file-key"
credit_window = "30s"

[scanner]
symbols = ["XAU/USD"]
fine_bars = 120

[engine.instruments."XAU/USD"]
stop_buffer = 0.07
precision = 3
confidence_long = 0.9
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// From the file.
	assert.Equal(t, "scan", cfg.Mode)
	assert.Equal(t, "file-key", cfg.TwelveData.APIKey)
	assert.Equal(t, 30*time.Second, cfg.TwelveData.CreditWindow.Duration)
	assert.Equal(t, []string{"XAU/USD"}, cfg.Scanner.Symbols)
	assert.Equal(t, 120, cfg.Scanner.FineBars)

	inst, ok := cfg.Engine.Instruments["XAU/USD"]
	require.True(t, ok)
	assert.Equal(t, 0.07, inst.StopBuffer)
	assert.Equal(t, 3, inst.Precision)
	assert.Equal(t, 0.9, inst.ConfidenceLong)

	// Defaults survive where the file is silent.
	assert.Equal(t, "https://api.twelvedata.com", cfg.TwelveData.BaseURL)
	assert.Equal(t, 96, cfg.Scanner.CoarseBars)
	assert.Equal(t, "Asia/Karachi", cfg.Schedule.Timezone)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeTOML(t, `
[twelvedata]
api_key = "file-key"

[notify]
telegram_token = "file-token"
`)

	t.Setenv("LIQMATRIX_TWELVEDATA_API_KEY", "env-key")
	t.Setenv("LIQMATRIX_NOTIFY_TELEGRAM_CHAT_ID", "99")
	t.Setenv("LIQMATRIX_SCANNER_SYMBOLS", "XAU/USD, ETH/USD")
	t.Setenv("LIQMATRIX_MODE", "watch")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.TwelveData.APIKey)
	assert.Equal(t, "file-token", cfg.Notify.TelegramToken)
	assert.Equal(t, "99", cfg.Notify.TelegramChatID)
	assert.Equal(t, []string{"XAU/USD", "ETH/USD"}, cfg.Scanner.Symbols)
	assert.Equal(t, "watch", cfg.Mode)
}

func TestLoad_CompatibilityAliases(t *testing.T) {
	path := writeTOML(t, "")

	t.Setenv("TWELVE_DATA_API_KEY", "legacy-key")
	t.Setenv("TELEGRAM_TOKEN", "legacy-token")
	t.Setenv("TELEGRAM_CHAT_ID", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "legacy-key", cfg.TwelveData.APIKey)
	assert.Equal(t, "legacy-token", cfg.Notify.TelegramToken)
	assert.Equal(t, "7", cfg.Notify.TelegramChatID)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}

func TestLoad_MalformedEnvValuesIgnored(t *testing.T) {
	path := writeTOML(t, "")

	t.Setenv("LIQMATRIX_SCANNER_COARSE_BARS", "not-a-number")
	t.Setenv("LIQMATRIX_REDIS_ENABLED", "definitely")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 96, cfg.Scanner.CoarseBars)
	assert.False(t, cfg.Redis.Enabled)
}
