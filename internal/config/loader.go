package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies LIQMATRIX_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known LIQMATRIX_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── TwelveData ──
	setStr(&cfg.TwelveData.BaseURL, "LIQMATRIX_TWELVEDATA_BASE_URL")
	setStr(&cfg.TwelveData.WSURL, "LIQMATRIX_TWELVEDATA_WS_URL")
	setStr(&cfg.TwelveData.APIKey, "LIQMATRIX_TWELVEDATA_API_KEY")
	setStr(&cfg.TwelveData.APIKey, "TWELVE_DATA_API_KEY") // compatibility alias
	setInt(&cfg.TwelveData.CreditLimit, "LIQMATRIX_TWELVEDATA_CREDIT_LIMIT")
	setDuration(&cfg.TwelveData.CreditWindow, "LIQMATRIX_TWELVEDATA_CREDIT_WINDOW")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "LIQMATRIX_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "LIQMATRIX_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "LIQMATRIX_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "LIQMATRIX_REDIS_DB")
	setBool(&cfg.Redis.TLSEnabled, "LIQMATRIX_REDIS_TLS_ENABLED")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "LIQMATRIX_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramToken, "TELEGRAM_TOKEN") // compatibility alias
	setStr(&cfg.Notify.TelegramChatID, "LIQMATRIX_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.TelegramChatID, "TELEGRAM_CHAT_ID") // compatibility alias
	setStr(&cfg.Notify.DiscordWebhookURL, "LIQMATRIX_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "LIQMATRIX_NOTIFY_EVENTS")

	// ── Schedule ──
	setStr(&cfg.Schedule.Timezone, "LIQMATRIX_SCHEDULE_TIMEZONE")
	setStr(&cfg.Schedule.PreSessionCron, "LIQMATRIX_SCHEDULE_PRE_SESSION_CRON")
	setStr(&cfg.Schedule.PostOpenCron, "LIQMATRIX_SCHEDULE_POST_OPEN_CRON")
	setBool(&cfg.Schedule.Weekends, "LIQMATRIX_SCHEDULE_WEEKENDS")

	// ── Scanner ──
	setStringSlice(&cfg.Scanner.Symbols, "LIQMATRIX_SCANNER_SYMBOLS")
	setStr(&cfg.Scanner.CoarseInterval, "LIQMATRIX_SCANNER_COARSE_INTERVAL")
	setStr(&cfg.Scanner.FineInterval, "LIQMATRIX_SCANNER_FINE_INTERVAL")
	setInt(&cfg.Scanner.CoarseBars, "LIQMATRIX_SCANNER_COARSE_BARS")
	setInt(&cfg.Scanner.FineBars, "LIQMATRIX_SCANNER_FINE_BARS")

	// ── Engine ──
	setInt(&cfg.Engine.Lookback, "LIQMATRIX_ENGINE_LOOKBACK")
	setInt(&cfg.Engine.MinCandles, "LIQMATRIX_ENGINE_MIN_CANDLES")
	setFloat64(&cfg.Engine.BullWickRatio, "LIQMATRIX_ENGINE_BULL_WICK_RATIO")
	setFloat64(&cfg.Engine.BearWickRatio, "LIQMATRIX_ENGINE_BEAR_WICK_RATIO")
	setFloat64(&cfg.Engine.RewardRatio, "LIQMATRIX_ENGINE_REWARD_RATIO")
	setInt(&cfg.Engine.RetestTouches, "LIQMATRIX_ENGINE_RETEST_TOUCHES")
	setInt(&cfg.Engine.RetestWindow, "LIQMATRIX_ENGINE_RETEST_WINDOW")
	setInt(&cfg.Engine.ConfirmWindow, "LIQMATRIX_ENGINE_CONFIRM_WINDOW")
	setFloat64(&cfg.Engine.RetestTolerance, "LIQMATRIX_ENGINE_RETEST_TOLERANCE")
	setInt(&cfg.Engine.LiquidityWindow, "LIQMATRIX_ENGINE_LIQUIDITY_WINDOW")

	// ── Top-level ──
	setStr(&cfg.Mode, "LIQMATRIX_MODE")
	setStr(&cfg.LogLevel, "LIQMATRIX_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
