// Package config defines the top-level configuration for the liquidity
// matrix scanner and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by LIQMATRIX_* environment variables.
type Config struct {
	TwelveData TwelveDataConfig `toml:"twelvedata"`
	Redis      RedisConfig      `toml:"redis"`
	Notify     NotifyConfig     `toml:"notify"`
	Schedule   ScheduleConfig   `toml:"schedule"`
	Scanner    ScannerConfig    `toml:"scanner"`
	Engine     EngineConfig     `toml:"engine"`
	Mode       string           `toml:"mode"`
	LogLevel   string           `toml:"log_level"`
}

// TwelveDataConfig holds the market-data API endpoints and credit budget.
type TwelveDataConfig struct {
	BaseURL string `toml:"base_url"`
	WSURL   string `toml:"ws_url"`
	APIKey  string `toml:"api_key"`
	// CreditLimit requests are allowed per CreditWindow across all workers.
	CreditLimit  int      `toml:"credit_limit"`
	CreditWindow duration `toml:"credit_window"`
}

// RedisConfig holds Redis connection parameters. Redis is optional; when
// disabled the scanner fetches every series directly from the upstream API.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// ScheduleConfig holds the session cron expressions. Both expressions are
// evaluated in Timezone (an IANA name like "Asia/Karachi").
type ScheduleConfig struct {
	Timezone       string `toml:"timezone"`
	PreSessionCron string `toml:"pre_session_cron"`
	PostOpenCron   string `toml:"post_open_cron"`
	// Weekends enables triggers on Saturday and Sunday.
	Weekends bool `toml:"weekends"`
}

// ScannerConfig holds the symbols to scan and the candle windows fetched for
// each one.
type ScannerConfig struct {
	Symbols        []string `toml:"symbols"`
	CoarseInterval string   `toml:"coarse_interval"`
	FineInterval   string   `toml:"fine_interval"`
	CoarseBars     int      `toml:"coarse_bars"`
	FineBars       int      `toml:"fine_bars"`
}

// EngineConfig holds the detection thresholds. Zero values fall back to the
// engine's built-in defaults.
type EngineConfig struct {
	Lookback        int                         `toml:"lookback"`
	MinCandles      int                         `toml:"min_candles"`
	BullWickRatio   float64                     `toml:"bull_wick_ratio"`
	BearWickRatio   float64                     `toml:"bear_wick_ratio"`
	RewardRatio     float64                     `toml:"reward_ratio"`
	RetestTouches   int                         `toml:"retest_touches"`
	RetestWindow    int                         `toml:"retest_window"`
	ConfirmWindow   int                         `toml:"confirm_window"`
	RetestTolerance float64                     `toml:"retest_tolerance"`
	LiquidityWindow int                         `toml:"liquidity_window"`
	Instruments     map[string]InstrumentConfig `toml:"instruments"`
}

// InstrumentConfig holds the per-instrument risk parameters.
type InstrumentConfig struct {
	StopBuffer      float64 `toml:"stop_buffer"`
	RiskUnit        float64 `toml:"risk_unit"`
	EntryOffset     float64 `toml:"entry_offset"`
	Precision       int     `toml:"precision"`
	ConfidenceLong  float64 `toml:"confidence_long"`
	ConfidenceShort float64 `toml:"confidence_short"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "1m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "1m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		TwelveData: TwelveDataConfig{
			BaseURL:      "https://api.twelvedata.com",
			WSURL:        "wss://ws.twelvedata.com/v1/quotes/price",
			CreditLimit:  8,
			CreditWindow: duration{time.Minute},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			TLSEnabled: false,
		},
		Notify: NotifyConfig{
			Events: []string{"pre_session", "setup", "no_setup", "scan_error"},
		},
		Schedule: ScheduleConfig{
			Timezone:       "Asia/Karachi",
			PreSessionCron: "55 16 * * *",
			PostOpenCron:   "5 17 * * *",
			Weekends:       false,
		},
		Scanner: ScannerConfig{
			Symbols:        []string{"XAU/USD", "BTC/USD"},
			CoarseInterval: "15min",
			FineInterval:   "5min",
			CoarseBars:     96,
			FineBars:       288,
		},
		Mode:     "schedule",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":     true,
	"schedule": true,
	"watch":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validIntervals enumerates the accepted candle resolutions.
var validIntervals = map[string]bool{
	"15min": true,
	"5min":  true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	// Mode
	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, schedule, watch)", c.Mode))
	}

	// LogLevel
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// TwelveData
	if c.TwelveData.APIKey == "" {
		errs = append(errs, "twelvedata: api_key must not be empty")
	}
	if c.TwelveData.BaseURL == "" {
		errs = append(errs, "twelvedata: base_url must not be empty")
	}
	if c.TwelveData.CreditLimit < 1 {
		errs = append(errs, "twelvedata: credit_limit must be >= 1")
	}
	if c.TwelveData.CreditWindow.Duration <= 0 {
		errs = append(errs, "twelvedata: credit_window must be positive")
	}

	// Redis
	if c.Redis.Enabled && c.Redis.Addr == "" {
		errs = append(errs, "redis: addr must not be empty when enabled")
	}

	// Telegram credentials must be set together, or both empty.
	tt := c.Notify.TelegramToken != ""
	tc := c.Notify.TelegramChatID != ""
	if tt != tc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	// Schedule
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("schedule: unknown timezone %q", c.Schedule.Timezone))
	}
	if strings.TrimSpace(c.Schedule.PreSessionCron) == "" {
		errs = append(errs, "schedule: pre_session_cron must not be empty")
	}
	if strings.TrimSpace(c.Schedule.PostOpenCron) == "" {
		errs = append(errs, "schedule: post_open_cron must not be empty")
	}

	// Scanner
	if len(c.Scanner.Symbols) == 0 {
		errs = append(errs, "scanner: at least one symbol is required")
	}
	if !validIntervals[c.Scanner.CoarseInterval] {
		errs = append(errs, fmt.Sprintf("scanner: unknown coarse_interval %q (valid: 15min, 5min)", c.Scanner.CoarseInterval))
	}
	if !validIntervals[c.Scanner.FineInterval] {
		errs = append(errs, fmt.Sprintf("scanner: unknown fine_interval %q (valid: 15min, 5min)", c.Scanner.FineInterval))
	}
	if c.Scanner.CoarseBars < 1 {
		errs = append(errs, "scanner: coarse_bars must be >= 1")
	}
	if c.Scanner.FineBars < 1 {
		errs = append(errs, "scanner: fine_bars must be >= 1")
	}

	// Engine instruments, when overridden, need a usable precision.
	for symbol, inst := range c.Engine.Instruments {
		if inst.Precision < 0 {
			errs = append(errs, fmt.Sprintf("engine: instrument %s precision must be >= 0", symbol))
		}
		if inst.StopBuffer < 0 || inst.RiskUnit < 0 || inst.EntryOffset < 0 {
			errs = append(errs, fmt.Sprintf("engine: instrument %s risk parameters must be >= 0", symbol))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
