package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asadbukhari/liqmatrix/internal/cache/redis"
	"github.com/asadbukhari/liqmatrix/internal/config"
	"github.com/asadbukhari/liqmatrix/internal/domain"
	"github.com/asadbukhari/liqmatrix/internal/engine"
	"github.com/asadbukhari/liqmatrix/internal/feed"
	"github.com/asadbukhari/liqmatrix/internal/marketdata"
	"github.com/asadbukhari/liqmatrix/internal/notify"
	"github.com/asadbukhari/liqmatrix/internal/scanner"
)

// Dependencies bundles everything the application modes need to operate. It
// is constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Provider domain.CandleProvider
	Analyzer *engine.Analyzer
	Notifier *notify.Notifier
	Scanner  *scanner.Scanner
	Watcher  *scanner.Watcher
	Feed     *feed.TwelveDataWSFeed
	Location *time.Location
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	deps := &Dependencies{}

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, nil, fmt.Errorf("wire: timezone %q: %w", cfg.Schedule.Timezone, err)
	}
	deps.Location = loc

	// --- Market data ---
	tdClient := marketdata.NewClient(cfg.TwelveData.BaseURL, cfg.TwelveData.APIKey)
	deps.Provider = tdClient

	// --- Redis (optional series cache + shared credit limiter) ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.Provider = marketdata.NewCachedProvider(
			tdClient,
			redis.NewSeriesCache(redisClient),
			redis.NewRateLimiter(redisClient),
			cfg.TwelveData.CreditLimit,
			cfg.TwelveData.CreditWindow.Duration,
			logger,
		)
	}

	// --- Engine ---
	deps.Analyzer = engine.NewAnalyzer(engineConfig(cfg.Engine))

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, logger)

	// --- Scanner ---
	deps.Scanner = scanner.New(
		deps.Provider,
		deps.Analyzer,
		deps.Notifier,
		scanner.Config{
			Symbols:        cfg.Scanner.Symbols,
			CoarseInterval: domain.Interval(cfg.Scanner.CoarseInterval),
			FineInterval:   domain.Interval(cfg.Scanner.FineInterval),
			CoarseBars:     cfg.Scanner.CoarseBars,
			FineBars:       cfg.Scanner.FineBars,
		},
		loc,
		logger,
	)

	// --- Watch mode ---
	deps.Watcher = scanner.NewWatcher(deps.Notifier, logger)
	deps.Feed = feed.NewTwelveDataWSFeed(
		cfg.TwelveData.WSURL,
		cfg.TwelveData.APIKey,
		cfg.Scanner.Symbols,
		deps.Watcher.HandlePrice,
		logger,
	)

	return deps, cleanup, nil
}

// engineConfig maps the TOML engine section onto the engine's Config. Zero
// values pass through and are filled by the engine's own defaults.
func engineConfig(ec config.EngineConfig) engine.Config {
	cfg := engine.Config{
		Lookback:        ec.Lookback,
		MinCandles:      ec.MinCandles,
		BullWickRatio:   ec.BullWickRatio,
		BearWickRatio:   ec.BearWickRatio,
		RewardRatio:     ec.RewardRatio,
		RetestTouches:   ec.RetestTouches,
		RetestWindow:    ec.RetestWindow,
		ConfirmWindow:   ec.ConfirmWindow,
		RetestTolerance: ec.RetestTolerance,
		LiquidityWindow: ec.LiquidityWindow,
	}
	if len(ec.Instruments) > 0 {
		cfg.Instruments = make(map[string]engine.Instrument, len(ec.Instruments))
		for symbol, inst := range ec.Instruments {
			cfg.Instruments[symbol] = engine.Instrument{
				StopBuffer:      inst.StopBuffer,
				RiskUnit:        inst.RiskUnit,
				EntryOffset:     inst.EntryOffset,
				Precision:       inst.Precision,
				ConfidenceLong:  inst.ConfidenceLong,
				ConfidenceShort: inst.ConfidenceShort,
			}
		}
	}
	return cfg
}
