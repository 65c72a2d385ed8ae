package config

// RedactedConfig returns a shallow copy of cfg with sensitive fields replaced
// by the redaction placeholder "***". Use this when logging or printing the
// active configuration so secrets are never accidentally exposed.
func RedactedConfig(cfg *Config) Config {
	out := *cfg // shallow copy of the top-level struct

	// TwelveData
	out.TwelveData = cfg.TwelveData
	redact(&out.TwelveData.APIKey)

	// Redis
	out.Redis = cfg.Redis
	redact(&out.Redis.Password)

	// Notify
	out.Notify = cfg.Notify
	redact(&out.Notify.TelegramToken)
	redact(&out.Notify.DiscordWebhookURL)

	// Copy slices so callers cannot mutate the original through the redacted
	// copy.
	if cfg.Notify.Events != nil {
		out.Notify.Events = make([]string, len(cfg.Notify.Events))
		copy(out.Notify.Events, cfg.Notify.Events)
	}
	if cfg.Scanner.Symbols != nil {
		out.Scanner.Symbols = make([]string, len(cfg.Scanner.Symbols))
		copy(out.Scanner.Symbols, cfg.Scanner.Symbols)
	}

	// Copy the instruments map so mutations to the redacted copy do not
	// affect the original.
	if cfg.Engine.Instruments != nil {
		out.Engine.Instruments = make(map[string]InstrumentConfig, len(cfg.Engine.Instruments))
		for k, v := range cfg.Engine.Instruments {
			out.Engine.Instruments[k] = v
		}
	}

	return out
}

const redacted = "***"

// redact replaces a non-empty string with the redacted placeholder.
func redact(s *string) {
	if *s != "" {
		*s = redacted
	}
}
