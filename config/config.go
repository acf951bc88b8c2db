package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Notifier provider names.
const (
	ProviderTwilio   = "twilio"
	ProviderPushover = "pushover"
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Dispatch DispatchConfig `koanf:"dispatch"`
	Notifier NotifierConfig `koanf:"notifier"`
	Twilio   TwilioConfig   `koanf:"twilio"`
	Pushover PushoverConfig `koanf:"pushover"`
}

type ServerConfig struct {
	Port        string `koanf:"port"`
	FrontendURL string `koanf:"frontend_url"`
	CronSecret  string `koanf:"cron_secret"`
}

type DatabaseConfig struct {
	URL string `koanf:"url"`
}

type DispatchConfig struct {
	// LookbackMinutes bounds how far back the very first pass looks when
	// no checkpoint exists yet, so startup doesn't replay all history.
	LookbackMinutes int `koanf:"lookback_minutes"`
	// DefaultOffsetsHours is the fixed offset policy for tasks without a
	// single-reminder configuration, in hours before the due time.
	DefaultOffsetsHours []int `koanf:"default_offsets_hours"`
	// MaxAttempts caps delivery retries per reminder before it is
	// abandoned.
	MaxAttempts int `koanf:"max_attempts"`
}

type NotifierConfig struct {
	Provider       string `koanf:"provider"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
	// Recipient is the default destination for tasks that carry no
	// phone number of their own, and for test notifications.
	Recipient string `koanf:"recipient"`
}

type TwilioConfig struct {
	AccountSID string `koanf:"account_sid"`
	AuthToken  string `koanf:"auth_token"`
	FromNumber string `koanf:"from_number"`
}

type PushoverConfig struct {
	APIToken string `koanf:"api_token"`
	UserKey  string `koanf:"user_key"`
}

// knownEnvVars maps the well-known deployment environment variables onto
// config keys. These names predate the config file and keep existing .env
// files working.
var knownEnvVars = []struct {
	env string
	key string
}{
	{"PORT", "server.port"},
	{"FRONTEND_URL", "server.frontend_url"},
	{"CRON_SECRET", "server.cron_secret"},
	{"DATABASE_URL", "database.url"},
	{"NOTIFIER_PROVIDER", "notifier.provider"},
	{"RECIPIENT_PHONE_NUMBER", "notifier.recipient"},
	{"TWILIO_ACCOUNT_SID", "twilio.account_sid"},
	{"TWILIO_AUTH_TOKEN", "twilio.auth_token"},
	{"TWILIO_PHONE_NUMBER", "twilio.from_number"},
	{"PUSHOVER_API_TOKEN", "pushover.api_token"},
	{"PUSHOVER_USER_KEY", "pushover.user_key"},
}

// Load builds the configuration from layered sources: built-in defaults,
// then an optional YAML file, then environment variables. A .env file is
// loaded first when running locally (the RENDER env var is empty on dev
// machines and set on the hosting platform).
func Load(configPath string) (*Config, error) {
	if os.Getenv("RENDER") == "" {
		if err := godotenv.Load(); err != nil {
			fmt.Println("Warning: .env file not loaded, fallback to OS env vars")
		}
	}

	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	// TASKS_SERVER__PORT -> server.port, TASKS_DISPATCH__MAX_ATTEMPTS ->
	// dispatch.max_attempts. Double underscore separates sections so that
	// multi-word keys survive.
	if err := k.Load(env.Provider("TASKS_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "TASKS_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	for _, v := range knownEnvVars {
		if val := os.Getenv(v.env); val != "" {
			k.Set(v.key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("database URL is required (set DATABASE_URL or database.url in the config file)")
	}

	switch c.Notifier.Provider {
	case ProviderTwilio:
		if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" || c.Twilio.FromNumber == "" {
			return fmt.Errorf("twilio provider requires TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER")
		}
	case ProviderPushover:
		if c.Pushover.APIToken == "" || c.Pushover.UserKey == "" {
			return fmt.Errorf("pushover provider requires PUSHOVER_API_TOKEN and PUSHOVER_USER_KEY")
		}
	default:
		return fmt.Errorf("unknown notifier provider: %s (supported: %s, %s)",
			c.Notifier.Provider, ProviderTwilio, ProviderPushover)
	}

	if c.Notifier.TimeoutSeconds <= 0 {
		return fmt.Errorf("notifier timeout must be positive")
	}
	if c.Dispatch.MaxAttempts <= 0 {
		return fmt.Errorf("dispatch max_attempts must be positive")
	}
	if c.Dispatch.LookbackMinutes < 0 {
		return fmt.Errorf("dispatch lookback_minutes must not be negative")
	}
	if len(c.Dispatch.DefaultOffsetsHours) == 0 {
		return fmt.Errorf("dispatch default_offsets_hours must not be empty")
	}
	for _, h := range c.Dispatch.DefaultOffsetsHours {
		if h <= 0 {
			return fmt.Errorf("dispatch default offset must be positive, got %d", h)
		}
	}

	return nil
}

// DefaultOffsets returns the fixed multi-reminder policy as durations.
func (c *Config) DefaultOffsets() []time.Duration {
	offsets := make([]time.Duration, 0, len(c.Dispatch.DefaultOffsetsHours))
	for _, h := range c.Dispatch.DefaultOffsetsHours {
		offsets = append(offsets, time.Duration(h)*time.Hour)
	}
	return offsets
}

// Lookback returns the first-run checkpoint window.
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.Dispatch.LookbackMinutes) * time.Minute
}

// NotifierTimeout bounds a single provider send call.
func (c *Config) NotifierTimeout() time.Duration {
	return time.Duration(c.Notifier.TimeoutSeconds) * time.Second
}
