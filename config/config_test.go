package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// RENDER is set so Load skips the .env lookup and reads only what the
// test put in the environment.
func load(t *testing.T, configPath string) *Config {
	t.Helper()
	t.Setenv("RENDER", "1")
	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg := load(t, "")

	if cfg.Server.Port != "8080" {
		t.Errorf("unexpected default port: %q", cfg.Server.Port)
	}
	if cfg.Dispatch.LookbackMinutes != 5 {
		t.Errorf("unexpected default lookback: %d", cfg.Dispatch.LookbackMinutes)
	}
	if got := cfg.Dispatch.DefaultOffsetsHours; len(got) != 2 || got[0] != 24 || got[1] != 1 {
		t.Errorf("unexpected default offsets: %v", got)
	}
	if cfg.Dispatch.MaxAttempts != 5 {
		t.Errorf("unexpected default max attempts: %d", cfg.Dispatch.MaxAttempts)
	}
	if cfg.Notifier.Provider != ProviderTwilio {
		t.Errorf("unexpected default provider: %q", cfg.Notifier.Provider)
	}
}

func TestLoad_KnownEnvVarsOverride(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/tasks")
	t.Setenv("NOTIFIER_PROVIDER", ProviderPushover)
	t.Setenv("RECIPIENT_PHONE_NUMBER", "+33612345678")

	cfg := load(t, "")

	if cfg.Server.Port != "9090" {
		t.Errorf("PORT not applied: %q", cfg.Server.Port)
	}
	if cfg.Database.URL != "postgres://localhost/tasks" {
		t.Errorf("DATABASE_URL not applied: %q", cfg.Database.URL)
	}
	if cfg.Notifier.Provider != ProviderPushover {
		t.Errorf("NOTIFIER_PROVIDER not applied: %q", cfg.Notifier.Provider)
	}
	if cfg.Notifier.Recipient != "+33612345678" {
		t.Errorf("RECIPIENT_PHONE_NUMBER not applied: %q", cfg.Notifier.Recipient)
	}
}

func TestLoad_PrefixedEnvVars(t *testing.T) {
	t.Setenv("TASKS_DISPATCH__MAX_ATTEMPTS", "7")
	t.Setenv("TASKS_SERVER__CRON_SECRET", "topsecret")

	cfg := load(t, "")

	if cfg.Dispatch.MaxAttempts != 7 {
		t.Errorf("TASKS_DISPATCH__MAX_ATTEMPTS not applied: %d", cfg.Dispatch.MaxAttempts)
	}
	if cfg.Server.CronSecret != "topsecret" {
		t.Errorf("TASKS_SERVER__CRON_SECRET not applied: %q", cfg.Server.CronSecret)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"server:",
		"  port: \"3000\"",
		"dispatch:",
		"  lookback_minutes: 10",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := load(t, path)

	if cfg.Server.Port != "3000" {
		t.Errorf("file port not applied: %q", cfg.Server.Port)
	}
	if cfg.Dispatch.LookbackMinutes != 10 {
		t.Errorf("file lookback not applied: %d", cfg.Dispatch.LookbackMinutes)
	}
	// Keys the file does not set keep their defaults.
	if cfg.Dispatch.MaxAttempts != 5 {
		t.Errorf("default max attempts lost: %d", cfg.Dispatch.MaxAttempts)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"3000\"\n"), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("PORT", "9090")

	cfg := load(t, path)
	if cfg.Server.Port != "9090" {
		t.Errorf("expected env to win over the file, got %q", cfg.Server.Port)
	}
}

func validConfig() *Config {
	return &Config{
		Database: DatabaseConfig{URL: "postgres://localhost/tasks"},
		Dispatch: DispatchConfig{
			LookbackMinutes:     5,
			DefaultOffsetsHours: []int{24, 1},
			MaxAttempts:         5,
		},
		Notifier: NotifierConfig{
			Provider:       ProviderTwilio,
			TimeoutSeconds: 30,
		},
		Twilio: TwilioConfig{AccountSID: "AC123", AuthToken: "tok", FromNumber: "+33668695116"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid twilio", func(c *Config) {}, false},
		{"valid pushover", func(c *Config) {
			c.Notifier.Provider = ProviderPushover
			c.Pushover = PushoverConfig{APIToken: "tok", UserKey: "key"}
		}, false},
		{"missing database url", func(c *Config) { c.Database.URL = "" }, true},
		{"unknown provider", func(c *Config) { c.Notifier.Provider = "smoke-signals" }, true},
		{"twilio without credentials", func(c *Config) { c.Twilio.AuthToken = "" }, true},
		{"pushover without user key", func(c *Config) {
			c.Notifier.Provider = ProviderPushover
			c.Pushover = PushoverConfig{APIToken: "tok"}
		}, true},
		{"zero timeout", func(c *Config) { c.Notifier.TimeoutSeconds = 0 }, true},
		{"zero max attempts", func(c *Config) { c.Dispatch.MaxAttempts = 0 }, true},
		{"negative lookback", func(c *Config) { c.Dispatch.LookbackMinutes = -1 }, true},
		{"no default offsets", func(c *Config) { c.Dispatch.DefaultOffsetsHours = nil }, true},
		{"non-positive offset", func(c *Config) { c.Dispatch.DefaultOffsetsHours = []int{24, 0} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected a validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := validConfig()

	if got := cfg.Lookback(); got != 5*time.Minute {
		t.Errorf("unexpected lookback: %s", got)
	}
	if got := cfg.NotifierTimeout(); got != 30*time.Second {
		t.Errorf("unexpected notifier timeout: %s", got)
	}
	offsets := cfg.DefaultOffsets()
	if len(offsets) != 2 || offsets[0] != 24*time.Hour || offsets[1] != time.Hour {
		t.Errorf("unexpected offsets: %v", offsets)
	}
}
