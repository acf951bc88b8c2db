package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"port":         "8080",
			"frontend_url": "http://localhost:3000",
			"cron_secret":  "",
		},
		"database": map[string]interface{}{
			"url": "",
		},
		"dispatch": map[string]interface{}{
			"lookback_minutes":      5,
			"default_offsets_hours": []int{24, 1}, // 1 day and 1 hour before due
			"max_attempts":          5,
		},
		"notifier": map[string]interface{}{
			"provider":        "twilio",
			"timeout_seconds": 30,
			"recipient":       "",
		},
		"twilio": map[string]interface{}{
			"account_sid": "",
			"auth_token":  "",
			"from_number": "",
		},
		"pushover": map[string]interface{}{
			"api_token": "",
			"user_key":  "",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}
