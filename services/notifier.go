package services

import (
	"context"
	"fmt"

	"taskreminder/config"
)

// Notifier sends one notification to a destination address and returns
// the provider's message identifier on success.
type Notifier interface {
	Send(ctx context.Context, to, message, priority string) (string, error)
}

// NewNotifier builds the sender selected by the configuration.
func NewNotifier(cfg *config.Config) (Notifier, error) {
	switch cfg.Notifier.Provider {
	case config.ProviderTwilio:
		return NewWhatsAppSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, cfg.NotifierTimeout()), nil
	case config.ProviderPushover:
		return NewPushoverSender(cfg.Pushover.APIToken, cfg.Pushover.UserKey, cfg.NotifierTimeout()), nil
	default:
		return nil, fmt.Errorf("unknown notifier provider: %s", cfg.Notifier.Provider)
	}
}
