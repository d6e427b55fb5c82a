package alerts

import (
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/ui"
)

// Notifier delivers an emitted alert to an external channel
type Notifier interface {
	Name() string
	Notify(event Event) error
}

// EmailNotifier only records that a delivery was triggered
type EmailNotifier struct{}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(event Event) error {
	ui.Info("Email notification triggered: %s", event.Message)
	return nil
}

// TelegramNotifier only records that a delivery was triggered
type TelegramNotifier struct{}

func (n *TelegramNotifier) Name() string { return "telegram" }

func (n *TelegramNotifier) Notify(event Event) error {
	ui.Info("Telegram notification triggered: %s", event.Message)
	return nil
}

// DesktopNotifier shows alerts using notify-send
type DesktopNotifier struct{}

func (n *DesktopNotifier) Name() string { return "desktop" }

func (n *DesktopNotifier) Notify(event Event) error {
	switch event.Kind {
	case Critical:
		ui.NotifyError("fancontrol", event.Message)
	default:
		ui.NotifyWarn("fancontrol", event.Message)
	}
	return nil
}

// NotifiersFor returns the notifiers enabled in the given config
func NotifiersFor(config configuration.AlertConfig) []Notifier {
	var result []Notifier
	if config.EmailNotifications {
		result = append(result, &EmailNotifier{})
	}
	if config.TelegramNotifications {
		result = append(result, &TelegramNotifier{})
	}
	if config.DesktopNotifications {
		result = append(result, &DesktopNotifier{})
	}
	return result
}
