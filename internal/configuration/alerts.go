package configuration

type AlertConfig struct {
	// TempThreshold is the temperature (°C) at which a warning is raised
	TempThreshold float64 `json:"temp_threshold" mapstructure:"temp_threshold" yaml:"temp_threshold"`
	// TempCritical is the temperature (°C) at which all fans are forced to full speed
	TempCritical float64 `json:"temp_critical" mapstructure:"temp_critical" yaml:"temp_critical"`
	// RpmThreshold is the fan speed at or below which a fan is considered stalling
	RpmThreshold float64 `json:"rpm_threshold" mapstructure:"rpm_threshold" yaml:"rpm_threshold"`

	EmailNotifications    bool `json:"email_notifications" mapstructure:"email_notifications" yaml:"email_notifications"`
	TelegramNotifications bool `json:"telegram_notifications" mapstructure:"telegram_notifications" yaml:"telegram_notifications"`
	DesktopNotifications  bool `json:"desktop_notifications" mapstructure:"desktop_notifications" yaml:"desktop_notifications"`
}
