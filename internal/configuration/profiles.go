package configuration

import (
	"time"
)

const (
	ProfileDefault = "default"
	ProfileSilent  = "silent"
	// ProfileAuto switches between ProfileSilent at night and ProfileDefault during the day
	ProfileAuto = "auto"
)

// Profile is a named set of curves and alert thresholds
type Profile struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Fan1        CurveConfig `json:"fan1"`
	Fan2        CurveConfig `json:"fan2"`
	Alerts      AlertConfig `json:"alerts"`
}

// ApplyTo returns a copy of config using the curves and alert thresholds of this profile.
// Notification settings of config are kept.
func (p Profile) ApplyTo(config Configuration) Configuration {
	config.Fan1 = p.Fan1
	config.Fan2 = p.Fan2

	alerts := p.Alerts
	alerts.EmailNotifications = config.Alerts.EmailNotifications
	alerts.TelegramNotifications = config.Alerts.TelegramNotifications
	alerts.DesktopNotifications = config.Alerts.DesktopNotifications
	config.Alerts = alerts
	return config
}

// Profiles returns all built-in profiles
func Profiles() []Profile {
	defaults := DefaultConfiguration()
	return []Profile{
		{
			Name:        ProfileDefault,
			Description: "Default profile",
			Fan1:        defaults.Fan1,
			Fan2:        defaults.Fan2,
			Alerts:      defaults.Alerts,
		},
		{
			Name:        ProfileSilent,
			Description: "Silent mode (less cooling)",
			Fan1: CurveConfig{
				MinPwm: 22,
				MaxPwm: 180,
				Curve: []CurvePointConfig{
					{Temperature: 60, Pwm: 70},
					{Temperature: 85, Pwm: 180},
				},
				Hysteresis: 5,
			},
			Fan2: CurveConfig{
				MinPwm:     4,
				MaxPwm:     80,
				Curve:      []CurvePointConfig{{Temperature: 0, Pwm: 10}},
				Hysteresis: 0,
			},
			Alerts: AlertConfig{
				TempThreshold: 90,
				TempCritical:  100,
				RpmThreshold:  400,
			},
		},
	}
}

func GetProfile(name string) (Profile, bool) {
	for _, profile := range Profiles() {
		if profile.Name == name {
			return profile, true
		}
	}
	return Profile{}, false
}

// TimeBasedProfile returns the name of the profile to use at the given time of day:
// silent between 22:00 and 07:00, default otherwise
func TimeBasedProfile(now time.Time) string {
	secondOfDay := now.Hour()*3600 + now.Minute()*60 + now.Second()
	if secondOfDay >= 22*3600 || secondOfDay <= 7*3600 {
		return ProfileSilent
	}
	return ProfileDefault
}

// ResolveProfile resolves the configured profile name to a built-in profile,
// returns false if no profile is configured
func ResolveProfile(name string, now time.Time) (Profile, bool) {
	switch name {
	case "":
		return Profile{}, false
	case ProfileAuto:
		return GetProfile(TimeBasedProfile(now))
	default:
		return GetProfile(name)
	}
}
