package configuration

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

const (
	MinPwmValue = 0
	MaxPwmValue = 255

	MinHysteresis = 0
	MaxHysteresis = 10
)

// Validate checks the given configuration for invalid values
func Validate(config Configuration) error {
	if err := ValidateCurve("fan1", config.Fan1); err != nil {
		return err
	}
	if err := ValidateCurve("fan2", config.Fan2); err != nil {
		return err
	}
	if err := validateAlerts(config.Alerts); err != nil {
		return err
	}
	if err := validateHwMon(config.HwMon); err != nil {
		return err
	}

	if config.TickRate <= 0 {
		return errors.New("tick_rate must be > 0")
	}
	if config.ErrorBackoff <= 0 {
		return errors.New("error_backoff must be > 0")
	}
	if config.HistorySize <= 0 {
		return errors.New("history_size must be > 0")
	}
	if config.AlertCooldown < 0 {
		return errors.New("alert_cooldown must be >= 0")
	}

	switch config.Profile {
	case "", ProfileAuto:
	default:
		if _, ok := GetProfile(config.Profile); !ok {
			return fmt.Errorf("unknown profile: %s, use one of: %s | %s | %s", config.Profile, ProfileDefault, ProfileSilent, ProfileAuto)
		}
	}

	if config.Api.Enabled && (config.Api.Port <= 0 || config.Api.Port > 65535) {
		return fmt.Errorf("api: invalid port %d", config.Api.Port)
	}
	if config.Statistics.Enabled && (config.Statistics.Port <= 0 || config.Statistics.Port > 65535) {
		return fmt.Errorf("statistics: invalid port %d", config.Statistics.Port)
	}

	return nil
}

// ValidateCurve checks the bounds of a single fan curve configuration
func ValidateCurve(id string, curve CurveConfig) error {
	if curve.MinPwm < MinPwmValue || curve.MinPwm > MaxPwmValue {
		return fmt.Errorf("fan %s: min_pwm must be in [%d..%d], is %d", id, MinPwmValue, MaxPwmValue, curve.MinPwm)
	}
	if curve.MaxPwm < MinPwmValue || curve.MaxPwm > MaxPwmValue {
		return fmt.Errorf("fan %s: max_pwm must be in [%d..%d], is %d", id, MinPwmValue, MaxPwmValue, curve.MaxPwm)
	}
	if curve.MinPwm > curve.MaxPwm {
		return fmt.Errorf("fan %s: min_pwm (%d) must not be greater than max_pwm (%d)", id, curve.MinPwm, curve.MaxPwm)
	}
	if curve.Hysteresis < MinHysteresis || curve.Hysteresis > MaxHysteresis {
		return fmt.Errorf("fan %s: hysteresis must be in [%d..%d], is %d", id, MinHysteresis, MaxHysteresis, curve.Hysteresis)
	}
	if len(curve.Curve) <= 0 {
		return fmt.Errorf("fan %s: curve must contain at least one point", id)
	}
	for _, point := range curve.Curve {
		if math.IsNaN(point.Temperature) || math.IsInf(point.Temperature, 0) {
			return fmt.Errorf("fan %s: invalid curve temperature %v", id, point.Temperature)
		}
		if point.Pwm < MinPwmValue || point.Pwm > MaxPwmValue {
			return fmt.Errorf("fan %s: curve pwm must be in [%d..%d], is %d", id, MinPwmValue, MaxPwmValue, point.Pwm)
		}
	}
	return nil
}

func validateAlerts(alerts AlertConfig) error {
	if alerts.TempThreshold >= alerts.TempCritical {
		return fmt.Errorf("alerts: temp_threshold (%v) must be lower than temp_critical (%v)", alerts.TempThreshold, alerts.TempCritical)
	}
	if alerts.RpmThreshold < 0 {
		return fmt.Errorf("alerts: rpm_threshold must be >= 0, is %v", alerts.RpmThreshold)
	}
	return nil
}

func validateHwMon(hwmon HwMonConfig) error {
	if len(hwmon.Path) <= 0 && len(hwmon.Platform) <= 0 {
		return errors.New("hwmon: one of path | platform is required")
	}
	if len(hwmon.Platform) > 0 {
		if _, err := regexp.Compile("(?i)" + hwmon.Platform); err != nil {
			return fmt.Errorf("hwmon: invalid platform regex '%s': %w", hwmon.Platform, err)
		}
	}
	if !strings.HasPrefix(hwmon.TempSensor, "temp") {
		return fmt.Errorf("hwmon: temp_sensor must be a temperature input like temp1, is '%s'", hwmon.TempSensor)
	}
	return nil
}
