package configuration

import (
	"fmt"
	"strings"
	"time"

	"github.com/fancontrol/fancontrol/internal/util"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigName = "fancontrol"
	DefaultHwMonPath  = "/sys/class/hwmon/hwmon0"
)

type Configuration struct {
	HwMon HwMonConfig `json:"hwmon" mapstructure:"hwmon"`

	Fan1   CurveConfig `json:"fan1" mapstructure:"fan1"`
	Fan2   CurveConfig `json:"fan2" mapstructure:"fan2"`
	Alerts AlertConfig `json:"alerts" mapstructure:"alerts"`

	// Profile selects a built-in profile overriding fan1, fan2 and alerts,
	// one of: "" | default | silent | auto
	Profile string `json:"profile" mapstructure:"profile"`

	TickRate      time.Duration `json:"tick_rate" mapstructure:"tick_rate"`
	ErrorBackoff  time.Duration `json:"error_backoff" mapstructure:"error_backoff"`
	HistorySize   int           `json:"history_size" mapstructure:"history_size"`
	AlertCooldown time.Duration `json:"alert_cooldown" mapstructure:"alert_cooldown"`

	Api        ApiConfig        `json:"api" mapstructure:"api"`
	Statistics StatisticsConfig `json:"statistics" mapstructure:"statistics"`
}

type HwMonConfig struct {
	// Path of the hwmon device directory, f.ex. /sys/class/hwmon/hwmon0
	Path string `json:"path" mapstructure:"path" yaml:"path"`
	// Platform is a (case-insensitive) regex matched against detected chips,
	// takes precedence over Path if set
	Platform string `json:"platform" mapstructure:"platform" yaml:"platform"`
	// TempSensor is the name of the temperature input, f.ex. temp2
	TempSensor string `json:"temp_sensor" mapstructure:"temp_sensor" yaml:"temp_sensor"`
}

type ApiConfig struct {
	Enabled  bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Host     string `json:"host" mapstructure:"host" yaml:"host"`
	Port     int    `json:"port" mapstructure:"port" yaml:"port"`
	Username string `json:"username" mapstructure:"username" yaml:"username"`
	Password string `json:"-" mapstructure:"password" yaml:"password"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Port    int  `json:"port" mapstructure:"port" yaml:"port"`
}

// LoadError signals that the configuration could not be loaded and
// the built-in defaults are used instead
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	if len(e.Path) > 0 {
		return fmt.Sprintf("unable to load configuration from %s, using defaults: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("unable to load configuration, using defaults: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load reads the configuration from cfgFile or, if empty, from the default search paths.
// It always returns a usable configuration: on any failure the built-in defaults
// are returned together with a *LoadError describing what went wrong.
func Load(cfgFile string) (Configuration, string, error) {
	v := newViper(cfgFile)

	if err := v.ReadInConfig(); err != nil {
		return DefaultConfiguration(), cfgFile, &LoadError{Path: cfgFile, Err: err}
	}
	// this is only populated _after_ ReadInConfig()
	path := v.ConfigFileUsed()

	config, err := unmarshal(v)
	if err != nil {
		return DefaultConfiguration(), path, &LoadError{Path: path, Err: err}
	}

	if err = Validate(config); err != nil {
		return DefaultConfiguration(), path, &LoadError{Path: path, Err: err}
	}

	return config, path, nil
}

// DefaultConfiguration returns the built-in configuration used when no
// (valid) configuration file is available
func DefaultConfiguration() Configuration {
	v := viper.New()
	setDefaultValues(v)
	config, err := unmarshal(v)
	if err != nil {
		panic(fmt.Sprintf("invalid default configuration: %v", err))
	}
	return config
}

func newViper(cfgFile string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(DefaultConfigName)

	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath("/etc/fancontrol/")
	}

	v.SetEnvPrefix(DefaultConfigName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // read in environment variables that match

	setDefaultValues(v)
	return v
}

func setDefaultValues(v *viper.Viper) {
	v.SetDefault("hwmon.path", DefaultHwMonPath)
	v.SetDefault("hwmon.platform", "")
	v.SetDefault("hwmon.temp_sensor", "temp2")

	v.SetDefault("fan1.min_pwm", 22)
	v.SetDefault("fan1.max_pwm", 255)
	v.SetDefault("fan1.curve", []interface{}{
		[]interface{}{50.0, 90},
		[]interface{}{80.0, 255},
	})
	v.SetDefault("fan1.hysteresis", 3)

	v.SetDefault("fan2.min_pwm", 4)
	v.SetDefault("fan2.max_pwm", 100)
	v.SetDefault("fan2.curve", []interface{}{
		[]interface{}{0.0, 14},
	})
	v.SetDefault("fan2.hysteresis", 0)

	v.SetDefault("alerts.temp_threshold", 85.0)
	v.SetDefault("alerts.temp_critical", 95.0)
	v.SetDefault("alerts.rpm_threshold", 500.0)
	v.SetDefault("alerts.email_notifications", false)
	v.SetDefault("alerts.telegram_notifications", false)
	v.SetDefault("alerts.desktop_notifications", false)

	v.SetDefault("profile", "")

	v.SetDefault("tick_rate", 1*time.Second)
	v.SetDefault("error_backoff", 5*time.Second)
	v.SetDefault("history_size", 3600)
	v.SetDefault("alert_cooldown", 5*time.Minute)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.host", "localhost")
	v.SetDefault("api.port", 8000)
	v.SetDefault("api.username", "")
	v.SetDefault("api.password", "")

	v.SetDefault("statistics.enabled", false)
	v.SetDefault("statistics.port", 9000)
}

func unmarshal(v *viper.Viper) (config Configuration, err error) {
	err = v.Unmarshal(&config, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		curvePointDecodeHook,
		mapstructure.StringToTimeDurationHookFunc(),
	)))
	if err != nil {
		return config, fmt.Errorf("unable to decode configuration: %w", err)
	}
	return config, nil
}

// WriteConfig writes the given configuration as a YAML document to path.
// The file is replaced atomically.
func WriteConfig(path string, config Configuration) error {
	document := map[string]interface{}{
		"hwmon":          config.HwMon,
		"fan1":           config.Fan1,
		"fan2":           config.Fan2,
		"alerts":         config.Alerts,
		"profile":        config.Profile,
		"tick_rate":      config.TickRate.String(),
		"error_backoff":  config.ErrorBackoff.String(),
		"history_size":   config.HistorySize,
		"alert_cooldown": config.AlertCooldown.String(),
		"api":            config.Api,
		"statistics":     config.Statistics,
	}

	data, err := yaml.Marshal(document)
	if err != nil {
		return err
	}
	return util.WriteFileAtomic(path, data)
}
