package global

import (
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/hwmon"
	"github.com/fancontrol/fancontrol/internal/ui"
)

var (
	CfgFile string
	NoColor bool
	NoStyle bool
	Verbose bool
)

// LoadConfiguration loads the configuration selected by the --config flag,
// falling back to the built-in defaults if it cannot be loaded
func LoadConfiguration() configuration.Configuration {
	config, path, err := configuration.Load(CfgFile)
	if err != nil {
		ui.Warning("%v", err)
	} else {
		ui.Info("Using configuration file at: %s", path)
	}
	return config
}

// BasePath returns the hwmon device directory of the given configuration
func BasePath(config configuration.Configuration) (string, error) {
	return hwmon.ResolveBasePath(config.HwMon)
}
