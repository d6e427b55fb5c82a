package config

import (
	"os"

	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validates the current configuration",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// note: config file path parameter comes from the root command (-c)
		_, configPath, err := configuration.Load(global.CfgFile)
		if err != nil {
			ui.Error("Validation failed: %v", err)
			os.Exit(1)
		}

		ui.Info("Using configuration file at: %s", configPath)
		ui.Success("Config looks good! :)")
		return nil
	},
}

func init() {
	Command.AddCommand(validateCmd)
}
