package config

import (
	"fmt"
	"os"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/spf13/cobra"
)

var force bool

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Writes the default configuration to a file",
	Long:  `Writes the built-in default configuration to the given path (default: ./fancontrol.yaml)`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configuration.DefaultConfigName + ".yaml"
		if len(args) > 0 {
			path = args[0]
		}

		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("file already exists: %s, use --force to overwrite it", path)
		}

		if err := configuration.WriteConfig(path, configuration.DefaultConfiguration()); err != nil {
			return err
		}
		ui.Success("Default configuration written to %s", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	Command.AddCommand(initCmd)
}
