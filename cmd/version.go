package cmd

import (
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/spf13/cobra"
)

// Version is set at build time using -ldflags "-X github.com/fancontrol/fancontrol/cmd.Version=..."
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fancontrol",
	Long:  `All software has versions. This is fancontrol's`,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Printfln(Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
