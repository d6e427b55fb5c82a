package cmd

import (
	"fmt"
	"os"

	"github.com/fancontrol/fancontrol/cmd/config"
	"github.com/fancontrol/fancontrol/cmd/curve"
	"github.com/fancontrol/fancontrol/cmd/fan"
	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/cmd/profile"
	"github.com/fancontrol/fancontrol/cmd/sensor"
	"github.com/fancontrol/fancontrol/internal"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fancontrol",
	Short: "A daemon to control the fans of a server.",
	Long: `fancontrol is a simple daemon that regulates the fans
of a server based on a hwmon temperature sensor.`,
	// this is the default command to run when no subcommand is specified
	Run: func(cmd *cobra.Command, args []string) {
		printHeader()

		configuration := global.LoadConfiguration()
		internal.RunDaemon(configuration)
	},
}

func init() {
	cobra.OnInitialize(setupUi)

	rootCmd.PersistentFlags().StringVarP(&global.CfgFile, "config", "c", "", "config file (default is $HOME/fancontrol.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&global.NoColor, "no-color", "", false, "Disable all terminal output coloration")
	rootCmd.PersistentFlags().BoolVarP(&global.NoStyle, "no-style", "", false, "Disable all terminal output styling")
	rootCmd.PersistentFlags().BoolVarP(&global.Verbose, "verbose", "v", false, "More verbose output")

	rootCmd.AddCommand(config.Command)
	rootCmd.AddCommand(curve.Command)
	rootCmd.AddCommand(fan.Command)
	rootCmd.AddCommand(profile.Command)
	rootCmd.AddCommand(sensor.Command)
}

func setupUi() {
	ui.SetDebugEnabled(global.Verbose)

	if global.NoColor {
		pterm.DisableColor()
	}
	if global.NoStyle {
		pterm.DisableStyling()
	}
}

// Print a large text with the LetterStyle from the standard theme.
func printHeader() {
	err := pterm.DefaultBigText.WithLetters(
		pterm.NewLettersFromStringWithStyle("fan", pterm.NewStyle(pterm.FgLightBlue)),
		pterm.NewLettersFromStringWithStyle("control", pterm.NewStyle(pterm.FgWhite)),
	).Render()
	if err != nil {
		fmt.Println("fancontrol")
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
