package fan

import (
	"fmt"
	"path/filepath"

	"github.com/fancontrol/fancontrol/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rpmCmd = &cobra.Command{
	Use:   "rpm",
	Short: "Get the current RPM reading of a fan",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		sensor, err := sensors.NewHwmonSensor(filepath.Dir(fan.PwmOutput), fan.GetId())
		if err != nil {
			return err
		}
		rpm, err := sensor.GetValue()
		if err != nil {
			return err
		}
		fmt.Printf("%d", int(rpm))
		return nil
	},
}

func init() {
	Command.AddCommand(rpmCmd)
}
