package sensor

import (
	"fmt"

	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/internal/sensors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var sensorId string

var Command = &cobra.Command{
	Use:              "sensor",
	Short:            "Print the current value of a sensor",
	Long:             `Prints the current value of a hwmon input, °C for tempN and RPM for fanN`,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pterm.DisableOutput()

		config := global.LoadConfiguration()
		id := sensorId
		if len(id) <= 0 {
			id = config.HwMon.TempSensor
		}

		basePath, err := global.BasePath(config)
		if err != nil {
			return err
		}
		sensor, err := sensors.NewHwmonSensor(basePath, id)
		if err != nil {
			return err
		}

		value, err := sensor.GetValue()
		if err != nil {
			return err
		}
		if sensor.Kind == sensors.KindTemperature {
			fmt.Printf("%.1f", value)
		} else {
			fmt.Printf("%d", int(value))
		}
		return nil
	},
}

func init() {
	Command.PersistentFlags().StringVarP(
		&sensorId,
		"id", "i",
		"",
		"Sensor ID (tempN | fanN), defaults to the configured temperature sensor",
	)
}
