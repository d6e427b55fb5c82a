package cmd

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/internal/hwmon"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect devices",
	Long:  `Detects all hwmon chips with their fans and sensors and prints them as a list`,
	Run: func(cmd *cobra.Command, args []string) {
		chips := hwmon.GetChips()
		if len(chips) <= 0 {
			ui.Warning("No hwmon devices found")
			return
		}

		// === Print detected devices ===
		tableConfig := &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		}

		for _, chip := range chips {
			ui.Printfln("> %s (platform: %s, path: %s)", chip.Name, chip.Platform, chip.Path)

			var fanRows [][]string
			for _, fan := range chip.Fans {
				fanRows = append(fanRows, []string{
					"", fan.Id, fan.Label, strconv.Itoa(int(fan.Value)), fmt.Sprintf("%v", fan.HasPwm),
				})
			}
			fanTable := table.Table{
				Headers: []string{"Fans   ", "ID", "Label", "RPM", "PWM"},
				Rows:    fanRows,
			}

			var sensorRows [][]string
			for _, sensor := range chip.Sensors {
				sensorRows = append(sensorRows, []string{
					"", sensor.Id, sensor.Label, fmt.Sprintf("%.1f", sensor.Value),
				})
			}
			sensorTable := table.Table{
				Headers: []string{"Sensors", "ID", "Label", "Value"},
				Rows:    sensorRows,
			}

			tables := []table.Table{fanTable, sensorTable}
			for idx, table := range tables {
				if table.Rows == nil {
					continue
				}
				var buf bytes.Buffer
				tableErr := table.WriteTable(&buf, tableConfig)
				if tableErr != nil {
					ui.Fatal("Error printing table: %v", tableErr)
				}
				tableString := buf.String()
				if idx < (len(tables) - 1) {
					ui.Printf("%s", tableString)
				} else {
					ui.Printfln("%s", tableString)
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
