package profile

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := global.LoadConfiguration()
		active := ""
		if profile, ok := configuration.ResolveProfile(config.Profile, time.Now()); ok {
			active = profile.Name
		}

		var rows [][]string
		for _, profile := range configuration.Profiles() {
			marker := ""
			if profile.Name == active {
				marker = "*"
			}
			rows = append(rows, []string{
				marker,
				profile.Name,
				profile.Description,
				fmt.Sprintf("%d..%d", profile.Fan1.MinPwm, profile.Fan1.MaxPwm),
				fmt.Sprintf("%d..%d", profile.Fan2.MinPwm, profile.Fan2.MaxPwm),
				fmt.Sprintf("%.0f / %.0f", profile.Alerts.TempThreshold, profile.Alerts.TempCritical),
			})
		}

		tab := table.Table{
			Headers: []string{"", "Name", "Description", "fan1 PWM", "fan2 PWM", "Warn / Crit °C"},
			Rows:    rows,
		}
		var buf bytes.Buffer
		err := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if err != nil {
			return err
		}
		ui.Printfln("%s", buf.String())
		return nil
	},
}

func init() {
	Command.AddCommand(listCmd)
}
