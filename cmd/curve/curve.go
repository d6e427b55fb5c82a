package curve

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/curves"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/guptarohit/asciigraph"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var curveId string

var Command = &cobra.Command{
	Use:   "curve",
	Short: "Print the configured fan curve(s) to console",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config := global.LoadConfiguration()
		if profile, ok := configuration.ResolveProfile(config.Profile, time.Now()); ok {
			ui.Info("Using profile '%s'", profile.Name)
			config = profile.ApplyTo(config)
		}

		curveConfigs := []struct {
			id     string
			config configuration.CurveConfig
		}{
			{"fan1", config.Fan1},
			{"fan2", config.Fan2},
		}

		printed := 0
		for _, c := range curveConfigs {
			if len(curveId) > 0 && curveId != c.id {
				continue
			}
			if printed > 0 {
				ui.Printfln("")
				ui.Printfln("")
			}
			curve, err := curves.NewControlCurve(c.id, c.config)
			if err != nil {
				return err
			}
			if err = printCurve(c.id, curve); err != nil {
				return err
			}
			printed++
		}

		if printed <= 0 {
			return fmt.Errorf("no curve with id found: %s, options: [fan1 fan2]", curveId)
		}
		return nil
	},
}

func init() {
	Command.Flags().StringVarP(
		&curveId,
		"id", "i",
		"",
		"Fan ID of the curve (fan1 | fan2), prints all curves if empty",
	)
}

func printCurve(id string, curve *curves.ControlCurve) error {
	// print table
	rows := [][]string{}
	for _, point := range curve.Points {
		rows = append(rows, []string{
			strconv.FormatFloat(point.Temperature, 'f', -1, 64), strconv.Itoa(point.Pwm),
		})
	}
	tab := table.Table{
		Headers: []string{"Temperature", "PWM"},
		Rows:    rows,
	}
	var buf bytes.Buffer
	tableErr := tab.WriteTable(&buf, &table.Config{
		ShowIndex:       false,
		Color:           !global.NoColor,
		AlternateColors: true,
		TitleColorCode:  ansi.ColorCode("white+buf"),
		AltColorCodes: []string{
			ansi.ColorCode("white"),
			ansi.ColorCode("white:236"),
		},
	})
	if tableErr != nil {
		return tableErr
	}
	ui.Printfln("> %s (min: %d, max: %d, hysteresis: %d)", id, curve.MinPwm, curve.MaxPwm, curve.Hysteresis)
	ui.Printfln("%s", buf.String())

	values := graphValues(curve)
	caption := "PWM / Temperature (°C)"
	graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
	ui.Printfln("%s", graph)
	return nil
}

// graphValues computes the PWM value for every whole degree from 0°C to 100°C
func graphValues(curve *curves.ControlCurve) []float64 {
	values := make([]float64, 0, 101)
	for temperature := 0; temperature <= 100; temperature++ {
		values = append(values, float64(curve.ComputePwm(float64(temperature))))
	}
	return values
}
