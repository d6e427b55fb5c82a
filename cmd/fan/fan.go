package fan

import (
	"fmt"

	"github.com/fancontrol/fancontrol/cmd/global"
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/curves"
	"github.com/fancontrol/fancontrol/internal/fans"
	"github.com/spf13/cobra"
)

var fanId string

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan related commands",
	Long:             ``,
	TraverseChildren: true,
}

func init() {
	Command.PersistentFlags().StringVarP(
		&fanId,
		"id", "i",
		"",
		"Fan ID (fan1 | fan2)",
	)
	_ = Command.MarkPersistentFlagRequired("id")
}

func getFan(id string) (*fans.Fan, error) {
	config := global.LoadConfiguration()

	var curveConfig configuration.CurveConfig
	switch id {
	case "fan1":
		curveConfig = config.Fan1
	case "fan2":
		curveConfig = config.Fan2
	default:
		return nil, fmt.Errorf("no fan with id found: %s, options: [fan1 fan2]", id)
	}

	basePath, err := global.BasePath(config)
	if err != nil {
		return nil, err
	}

	curve, err := curves.NewControlCurve(id, curveConfig)
	if err != nil {
		return nil, err
	}
	return fans.NewFan(id, basePath, curve)
}
