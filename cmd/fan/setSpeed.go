package fan

import (
	"fmt"

	"github.com/fancontrol/fancontrol/internal/fans"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var setSpeedCmd = &cobra.Command{
	Use:   "setSpeed <pwm>",
	Short: "Set the speed of a fan to the given PWM value ([0..255])",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pwmValue, err := cast.ToIntE(args[0])
		if err != nil {
			return err
		}
		if pwmValue < fans.MinPwmValue || pwmValue > fans.MaxPwmValue {
			return fmt.Errorf("invalid pwm value: %d, must be in range [%d..%d]", pwmValue, fans.MinPwmValue, fans.MaxPwmValue)
		}

		fan, err := getFan(fanId)
		if err != nil {
			return err
		}

		if err = fans.NewGuard(fan).Force(fan, pwmValue); err != nil {
			return err
		}
		ui.Success("Set %s to %d", fan.GetId(), fan.CurrentPwm())
		return nil
	},
}

func init() {
	Command.AddCommand(setSpeedCmd)
}
