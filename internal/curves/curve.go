package curves

import (
	"sort"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/fancontrol/fancontrol/internal/util"
)

// Point is a single step of a ControlCurve
type Point struct {
	Temperature float64 `json:"temperature"`
	Pwm         int     `json:"pwm"`
}

// ControlCurve maps a temperature to a PWM value by linear interpolation
// between its points. Points are sorted ascending by temperature and
// contain no duplicate temperatures.
type ControlCurve struct {
	MinPwm int     `json:"min_pwm"`
	MaxPwm int     `json:"max_pwm"`
	Points []Point `json:"points"`
	// Hysteresis is validated and exposed but not applied during computation,
	// the actuation deadband is fans.PwmChangeThreshold
	Hysteresis int `json:"hysteresis"`
}

// NewControlCurve validates the given configuration and creates a curve from it.
// Unordered points are sorted, for duplicate temperatures the first occurrence wins.
func NewControlCurve(id string, config configuration.CurveConfig) (*ControlCurve, error) {
	if err := configuration.ValidateCurve(id, config); err != nil {
		return nil, err
	}

	points := make([]Point, 0, len(config.Curve))
	for _, step := range config.Curve {
		points = append(points, Point{Temperature: step.Temperature, Pwm: step.Pwm})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Temperature < points[j].Temperature
	})

	deduplicated := points[:1]
	for _, point := range points[1:] {
		last := deduplicated[len(deduplicated)-1]
		if point.Temperature == last.Temperature {
			ui.Warning("Curve of %s: ignoring duplicate step at %.1f°C (pwm %d)", id, point.Temperature, point.Pwm)
			continue
		}
		deduplicated = append(deduplicated, point)
	}

	return &ControlCurve{
		MinPwm:     config.MinPwm,
		MaxPwm:     config.MaxPwm,
		Points:     deduplicated,
		Hysteresis: config.Hysteresis,
	}, nil
}

// ComputePwm calculates the target PWM value for the given temperature (°C),
// the result is always within [MinPwm..MaxPwm]
func (c *ControlCurve) ComputePwm(temperature float64) int {
	return util.Coerce(c.interpolate(temperature), c.MinPwm, c.MaxPwm)
}

// InitialPwm returns the PWM value at the lowest step of the curve
func (c *ControlCurve) InitialPwm() int {
	return c.ComputePwm(c.Points[0].Temperature)
}

func (c *ControlCurve) interpolate(temperature float64) int {
	first := c.Points[0]
	last := c.Points[len(c.Points)-1]

	if temperature < first.Temperature {
		// below the smallest step, fall back to its value
		return first.Pwm
	}
	if temperature > last.Temperature {
		// above the largest step, fall back to its value
		return last.Pwm
	}

	for i := 0; i < len(c.Points)-1; i++ {
		current := c.Points[i]
		next := c.Points[i+1]
		if temperature > next.Temperature {
			continue
		}

		ratio := util.Ratio(temperature, current.Temperature, next.Temperature)
		interpolation := float64(current.Pwm) + float64(next.Pwm-current.Pwm)*ratio
		// truncates toward zero
		return int(interpolation)
	}

	// single step curve
	return last.Pwm
}
