package configuration

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// CurveConfig describes the temperature -> PWM control curve of a single fan
type CurveConfig struct {
	MinPwm     int                `json:"min_pwm" mapstructure:"min_pwm" yaml:"min_pwm"`
	MaxPwm     int                `json:"max_pwm" mapstructure:"max_pwm" yaml:"max_pwm"`
	Curve      []CurvePointConfig `json:"curve" mapstructure:"curve" yaml:"curve"`
	Hysteresis int                `json:"hysteresis" mapstructure:"hysteresis" yaml:"hysteresis"`
}

// CurvePointConfig is a single (temperature, pwm) step of a curve.
// In configuration documents it is written as a [temperature, pwm] pair.
type CurvePointConfig struct {
	Temperature float64 `json:"temperature" mapstructure:"temperature" yaml:"temperature"`
	Pwm         int     `json:"pwm" mapstructure:"pwm" yaml:"pwm"`
}

func (p CurvePointConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Temperature, p.Pwm})
}

// UnmarshalJSON accepts both the [temperature, pwm] pair written by MarshalJSON
// and the {"temperature": x, "pwm": y} object form.
func (p *CurvePointConfig) UnmarshalJSON(data []byte) error {
	var pair []interface{}
	if err := json.Unmarshal(data, &pair); err == nil {
		point, err := parseCurvePoint(pair)
		if err != nil {
			return err
		}
		*p = point
		return nil
	}

	type plain CurvePointConfig
	var point plain
	if err := json.Unmarshal(data, &point); err != nil {
		return fmt.Errorf("curve point must be a [temperature, pwm] pair or an object: %w", err)
	}
	*p = CurvePointConfig(point)
	return nil
}

func (p CurvePointConfig) MarshalYAML() (interface{}, error) {
	return []interface{}{p.Temperature, p.Pwm}, nil
}

var curvePointType = reflect.TypeOf(CurvePointConfig{})

// curvePointDecodeHook allows curve points to be given as [temperature, pwm] pairs
// in addition to {temperature: x, pwm: y} maps
func curvePointDecodeHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != curvePointType {
		return data, nil
	}
	if from.Kind() != reflect.Slice && from.Kind() != reflect.Array {
		return data, nil
	}

	value := reflect.ValueOf(data)
	pair := make([]interface{}, value.Len())
	for i := range pair {
		pair[i] = value.Index(i).Interface()
	}
	point, err := parseCurvePoint(pair)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"temperature": point.Temperature,
		"pwm":         point.Pwm,
	}, nil
}

func parseCurvePoint(pair []interface{}) (CurvePointConfig, error) {
	if len(pair) != 2 {
		return CurvePointConfig{}, fmt.Errorf("curve point must be a [temperature, pwm] pair, got: %v", pair)
	}
	temperature, err := cast.ToFloat64E(pair[0])
	if err != nil {
		return CurvePointConfig{}, fmt.Errorf("invalid curve point temperature: %w", err)
	}
	pwm, err := cast.ToIntE(pair[1])
	if err != nil {
		return CurvePointConfig{}, fmt.Errorf("invalid curve point pwm: %w", err)
	}
	return CurvePointConfig{Temperature: temperature, Pwm: pwm}, nil
}
