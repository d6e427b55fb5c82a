package sensors

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fancontrol/fancontrol/internal/util"
)

type Kind int

const (
	KindTemperature Kind = iota
	KindTachometer
)

const (
	prefixTemperature = "temp"
	prefixTachometer  = "fan"

	// hwmon reports temperatures in millidegrees
	milliDegreesPerDegree = 1000.0
)

func (k Kind) String() string {
	switch k {
	case KindTemperature:
		return "temperature"
	case KindTachometer:
		return "tachometer"
	default:
		return "unknown"
	}
}

// HwmonSensor reads a single hwmon input file like temp2_input or fan1_input
type HwmonSensor struct {
	ID    string `json:"id"`
	Kind  Kind   `json:"kind"`
	Input string `json:"input"`
}

// NewHwmonSensor creates a sensor for the input with the given id (f.ex. "temp2" or "fan1")
// located in the hwmon device directory basePath
func NewHwmonSensor(basePath string, id string) (*HwmonSensor, error) {
	var kind Kind
	switch {
	case strings.HasPrefix(id, prefixTemperature):
		kind = KindTemperature
	case strings.HasPrefix(id, prefixTachometer):
		kind = KindTachometer
	default:
		return nil, fmt.Errorf("unsupported sensor: %s, use one of: tempN | fanN", id)
	}

	return &HwmonSensor{
		ID:    id,
		Kind:  kind,
		Input: filepath.Join(basePath, id+"_input"),
	}, nil
}

func (sensor HwmonSensor) GetId() string {
	return sensor.ID
}

// GetValue returns 0 and a *ReadError if the input cannot be read
func (sensor HwmonSensor) GetValue() (float64, error) {
	value, err := util.ReadFloatFromFile(sensor.Input)
	if err != nil {
		return 0, &ReadError{SensorId: sensor.ID, Path: sensor.Input, Err: err}
	}

	if sensor.Kind == KindTemperature {
		return value / milliDegreesPerDegree, nil
	}
	return value, nil
}

// IsAccessible checks whether the input file of the given sensor is readable
func IsAccessible(sensor *HwmonSensor) bool {
	return util.IsReadable(sensor.Input)
}
