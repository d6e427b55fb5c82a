package sensors

import (
	"fmt"
)

type Sensor interface {
	GetId() string

	// GetValue returns the current value of this sensor, normalized to °C for
	// temperature inputs and RPM for tachometer inputs
	GetValue() (float64, error)
}

// ReadError signals that a sensor value could not be read.
// The value returned alongside it is a substitute, not a measurement.
type ReadError struct {
	SensorId string
	Path     string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("unable to read sensor %s (%s): %v", e.SensorId, e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
