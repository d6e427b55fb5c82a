package fans

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fancontrol/fancontrol/internal/curves"
	"github.com/fancontrol/fancontrol/internal/util"
)

const (
	MaxPwmValue = 255
	MinPwmValue = 0

	// PwmChangeThreshold is the minimum difference to the current PWM value
	// required for a new value to be written
	PwmChangeThreshold = 5

	prefixFan = "fan"
)

// ControlMode is the value of a pwmN_enable file
type ControlMode int

const (
	// ControlModeDisabled completely disables control, resulting in a 100% voltage/PWM signal output
	ControlModeDisabled ControlMode = 0
	// ControlModePWM enables manual, fixed speed control via setting the pwm value
	ControlModePWM ControlMode = 1
	// ControlModeAutomatic enables automatic control by the integrated control of the mainboard
	ControlModeAutomatic ControlMode = 2
)

// Fan holds the state of a single PWM controlled fan.
// The current PWM value is only changed through the write path of a Guard.
type Fan struct {
	ID        string
	PwmOutput string
	Curve     *curves.ControlCurve

	// serializes writes to PwmOutput
	writeMu    sync.Mutex
	currentPwm atomic.Int64
}

// NewFan creates a fan with the given id (f.ex. "fan1") whose PWM output is
// located in the hwmon device directory basePath. Its current PWM value is
// initialized to the startup value of its curve.
func NewFan(id string, basePath string, curve *curves.ControlCurve) (*Fan, error) {
	index, found := strings.CutPrefix(id, prefixFan)
	if !found || len(index) <= 0 {
		return nil, fmt.Errorf("unsupported fan id: %s, expected fanN", id)
	}

	fan := &Fan{
		ID:        id,
		PwmOutput: filepath.Join(basePath, "pwm"+index),
		Curve:     curve,
	}
	fan.currentPwm.Store(int64(curve.InitialPwm()))
	return fan, nil
}

func (fan *Fan) GetId() string {
	return fan.ID
}

// CurrentPwm returns the last PWM value successfully applied to this fan
func (fan *Fan) CurrentPwm() int {
	return int(fan.currentPwm.Load())
}

// SetCurve replaces the curve of this fan
func (fan *Fan) SetCurve(curve *curves.ControlCurve) {
	fan.writeMu.Lock()
	defer fan.writeMu.Unlock()
	fan.Curve = curve
}

// GetCurve returns the curve of this fan
func (fan *Fan) GetCurve() *curves.ControlCurve {
	fan.writeMu.Lock()
	defer fan.writeMu.Unlock()
	return fan.Curve
}

// ReadPwm reads the PWM value currently set in hardware
func (fan *Fan) ReadPwm() (int, error) {
	return util.ReadIntFromFile(fan.PwmOutput)
}

func (fan *Fan) pwmEnableFile() string {
	return fan.PwmOutput + "_enable"
}
