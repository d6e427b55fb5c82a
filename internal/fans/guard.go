package fans

import (
	"fmt"
	"sort"

	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/fancontrol/fancontrol/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// WriteError signals that a PWM value could not be written to a fan,
// the state of the fan is left unchanged
type WriteError struct {
	FanId string
	Path  string
	Pwm   int
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("unable to set pwm of %s (%s) to %d: %v", e.FanId, e.Path, e.Pwm, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Guard is the only component writing PWM values to the hardware.
// Writes to the same fan are serialized, writes to different fans are independent.
type Guard struct {
	fans cmap.ConcurrentMap[string, *Fan]
}

func NewGuard(fans ...*Fan) *Guard {
	guard := &Guard{
		fans: cmap.New[*Fan](),
	}
	for _, fan := range fans {
		guard.fans.Set(fan.GetId(), fan)
	}
	return guard
}

// Get returns the registered fan with the given id
func (g *Guard) Get(id string) (*Fan, bool) {
	return g.fans.Get(id)
}

// Fans returns all registered fans, ordered by id
func (g *Guard) Fans() []*Fan {
	result := make([]*Fan, 0, g.fans.Count())
	for _, fan := range g.fans.Items() {
		result = append(result, fan)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].GetId() < result[j].GetId()
	})
	return result
}

// Apply requests the given PWM value for the fan. The value is clamped to
// [curve.MinPwm..MaxPwmValue] and only written if it differs by at least
// PwmChangeThreshold from the current value. Returns whether a value was written.
func (g *Guard) Apply(fan *Fan, requested int) (bool, error) {
	fan.writeMu.Lock()
	defer fan.writeMu.Unlock()

	target := util.Coerce(requested, fan.Curve.MinPwm, MaxPwmValue)
	if util.Abs(target-fan.CurrentPwm()) < PwmChangeThreshold {
		return false, nil
	}
	return true, g.write(fan, target)
}

// Initialize switches the fan to manual control and writes its current
// PWM value unconditionally
func (g *Guard) Initialize(fan *Fan) error {
	fan.writeMu.Lock()
	defer fan.writeMu.Unlock()

	trySetManualPwm(fan)
	return g.write(fan, fan.CurrentPwm())
}

// Force switches the fan to manual control and writes the given PWM value,
// clamped to [curve.MinPwm..MaxPwmValue], regardless of the current value
func (g *Guard) Force(fan *Fan, pwm int) error {
	fan.writeMu.Lock()
	defer fan.writeMu.Unlock()

	trySetManualPwm(fan)
	return g.write(fan, util.Coerce(pwm, fan.Curve.MinPwm, MaxPwmValue))
}

// Override forces all registered fans to the given PWM value, bypassing
// the change threshold. Fans already at that value are not written again.
func (g *Guard) Override(pwm int) error {
	var result error
	for _, fan := range g.Fans() {
		if err := g.override(fan, pwm); err != nil {
			ui.Error("Unable to override %s: %v", fan.GetId(), err)
			result = err
		}
	}
	return result
}

func (g *Guard) override(fan *Fan, pwm int) error {
	fan.writeMu.Lock()
	defer fan.writeMu.Unlock()

	target := util.Coerce(pwm, fan.Curve.MinPwm, MaxPwmValue)
	if target == fan.CurrentPwm() {
		return nil
	}
	return g.write(fan, target)
}

// write must only be called while holding fan.writeMu
func (g *Guard) write(fan *Fan, pwm int) error {
	ui.Debug("Setting %s (%s) to %d ...", fan.GetId(), fan.PwmOutput, pwm)
	if err := util.WriteIntToFile(pwm, fan.PwmOutput); err != nil {
		return &WriteError{FanId: fan.GetId(), Path: fan.PwmOutput, Pwm: pwm, Err: err}
	}
	fan.currentPwm.Store(int64(pwm))
	return nil
}

// IsAccessible checks whether the PWM output of the given fan is writable
func IsAccessible(fan *Fan) bool {
	return util.IsWritable(fan.PwmOutput)
}

func trySetManualPwm(fan *Fan) {
	path := fan.pwmEnableFile()
	if !util.IsReadable(path) {
		// not every driver exposes a pwm_enable file
		return
	}
	err := util.WriteIntToFile(int(ControlModePWM), path)
	if err != nil {
		ui.Warning("Could not enable manual fan control on %s, trying to continue anyway: %v", fan.GetId(), err)
	}
}
