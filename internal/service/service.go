// Package service holds the runtime state of the daemon and provides the
// status query surface used by the REST api, the statistics exporter
// and the cli.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fancontrol/fancontrol/internal/alerts"
	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/controller"
	"github.com/fancontrol/fancontrol/internal/curves"
	"github.com/fancontrol/fancontrol/internal/fans"
	"github.com/fancontrol/fancontrol/internal/history"
	"github.com/fancontrol/fancontrol/internal/sensors"
	"github.com/fancontrol/fancontrol/internal/ui"
	"github.com/qdm12/reprint"
)

const DefaultProfileCheckInterval = 1 * time.Minute

// Diagnostics reports whether the hardware files are usable
type Diagnostics struct {
	SensorsAccessible bool                        `json:"sensors_accessible"`
	PwmAccessible     bool                        `json:"pwm_accessible"`
	BasePath          string                      `json:"base_path"`
	ActiveProfile     string                      `json:"active_profile"`
	LoopState         string                      `json:"loop_state"`
	CurrentConfig     configuration.Configuration `json:"current_config"`
}

// Service is constructed once by the process entry point and passed to
// everything that needs access to the fans, sensors or history.
type Service struct {
	basePath string

	mu            sync.RWMutex
	config        configuration.Configuration
	activeProfile string

	sensors   []*sensors.HwmonSensor
	guard     *fans.Guard
	history   *history.Buffer
	evaluator *alerts.Evaluator
	loop      *controller.ControlLoop

	now func() time.Time
}

// New creates all components for the hwmon device located at basePath
func New(config configuration.Configuration, basePath string) (*Service, error) {
	s := &Service{
		basePath: basePath,
		now:      time.Now,
	}

	if profile, ok := configuration.ResolveProfile(config.Profile, s.now()); ok {
		ui.Info("Using profile '%s'", profile.Name)
		config = profile.ApplyTo(config)
		s.activeProfile = profile.Name
	} else if len(config.Profile) > 0 {
		return nil, fmt.Errorf("unknown profile: %s", config.Profile)
	}
	s.config = config

	fanList := make([]*fans.Fan, 0, 2)
	for _, id := range []string{controller.CurveFanId, controller.FixedFanId} {
		curve, err := curves.NewControlCurve(id, curveConfigOf(config, id))
		if err != nil {
			return nil, err
		}
		fan, err := fans.NewFan(id, basePath, curve)
		if err != nil {
			return nil, err
		}
		fanList = append(fanList, fan)
	}
	s.guard = fans.NewGuard(fanList...)

	var inputs controller.Sensors
	for _, id := range []string{config.HwMon.TempSensor, controller.CurveFanId, controller.FixedFanId} {
		sensor, err := sensors.NewHwmonSensor(basePath, id)
		if err != nil {
			return nil, err
		}
		s.sensors = append(s.sensors, sensor)
	}
	inputs.Temperature = s.sensors[0]
	inputs.Fan1Rpm = s.sensors[1]
	inputs.Fan2Rpm = s.sensors[2]

	s.history = history.NewBuffer(config.HistorySize)
	s.evaluator = alerts.NewEvaluator(config.Alerts, config.AlertCooldown, s.guard, alerts.NotifiersFor(config.Alerts)...)
	s.loop = controller.NewControlLoop(inputs, s.guard, s.history, s.evaluator, config.TickRate, config.ErrorBackoff)

	return s, nil
}

func curveConfigOf(config configuration.Configuration, fanId string) configuration.CurveConfig {
	if fanId == controller.FixedFanId {
		return config.Fan2
	}
	return config.Fan1
}

func (s *Service) BasePath() string {
	return s.basePath
}

func (s *Service) Guard() *fans.Guard {
	return s.guard
}

func (s *Service) History() *history.Buffer {
	return s.history
}

func (s *Service) Alerts() *alerts.Evaluator {
	return s.evaluator
}

func (s *Service) Loop() *controller.ControlLoop {
	return s.loop
}

func (s *Service) Sensors() []*sensors.HwmonSensor {
	return s.sensors
}

// LatestSnapshot returns the most recent snapshot, false if none has been recorded yet
func (s *Service) LatestSnapshot() (history.Snapshot, bool) {
	return s.history.Latest()
}

// RecentHistory returns up to n of the most recent snapshots in chronological order
func (s *Service) RecentHistory(n int) []history.Snapshot {
	return s.history.Recent(n)
}

func (s *Service) HistoryStats() history.Stats {
	return s.history.Stats()
}

// Config returns a copy of the configuration currently in effect
func (s *Service) Config() configuration.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reprint.This(s.config).(configuration.Configuration)
}

// ActiveProfile returns the name of the profile currently in effect, empty if none
func (s *Service) ActiveProfile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeProfile
}

func (s *Service) Diagnostics() Diagnostics {
	sensorsAccessible := true
	for _, sensor := range s.sensors {
		if !sensors.IsAccessible(sensor) {
			sensorsAccessible = false
		}
	}

	pwmAccessible := true
	for _, fan := range s.guard.Fans() {
		if !fans.IsAccessible(fan) {
			pwmAccessible = false
		}
	}

	return Diagnostics{
		SensorsAccessible: sensorsAccessible,
		PwmAccessible:     pwmAccessible,
		BasePath:          s.basePath,
		ActiveProfile:     s.ActiveProfile(),
		LoopState:         s.loop.State().String(),
		CurrentConfig:     s.Config(),
	}
}

// SetManualPwm applies the given PWM value to a fan, bypassing its curve.
// The value is subject to the same clamping and change threshold as the
// control loop, the next tick may override it.
func (s *Service) SetManualPwm(fanId string, value int) (bool, error) {
	if err := s.CheckManualPwm(fanId, value); err != nil {
		return false, err
	}
	fan, _ := s.guard.Get(fanId)
	return s.guard.Apply(fan, value)
}

// CheckManualPwm reports whether SetManualPwm would accept the given fan and value,
// without touching the hardware.
func (s *Service) CheckManualPwm(fanId string, value int) error {
	if value < fans.MinPwmValue || value > fans.MaxPwmValue {
		return fmt.Errorf("invalid pwm value: %d, must be in range [%d..%d]", value, fans.MinPwmValue, fans.MaxPwmValue)
	}
	if _, ok := s.guard.Get(fanId); !ok {
		return fmt.Errorf("unknown fan: %s", fanId)
	}
	return nil
}

// ApplyProfile switches the curves and alert thresholds to the given built-in profile.
// The profile "auto" resolves to a profile based on the current time of day.
func (s *Service) ApplyProfile(name string) error {
	profile, ok := configuration.ResolveProfile(name, s.now())
	if !ok {
		return fmt.Errorf("unknown profile: %s", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	config := profile.ApplyTo(s.config)
	config.Profile = name
	if err := s.applyConfig(config); err != nil {
		return err
	}
	s.activeProfile = profile.Name
	ui.Info("Switched to profile '%s'", profile.Name)
	return nil
}

// applyConfig swaps curves and alert thresholds, all curves are validated
// before any of them is replaced
func (s *Service) applyConfig(config configuration.Configuration) error {
	newCurves := map[string]*curves.ControlCurve{}
	for _, fan := range s.guard.Fans() {
		curve, err := curves.NewControlCurve(fan.GetId(), curveConfigOf(config, fan.GetId()))
		if err != nil {
			return err
		}
		newCurves[fan.GetId()] = curve
	}

	for _, fan := range s.guard.Fans() {
		curve := newCurves[fan.GetId()]
		fan.SetCurve(curve)
		if fan.GetId() == controller.FixedFanId {
			// move the fixed fan to the operating point of its new curve
			if _, err := s.guard.Apply(fan, curve.InitialPwm()); err != nil {
				ui.Warning("%v", err)
			}
		}
	}
	s.evaluator.SetConfig(config.Alerts)
	s.config = config
	return nil
}

// RefreshAutoProfile switches to the profile matching the current time of day,
// if the "auto" profile is configured. Returns whether the profile changed.
func (s *Service) RefreshAutoProfile() (bool, error) {
	s.mu.RLock()
	configured := s.config.Profile
	active := s.activeProfile
	s.mu.RUnlock()

	if configured != configuration.ProfileAuto {
		return false, nil
	}
	if configuration.TimeBasedProfile(s.now()) == active {
		return false, nil
	}
	return true, s.ApplyProfile(configuration.ProfileAuto)
}

// RunProfileScheduler periodically refreshes the "auto" profile until ctx is cancelled
func (s *Service) RunProfileScheduler(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultProfileCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := s.RefreshAutoProfile(); err != nil {
				ui.Error("Unable to switch profile: %v", err)
			}
		}
	}
}
