package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fancontrol/fancontrol/internal/alerts"
	"github.com/fancontrol/fancontrol/internal/fans"
	"github.com/fancontrol/fancontrol/internal/history"
	"github.com/fancontrol/fancontrol/internal/sensors"
	"github.com/fancontrol/fancontrol/internal/ui"
	"go.uber.org/multierr"
)

const (
	DefaultTickRate     = 1 * time.Second
	DefaultErrorBackoff = 5 * time.Second

	// ids of the fans driven by the loop
	CurveFanId = "fan1"
	FixedFanId = "fan2"
)

type State int32

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyStarted = errors.New("control loop has already been started")
	ErrStopTimeout    = errors.New("timeout while waiting for the control loop to stop")
)

// TickError signals that a single iteration of the control loop failed
type TickError struct {
	Err error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("control loop tick failed: %v", e.Err)
}

func (e *TickError) Unwrap() error {
	return e.Err
}

// Sensors are the inputs read on every tick
type Sensors struct {
	Temperature sensors.Sensor
	Fan1Rpm     sensors.Sensor
	Fan2Rpm     sensors.Sensor
}

// ControlLoop periodically reads the sensors, drives the fans and records
// the result. It is the only writer of the fan state and the history buffer.
type ControlLoop struct {
	sensors   Sensors
	guard     *fans.Guard
	history   *history.Buffer
	evaluator *alerts.Evaluator

	tickRate     time.Duration
	errorBackoff time.Duration
	now          func() time.Time

	mu     sync.Mutex
	state  atomic.Int32
	cancel context.CancelFunc
	done   chan struct{}
}

func NewControlLoop(
	sensors Sensors,
	guard *fans.Guard,
	buffer *history.Buffer,
	evaluator *alerts.Evaluator,
	tickRate time.Duration,
	errorBackoff time.Duration,
) *ControlLoop {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if errorBackoff <= 0 {
		errorBackoff = DefaultErrorBackoff
	}
	return &ControlLoop{
		sensors:      sensors,
		guard:        guard,
		history:      buffer,
		evaluator:    evaluator,
		tickRate:     tickRate,
		errorBackoff: errorBackoff,
		now:          time.Now,
	}
}

func (l *ControlLoop) State() State {
	return State(l.state.Load())
}

// Run applies the startup PWM of all fans and then ticks until the context
// is cancelled or Stop is called. A failed tick is followed by the error
// backoff instead of the regular tick rate.
func (l *ControlLoop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.State() != Idle {
		l.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	done := l.done
	l.state.Store(int32(Running))
	l.mu.Unlock()

	defer func() {
		cancel()
		l.state.Store(int32(Stopped))
		close(done)
	}()

	for _, fan := range l.guard.Fans() {
		ui.Info("Applying startup PWM %d to %s", fan.CurrentPwm(), fan.GetId())
		if err := l.guard.Initialize(fan); err != nil {
			ui.Error("Unable to initialize %s: %v", fan.GetId(), err)
		}
	}

	ui.Info("Starting control loop (tick rate: %s)", l.tickRate)
	timer := time.NewTimer(0)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			ui.Info("Control loop stopped")
			return nil
		case <-timer.C:
		}
		if ctx.Err() != nil {
			ui.Info("Control loop stopped")
			return nil
		}

		wait := l.tickRate
		if err := l.Tick(); err != nil {
			ui.Error("%v, retrying in %s", err, l.errorBackoff)
			wait = l.errorBackoff
		}
		timer.Reset(wait)
	}
}

// Stop cancels the loop and waits at most timeout for it to exit
func (l *ControlLoop) Stop(timeout time.Duration) error {
	l.mu.Lock()
	if l.State() == Idle {
		l.state.Store(int32(Stopped))
		l.mu.Unlock()
		return nil
	}
	cancel, done := l.cancel, l.done
	l.mu.Unlock()

	cancel()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return ErrStopTimeout
	}
}

// Tick executes a single iteration of the control loop. Sensor and write
// failures are logged and do not fail the tick.
func (l *ControlLoop) Tick() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &TickError{Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	curveFan, ok := l.guard.Get(CurveFanId)
	if !ok {
		return &TickError{Err: fmt.Errorf("fan not registered: %s", CurveFanId)}
	}
	fixedFan, ok := l.guard.Get(FixedFanId)
	if !ok {
		return &TickError{Err: fmt.Errorf("fan not registered: %s", FixedFanId)}
	}

	var readErr error
	temperature, e := l.sensors.Temperature.GetValue()
	readErr = multierr.Append(readErr, e)
	fan1Rpm, e := l.sensors.Fan1Rpm.GetValue()
	readErr = multierr.Append(readErr, e)
	fan2Rpm, e := l.sensors.Fan2Rpm.GetValue()
	readErr = multierr.Append(readErr, e)
	if readErr != nil {
		for _, e := range multierr.Errors(readErr) {
			ui.Warning("%v", e)
		}
	}

	target := curveFan.GetCurve().ComputePwm(temperature)
	if _, e := l.guard.Apply(curveFan, target); e != nil {
		ui.Error("%v", e)
	}
	if _, e := l.guard.Apply(fixedFan, fixedFan.CurrentPwm()); e != nil {
		ui.Error("%v", e)
	}

	snapshot := history.Snapshot{
		Timestamp:   l.now().Unix(),
		Temperature: temperature,
		Fan1Rpm:     fan1Rpm,
		Fan2Rpm:     fan2Rpm,
		Pwm1:        curveFan.CurrentPwm(),
		Pwm2:        fixedFan.CurrentPwm(),
	}
	ui.Debug("temp: %.1f°C, %s: %d (%.0f rpm), %s: %d (%.0f rpm)",
		snapshot.Temperature, CurveFanId, snapshot.Pwm1, snapshot.Fan1Rpm, FixedFanId, snapshot.Pwm2, snapshot.Fan2Rpm)
	l.history.Append(snapshot)

	if l.evaluator != nil {
		l.evaluator.Evaluate(snapshot)
	}
	return nil
}
