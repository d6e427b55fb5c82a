package alerts

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/history"
	"github.com/fancontrol/fancontrol/internal/ui"
)

// EmergencyPwm is written to all fans when the critical temperature is reached
const EmergencyPwm = 255

// DefaultCooldown is the minimum time between two emitted alerts
const DefaultCooldown = 5 * time.Minute

type Kind string

const (
	Warning  Kind = "WARNING"
	Critical Kind = "CRITICAL"
	LowRpm   Kind = "LOW_RPM"
)

type Event struct {
	Kind      Kind    `json:"kind"`
	Message   string  `json:"message"`
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
	// FanId is only set for LowRpm events
	FanId string `json:"fan_id,omitempty"`
}

// Overrider forces all fans to a fixed PWM value, bypassing their curves
type Overrider interface {
	Override(pwm int) error
}

// Evaluator checks snapshots against the configured thresholds.
// All alert kinds share a single cooldown: once an alert has been emitted,
// every other alert within the cooldown window is suppressed.
type Evaluator struct {
	mu            sync.Mutex
	config        configuration.AlertConfig
	cooldown      time.Duration
	lastAlertTime *int64

	overrider Overrider
	notifiers []Notifier

	emitted    atomic.Uint64
	suppressed atomic.Uint64
}

func NewEvaluator(config configuration.AlertConfig, cooldown time.Duration, overrider Overrider, notifiers ...Notifier) *Evaluator {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Evaluator{
		config:    config,
		cooldown:  cooldown,
		overrider: overrider,
		notifiers: notifiers,
	}
}

// SetConfig replaces the thresholds, the cooldown state is kept
func (e *Evaluator) SetConfig(config configuration.AlertConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.config = config
}

func (e *Evaluator) Config() configuration.AlertConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// Evaluate checks the given snapshot and returns the alerts that were emitted.
// A critical temperature always triggers the emergency override, even if the
// alert itself is suppressed by the cooldown. Notifiers are called after the
// evaluator state has been released.
func (e *Evaluator) Evaluate(snapshot history.Snapshot) []Event {
	emitted, critical := e.evaluate(snapshot)

	if critical && e.overrider != nil {
		if err := e.overrider.Override(EmergencyPwm); err != nil {
			ui.Error("Emergency override failed: %v", err)
		}
	}

	for _, event := range emitted {
		ui.Warning("ALERT: %s", event.Message)
		for _, notifier := range e.notifiers {
			if err := notifier.Notify(event); err != nil {
				ui.Warning("Unable to deliver alert via %s: %v", notifier.Name(), err)
			}
		}
	}
	return emitted
}

func (e *Evaluator) evaluate(snapshot history.Snapshot) (emitted []Event, critical bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	temperature := snapshot.Temperature

	if temperature >= e.config.TempCritical {
		critical = true
		emitted = e.emit(emitted, Event{
			Kind:      Critical,
			Message:   fmt.Sprintf("CRITICAL temperature: %.1f°C", temperature),
			Timestamp: snapshot.Timestamp,
			Value:     temperature,
		})
	} else if temperature >= e.config.TempThreshold {
		emitted = e.emit(emitted, Event{
			Kind:      Warning,
			Message:   fmt.Sprintf("HIGH temperature: %.1f°C", temperature),
			Timestamp: snapshot.Timestamp,
			Value:     temperature,
		})
	}

	for _, fan := range []struct {
		id  string
		rpm float64
	}{
		{"fan1", snapshot.Fan1Rpm},
		{"fan2", snapshot.Fan2Rpm},
	} {
		if fan.rpm <= e.config.RpmThreshold {
			emitted = e.emit(emitted, Event{
				Kind:      LowRpm,
				Message:   fmt.Sprintf("LOW RPM on %s: %.0f RPM", fan.id, fan.rpm),
				Timestamp: snapshot.Timestamp,
				Value:     fan.rpm,
				FanId:     fan.id,
			})
		}
	}

	return emitted, critical
}

// emit records the event unless it falls into the cooldown window, e.mu must be held
func (e *Evaluator) emit(emitted []Event, event Event) []Event {
	if e.lastAlertTime != nil && time.Duration(event.Timestamp-*e.lastAlertTime)*time.Second < e.cooldown {
		e.suppressed.Add(1)
		ui.Debug("Suppressed alert (cooldown): %s", event.Message)
		return emitted
	}

	timestamp := event.Timestamp
	e.lastAlertTime = &timestamp
	e.emitted.Add(1)
	return append(emitted, event)
}

// Emitted returns the number of alerts that have been emitted so far
func (e *Evaluator) Emitted() uint64 {
	return e.emitted.Load()
}

// Suppressed returns the number of alerts dropped due to the cooldown
func (e *Evaluator) Suppressed() uint64 {
	return e.suppressed.Load()
}

// LastAlertTime returns the timestamp of the last emitted alert, if any
func (e *Evaluator) LastAlertTime() (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.lastAlertTime == nil {
		return 0, false
	}
	return *e.lastAlertTime, true
}
