package alerts

import (
	"errors"
	"testing"
	"time"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/history"
	"github.com/stretchr/testify/assert"
)

type recordingOverrider struct {
	calls []int
	err   error
}

func (o *recordingOverrider) Override(pwm int) error {
	o.calls = append(o.calls, pwm)
	return o.err
}

type recordingNotifier struct {
	events []Event
}

func (n *recordingNotifier) Name() string { return "recording" }

func (n *recordingNotifier) Notify(event Event) error {
	n.events = append(n.events, event)
	return nil
}

type blockingNotifier struct {
	entered chan struct{}
	release chan struct{}
}

func (n *blockingNotifier) Name() string { return "blocking" }

func (n *blockingNotifier) Notify(event Event) error {
	close(n.entered)
	<-n.release
	return nil
}

var testAlertConfig = configuration.AlertConfig{
	TempThreshold: 85,
	TempCritical:  95,
	RpmThreshold:  500,
}

func snapshot(timestamp int64, temperature float64) history.Snapshot {
	return history.Snapshot{
		Timestamp:   timestamp,
		Temperature: temperature,
		Fan1Rpm:     1500,
		Fan2Rpm:     900,
		Pwm1:        120,
		Pwm2:        14,
	}
}

func TestEvaluate_NoAlert(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider)

	// WHEN
	events := evaluator.Evaluate(snapshot(1000, 60))

	// THEN
	assert.Empty(t, events)
	assert.Empty(t, overrider.calls)
	assert.EqualValues(t, 0, evaluator.Emitted())
	_, ok := evaluator.LastAlertTime()
	assert.False(t, ok)
}

func TestEvaluate_CriticalForcesFullSpeed(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{}
	notifier := &recordingNotifier{}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider, notifier)

	// WHEN
	events := evaluator.Evaluate(snapshot(1000, 96))

	// THEN
	assert.Len(t, events, 1)
	assert.Equal(t, Critical, events[0].Kind)
	assert.Equal(t, 96.0, events[0].Value)
	assert.Equal(t, "CRITICAL temperature: 96.0°C", events[0].Message)
	assert.Equal(t, []int{EmergencyPwm}, overrider.calls)
	assert.Equal(t, events, notifier.events)
}

func TestEvaluate_CriticalAtExactThreshold(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider)

	// WHEN
	events := evaluator.Evaluate(snapshot(1000, 95))

	// THEN
	assert.Len(t, events, 1)
	assert.Equal(t, Critical, events[0].Kind)
	assert.Len(t, overrider.calls, 1)
}

func TestEvaluate_OverrideEvenWhenSuppressed(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider)
	evaluator.Evaluate(snapshot(1000, 96))

	// WHEN
	events := evaluator.Evaluate(snapshot(1010, 97))

	// THEN
	assert.Empty(t, events)
	assert.Equal(t, []int{EmergencyPwm, EmergencyPwm}, overrider.calls)
	assert.EqualValues(t, 1, evaluator.Emitted())
	assert.EqualValues(t, 1, evaluator.Suppressed())
}

func TestEvaluate_OverrideFailureStillEmits(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{err: errors.New("permission denied")}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider)

	// WHEN
	events := evaluator.Evaluate(snapshot(1000, 99))

	// THEN
	assert.Len(t, events, 1)
	assert.Equal(t, Critical, events[0].Kind)
}

func TestEvaluate_Warning(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider)

	// WHEN
	events := evaluator.Evaluate(snapshot(1000, 85))

	// THEN
	assert.Len(t, events, 1)
	assert.Equal(t, Warning, events[0].Kind)
	assert.Equal(t, "HIGH temperature: 85.0°C", events[0].Message)
	assert.Empty(t, overrider.calls)
}

func TestEvaluate_LowRpm(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, nil)
	s := snapshot(1000, 50)
	s.Fan2Rpm = 500

	// WHEN
	events := evaluator.Evaluate(s)

	// THEN
	assert.Len(t, events, 1)
	assert.Equal(t, LowRpm, events[0].Kind)
	assert.Equal(t, "fan2", events[0].FanId)
	assert.Equal(t, "LOW RPM on fan2: 500 RPM", events[0].Message)
}

func TestEvaluate_OneAlertPerTick(t *testing.T) {
	// GIVEN
	overrider := &recordingOverrider{}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, overrider)
	s := snapshot(1000, 96)
	s.Fan1Rpm = 0
	s.Fan2Rpm = 0

	// WHEN
	events := evaluator.Evaluate(s)

	// THEN
	assert.Len(t, events, 1)
	assert.Equal(t, Critical, events[0].Kind)
	assert.EqualValues(t, 2, evaluator.Suppressed())
}

func TestEvaluate_Cooldown(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, &recordingOverrider{})

	// WHEN
	first := evaluator.Evaluate(snapshot(1000, 90))
	second := evaluator.Evaluate(snapshot(1000+299, 90))
	third := evaluator.Evaluate(snapshot(1000+300, 90))

	// THEN
	assert.Len(t, first, 1)
	assert.Empty(t, second)
	assert.Len(t, third, 1)
	assert.EqualValues(t, 2, evaluator.Emitted())
	assert.EqualValues(t, 1, evaluator.Suppressed())
	last, ok := evaluator.LastAlertTime()
	assert.True(t, ok)
	assert.EqualValues(t, 1300, last)
}

func TestEvaluate_CooldownIsShared(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, &recordingOverrider{})
	evaluator.Evaluate(snapshot(1000, 96))
	s := snapshot(1060, 50)
	s.Fan1Rpm = 100

	// WHEN
	events := evaluator.Evaluate(s)

	// THEN
	assert.Empty(t, events)
}

func TestEvaluator_SetConfig(t *testing.T) {
	// GIVEN
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, nil)
	silent := configuration.AlertConfig{TempThreshold: 90, TempCritical: 100, RpmThreshold: 400}

	// WHEN
	evaluator.SetConfig(silent)
	events := evaluator.Evaluate(snapshot(1000, 87))

	// THEN
	assert.Equal(t, silent, evaluator.Config())
	assert.Empty(t, events)
}

func TestNotifiersFor(t *testing.T) {
	// GIVEN
	config := testAlertConfig
	config.EmailNotifications = true
	config.TelegramNotifications = true

	// WHEN
	notifiers := NotifiersFor(config)

	// THEN
	var names []string
	for _, n := range notifiers {
		names = append(names, n.Name())
	}
	assert.Equal(t, []string{"email", "telegram"}, names)
	assert.Empty(t, NotifiersFor(testAlertConfig))
}

func TestEvaluate_SlowNotifierDoesNotHoldState(t *testing.T) {
	// GIVEN
	notifier := &blockingNotifier{entered: make(chan struct{}), release: make(chan struct{})}
	evaluator := NewEvaluator(testAlertConfig, DefaultCooldown, nil, notifier)

	result := make(chan []Event, 1)
	go func() {
		result <- evaluator.Evaluate(snapshot(1000, 90))
	}()
	<-notifier.entered

	// WHEN
	queried := make(chan int64, 1)
	go func() {
		evaluator.SetConfig(testAlertConfig)
		last, _ := evaluator.LastAlertTime()
		queried <- last
	}()

	// THEN
	select {
	case last := <-queried:
		assert.EqualValues(t, 1000, last)
	case <-time.After(time.Second):
		t.Fatal("evaluator state is locked while notifying")
	}

	close(notifier.release)
	assert.Len(t, <-result, 1)
}
