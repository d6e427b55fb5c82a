package service

import (
	"testing"
	"time"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/testingutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createService(t *testing.T, config configuration.Configuration) (*Service, string) {
	dir := testingutils.CreateHwmonDir(t, testingutils.DefaultHwmonFiles())
	s, err := New(config, dir)
	require.NoError(t, err)
	return s, dir
}

func at(hour int) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 6, 1, hour, 0, 0, 0, time.Local)
	}
}

func TestNew(t *testing.T) {
	// GIVEN
	config := configuration.DefaultConfiguration()

	// WHEN
	s, dir := createService(t, config)

	// THEN
	assert.Equal(t, dir, s.BasePath())
	assert.Len(t, s.Guard().Fans(), 2)
	assert.Len(t, s.Sensors(), 3)
	assert.Equal(t, config.HistorySize, s.History().Capacity())
	assert.Equal(t, "", s.ActiveProfile())
	_, ok := s.LatestSnapshot()
	assert.False(t, ok)
}

func TestNew_WithProfile(t *testing.T) {
	// GIVEN
	config := configuration.DefaultConfiguration()
	config.Profile = configuration.ProfileSilent

	// WHEN
	s, _ := createService(t, config)

	// THEN
	assert.Equal(t, configuration.ProfileSilent, s.ActiveProfile())
	assert.Equal(t, 180, s.Config().Fan1.MaxPwm)
	assert.Equal(t, 90.0, s.Alerts().Config().TempThreshold)
	fan2, _ := s.Guard().Get("fan2")
	assert.Equal(t, 10, fan2.CurrentPwm())
}

func TestNew_InvalidSensor(t *testing.T) {
	// GIVEN
	config := configuration.DefaultConfiguration()
	config.HwMon.TempSensor = "in0"

	// WHEN
	_, err := New(config, t.TempDir())

	// THEN
	assert.Error(t, err)
}

func TestStatusQueries(t *testing.T) {
	// GIVEN
	s, _ := createService(t, configuration.DefaultConfiguration())

	// WHEN
	require.NoError(t, s.Loop().Tick())
	require.NoError(t, s.Loop().Tick())

	// THEN
	latest, ok := s.LatestSnapshot()
	assert.True(t, ok)
	assert.Equal(t, 65.0, latest.Temperature)
	assert.Equal(t, 172, latest.Pwm1)
	assert.Len(t, s.RecentHistory(60), 2)
	assert.Len(t, s.RecentHistory(1), 1)
	assert.Equal(t, 2, s.HistoryStats().Count)
	assert.Equal(t, 65.0, s.HistoryStats().AvgTemperature)
}

func TestDiagnostics(t *testing.T) {
	// GIVEN
	s, dir := createService(t, configuration.DefaultConfiguration())

	// WHEN
	diagnostics := s.Diagnostics()

	// THEN
	assert.True(t, diagnostics.SensorsAccessible)
	assert.True(t, diagnostics.PwmAccessible)
	assert.Equal(t, dir, diagnostics.BasePath)
	assert.Equal(t, "idle", diagnostics.LoopState)
	assert.Equal(t, configuration.DefaultConfiguration(), diagnostics.CurrentConfig)

	// WHEN
	testingutils.RemoveFile(t, dir, "pwm2")
	testingutils.RemoveFile(t, dir, "fan1_input")
	diagnostics = s.Diagnostics()

	// THEN
	assert.False(t, diagnostics.SensorsAccessible)
	assert.False(t, diagnostics.PwmAccessible)
}

func TestConfig_ReturnsCopy(t *testing.T) {
	// GIVEN
	s, _ := createService(t, configuration.DefaultConfiguration())

	// WHEN
	config := s.Config()
	config.Fan1.Curve[0].Pwm = 200

	// THEN
	assert.Equal(t, 90, s.Config().Fan1.Curve[0].Pwm)
}

func TestSetManualPwm(t *testing.T) {
	// GIVEN
	s, dir := createService(t, configuration.DefaultConfiguration())

	// WHEN
	written, err := s.SetManualPwm("fan1", 200)

	// THEN
	assert.NoError(t, err)
	assert.True(t, written)
	assert.Equal(t, "200", testingutils.ReadFile(t, dir, "pwm1"))

	// WHEN
	written, err = s.SetManualPwm("fan1", 203)

	// THEN
	assert.NoError(t, err)
	assert.False(t, written)
	assert.Equal(t, "200", testingutils.ReadFile(t, dir, "pwm1"))
}

func TestSetManualPwm_Invalid(t *testing.T) {
	// GIVEN
	s, _ := createService(t, configuration.DefaultConfiguration())

	// WHEN
	_, errRange := s.SetManualPwm("fan1", 256)
	_, errNegative := s.SetManualPwm("fan1", -1)
	_, errFan := s.SetManualPwm("fan3", 100)

	// THEN
	assert.EqualError(t, errRange, "invalid pwm value: 256, must be in range [0..255]")
	assert.Error(t, errNegative)
	assert.EqualError(t, errFan, "unknown fan: fan3")
}

func TestCheckManualPwm(t *testing.T) {
	// GIVEN
	s, dir := createService(t, configuration.DefaultConfiguration())
	pwmBefore := testingutils.ReadFile(t, dir, "pwm1")

	// WHEN
	errValid := s.CheckManualPwm("fan1", 200)
	errRange := s.CheckManualPwm("fan2", 300)
	errFan := s.CheckManualPwm("fan3", 100)

	// THEN
	assert.NoError(t, errValid)
	assert.EqualError(t, errRange, "invalid pwm value: 300, must be in range [0..255]")
	assert.EqualError(t, errFan, "unknown fan: fan3")
	assert.Equal(t, pwmBefore, testingutils.ReadFile(t, dir, "pwm1"))
}

func TestApplyProfile(t *testing.T) {
	// GIVEN
	config := configuration.DefaultConfiguration()
	config.Alerts.EmailNotifications = true
	s, _ := createService(t, config)

	// WHEN
	err := s.ApplyProfile(configuration.ProfileSilent)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, configuration.ProfileSilent, s.ActiveProfile())
	assert.Equal(t, configuration.ProfileSilent, s.Config().Profile)
	assert.True(t, s.Config().Alerts.EmailNotifications)
	assert.Equal(t, 100.0, s.Alerts().Config().TempCritical)

	fan1, _ := s.Guard().Get("fan1")
	assert.Equal(t, 180, fan1.GetCurve().ComputePwm(95))
	// the new operating point of fan2 is within the change threshold
	fan2, _ := s.Guard().Get("fan2")
	assert.Equal(t, 14, fan2.CurrentPwm())
}

func TestApplyProfile_Unknown(t *testing.T) {
	// GIVEN
	s, _ := createService(t, configuration.DefaultConfiguration())

	// WHEN
	err := s.ApplyProfile("turbo")

	// THEN
	assert.EqualError(t, err, "unknown profile: turbo")
	assert.Equal(t, "", s.ActiveProfile())
}

func TestRefreshAutoProfile(t *testing.T) {
	// GIVEN
	s, _ := createService(t, configuration.DefaultConfiguration())
	s.now = at(23)
	require.NoError(t, s.ApplyProfile(configuration.ProfileAuto))
	assert.Equal(t, configuration.ProfileSilent, s.ActiveProfile())

	// WHEN
	s.now = at(12)
	changed, err := s.RefreshAutoProfile()

	// THEN
	assert.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, configuration.ProfileDefault, s.ActiveProfile())
	assert.Equal(t, configuration.ProfileAuto, s.Config().Profile)

	// WHEN
	changed, err = s.RefreshAutoProfile()

	// THEN
	assert.NoError(t, err)
	assert.False(t, changed)
}

func TestRefreshAutoProfile_NotConfigured(t *testing.T) {
	// GIVEN
	s, _ := createService(t, configuration.DefaultConfiguration())
	s.now = at(23)

	// WHEN
	changed, err := s.RefreshAutoProfile()

	// THEN
	assert.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "", s.ActiveProfile())
}
