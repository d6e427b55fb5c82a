package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestProfiles_AreValid(t *testing.T) {
	for _, profile := range Profiles() {
		config := profile.ApplyTo(DefaultConfiguration())
		assert.NoError(t, Validate(config), profile.Name)
	}
}

func TestTimeBasedProfile(t *testing.T) {
	day := func(hour, minute int) time.Time {
		return time.Date(2024, 5, 1, hour, minute, 0, 0, time.Local)
	}

	assert.Equal(t, ProfileSilent, TimeBasedProfile(day(23, 30)))
	assert.Equal(t, ProfileSilent, TimeBasedProfile(day(22, 0)))
	assert.Equal(t, ProfileSilent, TimeBasedProfile(day(3, 0)))
	assert.Equal(t, ProfileSilent, TimeBasedProfile(day(7, 0)))
	assert.Equal(t, ProfileDefault, TimeBasedProfile(day(7, 1)))
	assert.Equal(t, ProfileDefault, TimeBasedProfile(day(12, 0)))
	assert.Equal(t, ProfileDefault, TimeBasedProfile(day(21, 59)))
}

func TestResolveProfile(t *testing.T) {
	noon := time.Date(2024, 5, 1, 12, 0, 0, 0, time.Local)

	_, ok := ResolveProfile("", noon)
	assert.False(t, ok)

	profile, ok := ResolveProfile(ProfileAuto, noon)
	assert.True(t, ok)
	assert.Equal(t, ProfileDefault, profile.Name)

	profile, ok = ResolveProfile(ProfileSilent, noon)
	assert.True(t, ok)
	assert.Equal(t, 180, profile.Fan1.MaxPwm)

	_, ok = ResolveProfile("turbo", noon)
	assert.False(t, ok)
}

func TestProfile_ApplyToKeepsNotificationSettings(t *testing.T) {
	// GIVEN
	config := DefaultConfiguration()
	config.Alerts.TelegramNotifications = true
	silent, _ := GetProfile(ProfileSilent)

	// WHEN
	result := silent.ApplyTo(config)

	// THEN
	assert.Equal(t, 100.0, result.Alerts.TempCritical)
	assert.Equal(t, 400.0, result.Alerts.RpmThreshold)
	assert.True(t, result.Alerts.TelegramNotifications)
	assert.Equal(t, silent.Fan1, result.Fan1)
	assert.Equal(t, config.HwMon, result.HwMon)
}
