package internal

import (
	"context"
	"testing"
	"time"

	"github.com/fancontrol/fancontrol/internal/configuration"
	"github.com/fancontrol/fancontrol/internal/controller"
	"github.com/fancontrol/fancontrol/internal/service"
	"github.com/fancontrol/fancontrol/internal/testingutils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createHwmonDir(t *testing.T) string {
	files := testingutils.DefaultHwmonFiles()
	files["pwm1"] = "0"
	files["pwm2"] = "0"
	return testingutils.CreateHwmonDir(t, files)
}

func TestRun(t *testing.T) {
	// GIVEN
	dir := createHwmonDir(t)
	config := configuration.DefaultConfiguration()
	config.TickRate = 5 * time.Millisecond
	config.Api.Enabled = true
	config.Api.Host = "127.0.0.1"
	config.Api.Port = 0
	config.Statistics.Enabled = true
	config.Statistics.Port = 0
	s, err := service.New(config, dir)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())

	// WHEN
	result := make(chan error, 1)
	go func() {
		result <- Run(ctx, s, config, prometheus.NewRegistry())
	}()

	// THEN
	assert.Eventually(t, func() bool {
		return s.History().Len() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, "172", testingutils.ReadFile(t, dir, "pwm1"))

	// WHEN
	cancel()

	// THEN
	select {
	case err = <-result:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("daemon did not stop")
	}
	assert.Equal(t, controller.Stopped, s.Loop().State())
}

func TestRun_FailsOnDuplicateRegistration(t *testing.T) {
	// GIVEN
	config := configuration.DefaultConfiguration()
	s, err := service.New(config, createHwmonDir(t))
	require.NoError(t, err)
	registry := prometheus.NewRegistry()
	other, err := service.New(config, createHwmonDir(t))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, Run(ctx, other, config, registry))

	// WHEN
	err = Run(context.Background(), s, config, registry)

	// THEN
	assert.Error(t, err)
}
