package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, v := range []string{
		"PORT", "ENV", "DATABASE_URL", "VMIX_HOST", "VMIX_PORT", "VMIX_TIMEOUT_MS",
		"TAKE_DELAY_MS", "STOP_FADE_MS", "TICK_INTERVAL_MS", "CORS_ORIGIN",
	} {
		t.Setenv(v, "")
	}

	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "file:./onair.db", cfg.DatabaseURL)
	assert.Equal(t, "127.0.0.1", cfg.VMixHost)
	assert.Equal(t, 8088, cfg.VMixPort)
	assert.Equal(t, 50*time.Millisecond, cfg.TakeDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.StopFade)
	assert.Equal(t, time.Second, cfg.TickInterval)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_CustomEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_URL", "file:./prod.db")
	t.Setenv("VMIX_HOST", "192.168.1.101")
	t.Setenv("VMIX_PORT", "8089")
	t.Setenv("TAKE_DELAY_MS", "80")
	t.Setenv("STOP_FADE_MS", "1000")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "file:./prod.db", cfg.DatabaseURL)
	assert.Equal(t, 80*time.Millisecond, cfg.TakeDelay)
	assert.Equal(t, time.Second, cfg.StopFade)

	target := cfg.DefaultTarget()
	assert.Equal(t, "192.168.1.101", target.Host)
	assert.Equal(t, 8089, target.Port)
	assert.Equal(t, "192.168.1.101:8089", target.Address())
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	t.Setenv("VMIX_PORT", "not-a-number")
	assert.Equal(t, 8088, Load().VMixPort)
}

func TestParseDeviceTarget(t *testing.T) {
	target, err := ParseDeviceTarget("Studio A", "10.0.0.5:8088")
	require.NoError(t, err)
	assert.Equal(t, DeviceTarget{Name: "Studio A", Host: "10.0.0.5", Port: 8088}, target)
	assert.False(t, target.IsZero())

	_, err = ParseDeviceTarget("", "10.0.0.5")
	assert.Error(t, err)

	_, err = ParseDeviceTarget("", "10.0.0.5:99999")
	assert.Error(t, err)
}

func TestDeviceTarget_IsZero(t *testing.T) {
	assert.True(t, DeviceTarget{}.IsZero())
	assert.True(t, DeviceTarget{Host: "h"}.IsZero())
	assert.False(t, DeviceTarget{Host: "h", Port: 1}.IsZero())
}
