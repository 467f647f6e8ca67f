// Package config provides configuration management for the OnAir server.
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

// DeviceTarget addresses a switcher's control endpoint.
type DeviceTarget struct {
	Name string `json:"name"`
	Host string `json:"ip"`
	Port int    `json:"port"`
}

// Address returns host:port for the target.
func (t DeviceTarget) Address() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// IsZero reports whether the target has no usable address.
func (t DeviceTarget) IsZero() bool {
	return t.Host == "" || t.Port <= 0
}

// ParseDeviceTarget parses a "host:port" string.
func ParseDeviceTarget(name, hostport string) (DeviceTarget, error) {
	host, portStr, err := net.SplitHostPort(hostport)
	if err != nil {
		return DeviceTarget{}, fmt.Errorf("invalid device address %q: %w", hostport, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return DeviceTarget{}, fmt.Errorf("invalid device port %q", portStr)
	}
	return DeviceTarget{Name: name, Host: host, Port: port}, nil
}

// Config holds all configuration values for the server.
type Config struct {
	// Server configuration
	Port string
	Env  string

	// Database configuration
	DatabaseURL string

	// Default switcher target, used when a program has no override
	VMixHost    string
	VMixPort    int
	VMixTimeout time.Duration

	// Playout timing
	TakeDelay    time.Duration // Minimum gap between preview and cut
	StopFade     time.Duration // Fade-to-black duration on stop
	TickInterval time.Duration // Elapsed-time cadence for the on-air item

	// CORS configuration
	CORSOrigin string
}

// Load loads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		// Server
		Port: getEnv("PORT", "4000"),
		Env:  getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", "file:./onair.db"),

		// Switcher
		VMixHost:    getEnv("VMIX_HOST", "127.0.0.1"),
		VMixPort:    getEnvInt("VMIX_PORT", 8088),
		VMixTimeout: time.Duration(getEnvInt("VMIX_TIMEOUT_MS", 2000)) * time.Millisecond,

		// Playout timing
		TakeDelay:    time.Duration(getEnvInt("TAKE_DELAY_MS", 50)) * time.Millisecond,
		StopFade:     time.Duration(getEnvInt("STOP_FADE_MS", 500)) * time.Millisecond,
		TickInterval: time.Duration(getEnvInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,

		// CORS
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}
}

// DefaultTarget returns the process default switcher target.
func (c *Config) DefaultTarget() DeviceTarget {
	return DeviceTarget{
		Name: "Default Playout",
		Host: c.VMixHost,
		Port: c.VMixPort,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default value.
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
