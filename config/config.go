package config

import (
	"errors"
	"os"
)

// Booking limits the original client enforced before calling the
// platform. The backend validates again; these only gate the form.
const (
	MaxReservationDaysAhead  = 90
	MinReservationHoursAhead = 2
	MaxGuestsPerReservation  = 12
)

// Config holds the process-wide settings read from the environment.
type Config struct {
	PlatformURL     string
	PlatformAnonKey string
	Port            string
	LocalStorePath  string
}

// Load reads the configuration from the environment. The platform URL
// and anon key are required; their absence is a startup error, not a
// recoverable condition.
func Load() (*Config, error) {
	cfg := &Config{
		PlatformURL:     os.Getenv("PLATFORM_URL"),
		PlatformAnonKey: os.Getenv("PLATFORM_ANON_KEY"),
		Port:            os.Getenv("PORT"),
		LocalStorePath:  os.Getenv("LOCAL_STORE_PATH"),
	}

	if cfg.PlatformURL == "" || cfg.PlatformAnonKey == "" {
		return nil, errors.New("platform configuration is missing: PLATFORM_URL and PLATFORM_ANON_KEY are required")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.LocalStorePath == "" {
		cfg.LocalStorePath = "reservas.db"
	}

	return cfg, nil
}
