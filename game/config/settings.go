package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/rs/zerolog"
)

// Settings holds process-level options read from the environment
type Settings struct {
	Host      string `env:"HOST" envDefault:"localhost"`
	Port      int    `env:"PORT" envDefault:"8080"`
	ConfigDir string `env:"CONFIG_DIR" envDefault:"configs"`

	// TickRate is the number of real-time frames per second for live sessions
	TickRate int `env:"TICK_RATE" envDefault:"60"`

	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"1h"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogPretty bool   `env:"LOG_PRETTY" envDefault:"true"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// ReadSettings parses Settings from the process environment
func ReadSettings() (*Settings, error) {
	return ReadSettingsFrom(nil)
}

// ReadSettingsFrom parses Settings from environ, or from the process environment when environ is nil
func ReadSettingsFrom(environ map[string]string) (*Settings, error) {
	settings := Settings{}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(&settings, opts); err != nil {
		return nil, fmt.Errorf("read settings error: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return &settings, nil
}

// Validate checks ranges the env parser cannot
func (s *Settings) Validate() error {
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("settings: port %d out of range", s.Port)
	}
	if s.TickRate < 1 || s.TickRate > 1000 {
		return fmt.Errorf("settings: tick rate must be between 1 and 1000, got %d", s.TickRate)
	}
	if s.SessionTTL <= 0 {
		return fmt.Errorf("settings: session ttl must be positive")
	}
	if s.CleanupInterval <= 0 {
		return fmt.Errorf("settings: cleanup interval must be positive")
	}
	if _, err := s.Level(); err != nil {
		return err
	}
	return nil
}

// Level returns the zerolog level named by LogLevel
func (s *Settings) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(s.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("settings: %w", err)
	}
	return level, nil
}

// TickInterval is the period between real-time frames
func (s *Settings) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// Addr is the host:port the HTTP server binds
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
