package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Guest account modes.
const (
	GuestPooled    = "pooled"
	GuestEphemeral = "ephemeral"
)

// Config holds all application configuration, parsed from the environment.
type Config struct {
	Addr        string `env:"ADDR" envDefault:":8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`

	JWTSecret  string        `env:"JWT_SECRET,required"`
	AccessTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`

	// GuestMode selects between a single pooled demo account and a fresh
	// throwaway user per guest login.
	GuestMode     string `env:"GUEST_MODE" envDefault:"pooled"`
	GuestEmail    string `env:"GUEST_EMAIL" envDefault:"guest@kanmind.dev"`
	GuestFullName string `env:"GUEST_FULLNAME" envDefault:"Guest"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.GuestMode != GuestPooled && cfg.GuestMode != GuestEphemeral {
		return Config{}, fmt.Errorf("GUEST_MODE must be %q or %q, got %q", GuestPooled, GuestEphemeral, cfg.GuestMode)
	}
	return cfg, nil
}

// String masks secrets so the config can be logged at startup.
func (c Config) String() string {
	return fmt.Sprintf("Config{Addr: %s, DB: set, JWT: *** (masked), AccessTTL: %s, RefreshTTL: %s, GuestMode: %s}",
		c.Addr, c.AccessTTL, c.RefreshTTL, c.GuestMode)
}
