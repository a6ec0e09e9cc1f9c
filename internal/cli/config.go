package cli

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
)

// Config holds settings sourced from RASTERCALC_* environment variables.
// Per-command flags override these where both exist.
type Config struct {
	// LogLevel enables progress logging on stderr when set to "debug".
	LogLevel string `env:"RASTERCALC_LOG_LEVEL"    envDefault:"info"`

	// Spacing is the default ground distance between adjacent cells, in
	// elevation units, for the terrain commands.
	Spacing float64 `env:"RASTERCALC_SPACING"      envDefault:"30"`

	// JPEGQuality applies when render writes a .jpg output.
	JPEGQuality int `env:"RASTERCALC_JPEG_QUALITY" envDefault:"90"`
}

// ParseConfig reads configuration from the environment.
func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("cli: parse environment: %w", err)
	}
	return cfg, nil
}

func (c Config) debugf(format string, args ...any) {
	if c.LogLevel == "debug" {
		log.Printf(format, args...)
	}
}
