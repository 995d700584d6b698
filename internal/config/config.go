package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Config is everything read from the environment. Flags on the individual
// commands override these per invocation.
type Config struct {
	// PostgresDSN is only needed by the commands that touch the corpus
	// (import, search, serve), fetching transcripts works without it.
	PostgresDSN string `env:"POSTGRES_DSN"`

	Addr              string        `env:"ADDR" envDefault:":8080"`
	Languages         []string      `env:"LANGUAGES" envSeparator:"," envDefault:"en"`
	Timeout           time.Duration `env:"TIMEOUT" envDefault:"30s"`
	Proxy             string        `env:"PROXY"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
}

// Load parses the environment, first layering a .env file from the working
// directory over it when there is one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return &cfg, nil
}
