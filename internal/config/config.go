// Package config loads server configuration from the environment.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gabrielblins/pokemon-agent-system/internal/errors"
)

// Config is the full server configuration. Every knob has an environment
// default so a bare `server serve` with just the API key set comes up.
type Config struct {
	// Port the HTTP server listens on
	Port int `env:"PORT" envDefault:"8000"`

	// GeminiAPIKey authenticates the oracle (required)
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	// GeminiModel names the routing model
	GeminiModel string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`

	// RedisAddress enables the redis-backed cache when set; empty falls
	// back to the in-memory cache
	RedisAddress string `env:"REDIS_ADDRESS"`
	// RedisPassword for the cache connection
	RedisPassword string `env:"REDIS_PASSWORD"`
	// CacheTTL bounds how long catalog records stay cached
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	// PokeAPIBaseURL points at the external catalog
	PokeAPIBaseURL string `env:"POKEAPI_BASE_URL" envDefault:"https://pokeapi.co/api/v2"`

	// MaxTurns bounds capability turns per orchestration run
	MaxTurns int `env:"MAX_TURNS" envDefault:"8"`
	// RunTimeout bounds wall-clock time per orchestration run
	RunTimeout time.Duration `env:"RUN_TIMEOUT" envDefault:"60s"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants env tags cannot express.
func (cfg *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if cfg.GeminiAPIKey == "" {
		vb.RequiredField("GEMINI_API_KEY")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		vb.InvalidField("PORT", "must be between 1 and 65535")
	}
	if cfg.MaxTurns <= 0 {
		vb.InvalidField("MAX_TURNS", "must be positive")
	}
	if cfg.RunTimeout <= 0 {
		vb.InvalidField("RUN_TIMEOUT", "must be positive")
	}
	return vb.Build()
}
