// Package config loads the orchestration core's recognised options from
// environment variables into a flat struct with documented defaults.
package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every recognised option, each with the documented
// default.
type Config struct {
	SessionTTLSeconds      int `env:"SESSION_TTL_SECONDS" envDefault:"86400"`
	LockTTLSeconds         int `env:"LOCK_TTL_SECONDS" envDefault:"30"`
	IdempotencyTTLSeconds  int `env:"IDEMPOTENCY_TTL_SECONDS" envDefault:"3600"`
	OrchestratedTTLSeconds int `env:"ORCHESTRATED_TTL_SECONDS" envDefault:"3600"`

	LLMRoutingEnabled bool    `env:"LLM_ROUTING_ENABLED" envDefault:"false"`
	LLMProvider       string  `env:"LLM_PROVIDER" envDefault:"anthropic"`
	LLMModel          string  `env:"LLM_MODEL" envDefault:"claude-sonnet-4-5-20250929"`
	LLMTimeoutMS      int     `env:"LLM_TIMEOUT_MS" envDefault:"900"`
	LLMTemperature    float64 `env:"LLM_TEMPERATURE" envDefault:"0.3"`
	LLMAPIKey         string  `env:"LLM_API_KEY"`

	MaxBatonHops    int `env:"MAX_BATON_HOPS" envDefault:"2"`
	MaxDialogueText int `env:"MAX_DIALOGUE_TEXT" envDefault:"200"`

	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

// Load parses Config from the process environment, applying the defaults
// above for anything unset.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSeconds) * time.Second
}

func (c Config) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

func (c Config) IdempotencyTTL() time.Duration {
	return time.Duration(c.IdempotencyTTLSeconds) * time.Second
}

func (c Config) OrchestratedTTL() time.Duration {
	return time.Duration(c.OrchestratedTTLSeconds) * time.Second
}

func (c Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutMS) * time.Millisecond
}
