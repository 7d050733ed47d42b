package main

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/client"
)

type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Addr     string `envconfig:"ADDR" default:":3000"`
	Banner   string `envconfig:"BANNER"`

	SessionIdleTimeout   time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	SessionSweepInterval time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"1m"`

	API client.Config `envconfig:"API"`
}

func (c Config) validate() error {
	if c.SessionIdleTimeout <= 0 {
		return errors.New("SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.SessionSweepInterval <= 0 {
		return errors.New("SESSION_SWEEP_INTERVAL must be positive")
	}

	return nil
}

func loadConfig() (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	var config Config

	err := envconfig.Process("gomail", &config)
	if err != nil {
		return nil, err
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
