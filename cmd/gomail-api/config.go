package main

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/api"
)

type Config struct {
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	Addr          string `envconfig:"ADDR" default:":8080"`
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	AccessLogPath string `envconfig:"ACCESS_LOG_PATH"`

	API api.Config `envconfig:"API"`
}

func (c Config) validate() error {
	if len(c.API.Queues) == 0 {
		return errors.New("API_QUEUES must contain at least one value")
	}
	if c.API.MaxBodySizeBytes <= 0 {
		return errors.New("API_MAX_BODY_SIZE_BYTES must be positive")
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
