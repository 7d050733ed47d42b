package main

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/email"
	"github.com/vestatus/gomail/internal/server"
)

type Config struct {
	LogLevel  string   `envconfig:"LOG_LEVEL" default:"info"`
	RedisAddr string   `envconfig:"REDIS_ADDR"`
	Queues    []string `envconfig:"QUEUES" default:"gomail-mails"`
	BatchSize int      `envconfig:"BATCH_SIZE" default:"10"`

	HealthyThreshold   int `envconfig:"HEALTHY_THRESHOLD" default:"3"`
	UnhealthyThreshold int `envconfig:"UNHEALTHY_THRESHOLD" default:"3"`
	Concurrency        int `envconfig:"CONCURRENCY" default:"10"`

	Primary   email.Config  `envconfig:"PRIMARY"`
	Secondary email.Config  `envconfig:"SECONDARY"`
	Server    server.Config `envconfig:"SERVER"`
}

func (c Config) validate() error {
	if c.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}
	if len(c.Queues) == 0 {
		return errors.New("QUEUES must contain at least one value")
	}
	if c.BatchSize <= 0 {
		return errors.New("BATCH_SIZE must be positive")
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
