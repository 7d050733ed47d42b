package server

import "time"

type Config struct {
	IterationTimeout     time.Duration `envconfig:"ITERATION_TIMEOUT" default:"30s"`
	MinIterationDuration time.Duration `envconfig:"MIN_ITERATION_DURATION" default:"1s"`
	HealthReportInterval time.Duration `envconfig:"HEALTH_REPORT_INTERVAL" default:"1m"`
}
