package main

import (
	"context"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vestatus/gomail/internal/db"
	"github.com/vestatus/gomail/internal/email"
	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/server"
	"github.com/vestatus/gomail/internal/service"
	"github.com/vestatus/gomail/internal/shutdown"
)

func newProvider(ctx context.Context, config *Config, emailConfig email.Config) (*service.Provider, error) {
	sender, err := email.New(ctx, emailConfig)
	if err != nil {
		return nil, err
	}

	provider := service.NewProvider(sender, config.HealthyThreshold, config.UnhealthyThreshold)
	provider.Concurrency = config.Concurrency

	return provider, nil
}

func run(ctx context.Context, config *Config) error {
	redisClient := redis.NewClient(&redis.Options{
		Network: "tcp",
		Addr:    config.RedisAddr,
	})
	defer redisClient.Close()

	queue := db.NewRedis(redisClient)
	if err := queue.Ping(ctx); err != nil {
		return errors.WithMessage(err, "redis is unreachable")
	}

	primary, err := newProvider(ctx, config, config.Primary)
	if err != nil {
		return errors.WithMessage(err, "primary provider")
	}
	secondary, err := newProvider(ctx, config, config.Secondary)
	if err != nil {
		return errors.WithMessage(err, "secondary provider")
	}

	svc := &service.Service{
		Queue:     queue,
		Queues:    config.Queues,
		BatchSize: config.BatchSize,
		Primary:   primary,
		Secondary: secondary,
	}

	logger.FromContext(ctx).
		WithField("primary", primary.Sender.Name()).
		WithField("secondary", secondary.Sender.Name()).
		WithField("queues", config.Queues).
		Info("sender started")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return server.New(config.Server, svc).Run(ctx)
	})
	eg.Go(shutdown.SigTrap(ctx))

	return eg.Wait()
}

func main() {
	config, err := loadConfig()
	if err != nil {
		logger.New("info").WithError(err).Fatal("failed to load config")
	}

	log := logger.New(config.LogLevel).WithField("program", "gomail-sender")
	ctx := logger.WithLogger(context.Background(), log)

	err = run(ctx, config)
	if err != nil && !shutdown.IsSignal(err) {
		log.WithError(err).Fatal("sender stopped")
	}

	log.WithError(err).Info("sender stopped")
}
