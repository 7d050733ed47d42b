package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vestatus/gomail/internal/api"
	"github.com/vestatus/gomail/internal/db"
	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
	"github.com/vestatus/gomail/internal/shutdown"
)

func openAccessLog(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open access log")
	}

	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func newQueue(ctx context.Context, addr string) (service.MessageQueue, func() error, error) {
	if addr == "" {
		logger.FromContext(ctx).Warn("REDIS_ADDR is not set, emails are kept in memory and never sent")
		return db.NewInmem(), func() error { return nil }, nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Network: "tcp",
		Addr:    addr,
	})

	queue := db.NewRedis(redisClient)
	if err := queue.Ping(ctx); err != nil {
		redisClient.Close()
		return nil, nil, errors.WithMessage(err, "redis is unreachable")
	}

	return queue, redisClient.Close, nil
}

func run(ctx context.Context, config *Config) error {
	log := logger.FromContext(ctx)

	accessLog, err := openAccessLog(config.AccessLogPath)
	if err != nil {
		return err
	}
	defer accessLog.Close()

	queue, closeQueue, err := newQueue(ctx, config.RedisAddr)
	if err != nil {
		return err
	}
	defer closeQueue()

	srv := &http.Server{
		Addr:    config.Addr,
		Handler: api.NewRouter(api.NewHandler(config.API, queue), log, accessLog),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(shutdown.ServeHTTP(ctx, srv))
	eg.Go(shutdown.SigTrap(ctx))

	return eg.Wait()
}

func main() {
	config, err := loadConfig()
	if err != nil {
		logger.New("info").WithError(err).Fatal("failed to load config")
	}

	log := logger.New(config.LogLevel).WithField("program", "gomail-api")
	ctx := logger.WithLogger(context.Background(), log)

	err = run(ctx, config)
	if err != nil && !shutdown.IsSignal(err) {
		log.WithError(err).Fatal("api stopped")
	}

	log.WithError(err).Info("api stopped")
}
