package main

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vestatus/gomail/internal/client"
	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/shutdown"
	"github.com/vestatus/gomail/internal/view"
)

func run(ctx context.Context, config *Config) error {
	log := logger.FromContext(ctx)

	apiClient, err := client.NewFromConfig(config.API)
	if err != nil {
		return errors.WithMessage(err, "failed to create api client")
	}

	sessions := view.NewSessions(apiClient)
	sessions.IdleTimeout = config.SessionIdleTimeout

	handler := view.NewHandler(sessions, config.Banner)

	srv := &http.Server{
		Addr:    config.Addr,
		Handler: view.NewRouter(handler, log),
	}

	log.WithField("api", config.API.BaseURL).Info("form server started")

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(shutdown.ServeHTTP(ctx, srv))
	eg.Go(func() error {
		return sessions.Run(ctx, config.SessionSweepInterval)
	})
	eg.Go(shutdown.SigTrap(ctx))

	return eg.Wait()
}

func main() {
	config, err := loadConfig()
	if err != nil {
		logger.New("info").WithError(err).Fatal("failed to load config")
	}

	log := logger.New(config.LogLevel).WithField("program", "gomail-web")
	ctx := logger.WithLogger(context.Background(), log)

	err = run(ctx, config)
	if err != nil && !shutdown.IsSignal(err) {
		log.WithError(err).Fatal("form server stopped")
	}

	log.WithError(err).Info("form server stopped")
}
