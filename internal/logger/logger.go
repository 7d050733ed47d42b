package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type Logger = *logrus.Entry

type ctxKey string

const loggerCtxKey ctxKey = "logger"

// New builds the root logger. Unknown levels fall back to info.
func New(level string) Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return logrus.NewEntry(log)
}

func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

func FromContext(ctx context.Context) Logger {
	log, found := ctx.Value(loggerCtxKey).(Logger)
	if !found {
		return logrus.NewEntry(logrus.New())
	}

	return log
}
