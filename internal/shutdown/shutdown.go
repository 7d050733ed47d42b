// Package shutdown stops the programs on a signal.
package shutdown

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/logger"
)

const maxGracePeriod = 6 * time.Second

type ErrSignal struct {
	Signal os.Signal
}

func (e ErrSignal) Error() string {
	return fmt.Sprintf("got signal %s", e.Signal)
}

// IsSignal reports whether err is the result of a shutdown signal.
func IsSignal(err error) bool {
	_, ok := errors.Cause(err).(ErrSignal)
	return ok
}

// SigTrap returns an errgroup func that fails with ErrSignal on SIGINT,
// SIGQUIT or SIGTERM.
func SigTrap(ctx context.Context) func() error {
	return func() error {
		trap := make(chan os.Signal, 1)

		signal.Notify(trap, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
		defer signal.Stop(trap)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig := <-trap:
			// in case the service fails to kill itself
			time.AfterFunc(maxGracePeriod, func() {
				logger.FromContext(ctx).Fatal("service failed to shut down gracefully")
			})

			return ErrSignal{Signal: sig}
		}
	}
}

// ServeHTTP returns an errgroup func that serves srv until ctx is done and
// then shuts it down.
func ServeHTTP(ctx context.Context, srv *http.Server) func() error {
	return func() error {
		errs := make(chan error, 1)
		go func() {
			logger.FromContext(ctx).WithField("addr", srv.Addr).Info("listening")
			errs <- srv.ListenAndServe()
		}()

		select {
		case err := <-errs:
			return errors.Wrap(err, "http server")
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), maxGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "failed to shut down http server")
		}

		return ctx.Err()
	}
}
