package logger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Middleware puts a request-scoped logger into the request context and logs
// every request once it has been served. It expects middleware.RequestID to
// run before it.
func Middleware(base Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			log := base
			if reqID := middleware.GetReqID(r.Context()); reqID != "" {
				log = log.WithField("request_id", reqID)
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(WithLogger(r.Context(), log)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   status,
				"duration": time.Since(start).String(),
			}).Info("http request")
		})
	}
}
