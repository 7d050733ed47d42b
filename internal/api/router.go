package api

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/handlers"

	"github.com/vestatus/gomail/internal/logger"
)

func (h *Handler) Routes(r chi.Router) {
	r.Post("/email/send", h.SendEmail)
	r.Get("/health", h.Health)
}

// NewRouter wires the API with request ids, request logging, panic recovery,
// CORS for the form and an access log in combined format.
func NewRouter(h *Handler, log logger.Logger, accessLog io.Writer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)

	h.Routes(r)

	cors := handlers.CORS(
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowedMethods([]string{http.MethodPost}),
		handlers.AllowedOrigins([]string{"*"}),
	)

	return handlers.CombinedLoggingHandler(accessLog, cors(r))
}
