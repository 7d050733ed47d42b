// Package api implements the Gomail send API.
package api

import (
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
)

type Config struct {
	MaxBodySizeBytes int64    `envconfig:"MAX_BODY_SIZE_BYTES" default:"204800"`
	Queues           []string `envconfig:"QUEUES" default:"gomail-mails"`
}

// Handler holds the send API state.
type Handler struct {
	Config
	queue service.MessageQueue

	// overridable in tests
	newID func() string
	now   func() time.Time
	pick  func(n int) int
}

func NewHandler(config Config, queue service.MessageQueue) *Handler {
	return &Handler{
		Config: config,
		queue:  queue,
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
		pick:   rand.Intn,
	}
}

type responseError struct {
	Errors service.FieldErrors `json:"errors"`
}

type sendEmailRequest struct {
	Email service.Email `json:"email"`
}

type sendEmailResponse struct {
	MessageID string `json:"messageId"`
}

// SendEmail handles POST /email/send
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	defer r.Body.Close()

	// a body over the limit is cut short and fails to decode
	body, err := io.ReadAll(io.LimitReader(r.Body, h.MaxBodySizeBytes))
	if err != nil {
		respondWithError(w, r, baseError("Could not read body"), http.StatusBadRequest)
		return
	}

	var req sendEmailRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithError(w, r, baseError("Could not decode JSON body"), http.StatusBadRequest)
		return
	}

	if errs := Validate(req.Email); errs != nil {
		respondWithError(w, r, errs, http.StatusUnprocessableEntity)
		return
	}

	msg := &service.Message{
		ID:         h.newID(),
		Email:      req.Email,
		EnqueuedAt: h.now().UTC(),
	}
	queue := h.Queues[h.pick(len(h.Queues))]

	if err := h.queue.Push(r.Context(), queue, msg); err != nil {
		log.WithError(err).WithField("queue", queue).Error("failed to enqueue email")
		respondWithError(w, r, baseError("Service unavailable"), http.StatusServiceUnavailable)
		return
	}

	log.WithField("message_id", msg.ID).WithField("queue", queue).Info("email enqueued")

	respond(w, r, http.StatusOK, sendEmailResponse{MessageID: msg.ID})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func baseError(msg string) service.FieldErrors {
	return service.FieldErrors{service.BaseErrorKey: msg}
}

func respondWithError(w http.ResponseWriter, r *http.Request, errs service.FieldErrors, status int) {
	respond(w, r, status, responseError{Errors: errs})
}

func respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	bts, err := json.Marshal(v)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bts)
}
