package view

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
	"github.com/vestatus/gomail/internal/store"
)

// Handler serves the Gomail form.
type Handler struct {
	sessions *Sessions
	banner   string
}

func NewHandler(sessions *Sessions, banner string) *Handler {
	return &Handler{sessions: sessions, banner: banner}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Index)
	r.Post("/", h.Submit)
	r.Post("/field", h.UpdateField)
	r.Get("/state", h.State)
	r.Get("/health", h.Health)
}

// NewRouter wires the form handler with request ids, request logging and
// panic recovery.
func NewRouter(h *Handler, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(log))
	r.Use(middleware.Recoverer)

	h.Routes(r)

	return r
}

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)
	h.render(w, r, sess)
}

// UpdateField handles POST /field and replaces one value of the form.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)

	field, ok := service.ParseField(r.PostFormValue("name"))
	if !ok {
		http.Error(w, "unknown field", http.StatusBadRequest)
		return
	}

	value := r.PostFormValue("value")
	sess.Update(func(f Form) Form { return f.Set(field, value) })

	h.render(w, r, sess)
}

// Submit handles POST / and sends the current form. The form keeps its
// values afterwards, whatever the outcome.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.Get(w, r)

	if err := r.ParseForm(); err != nil {
		http.Error(w, "could not parse form", http.StatusBadRequest)
		return
	}

	form := sess.Update(func(f Form) Form { return f.Apply(r.PostForm) })
	sess.Store().Submit(r.Context(), form.Email())

	h.render(w, r, sess)
}

// State handles GET /state. It never starts a session; callers without one
// get the initial state.
func (h *Handler) State(w http.ResponseWriter, r *http.Request) {
	var state store.State
	if sess := h.sessions.Lookup(r); sess != nil {
		state = sess.Store().State()
	}

	writeJSON(w, r, state)
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, sess *Session) {
	page := Page{
		Banner: h.banner,
		Form:   sess.Form(),
		State:  sess.Store().State(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Render(w, page); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("failed to render page")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).WithError(err).Error("failed to encode response")
	}
}
