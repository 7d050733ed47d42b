package view

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/store"
)

const (
	sessionCookie = "gomail_session"

	DefaultSessionIdleTimeout = 30 * time.Minute
)

// Session is one open page: its uncommitted form and its state container.
type Session struct {
	mu       sync.Mutex
	form     Form
	lastSeen time.Time

	store *store.Store
}

func (s *Session) Form() Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.form
}

func (s *Session) Store() *store.Store {
	return s.store
}

// Update replaces the form with fn's result and returns it.
func (s *Session) Update(fn func(Form) Form) Form {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.form = fn(s.form)
	return s.form
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = now
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return now.Sub(s.lastSeen)
}

// Sessions keeps page sessions in memory, keyed by the session cookie.
// Sessions idle for longer than IdleTimeout are dropped by Sweep.
type Sessions struct {
	IdleTimeout time.Duration

	newStore func() *store.Store
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(sender store.Sender) *Sessions {
	return &Sessions{
		IdleTimeout: DefaultSessionIdleTimeout,
		newStore:    func() *store.Store { return store.New(sender) },
		now:         time.Now,
		sessions:    map[string]*Session{},
	}
}

// Lookup returns the caller's session, or nil when the request carries no
// known session id.
func (s *Sessions) Lookup(r *http.Request) *Session {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	sess, found := s.sessions[c.Value]
	s.mu.Unlock()

	if !found {
		return nil
	}

	sess.touch(s.now())
	return sess
}

// Get returns the caller's session, starting a new one (and setting the
// cookie) when the request carries no known session id.
func (s *Sessions) Get(w http.ResponseWriter, r *http.Request) *Session {
	if sess := s.Lookup(r); sess != nil {
		return sess
	}

	id := uuid.New().String()
	sess := &Session{store: s.newStore(), lastSeen: s.now()}

	log := logger.FromContext(r.Context()).WithField("session", id)
	sess.store.Subscribe(func(state store.State) {
		log.WithField("submitting", state.IsSubmittingEmail).
			WithField("success", state.ShowSuccess).
			WithField("errors", len(state.Errors)).
			Debug("session state changed")
	})

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return sess
}

// Sweep drops every session idle for longer than IdleTimeout and returns how
// many were dropped.
func (s *Sessions) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var dropped int
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.IdleTimeout {
			delete(s.sessions, id)
			dropped++
		}
	}

	return dropped
}

// Run sweeps idle sessions every interval until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if dropped := s.Sweep(); dropped > 0 {
				log.WithField("dropped", dropped).WithField("sessions", s.Len()).Debug("idle sessions dropped")
			}
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}
