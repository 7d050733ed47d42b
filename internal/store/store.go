package store

import (
	"context"
	"sync"

	"github.com/vestatus/gomail/internal/client"
	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
)

// Sender is the part of client.Client the store needs.
type Sender interface {
	SendEmail(ctx context.Context, email service.Email) (*client.SendEmailResponse, error)
}

// Store holds the State of one page session and applies actions to it one at a time.
type Store struct {
	sender Sender

	mu          sync.Mutex
	state       State
	subscribers []func(State)
}

func New(sender Sender) *Store {
	return &Store{sender: sender}
}

func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Subscribe registers fn to be called with the new state after every dispatch.
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

func (s *Store) Dispatch(action Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, action)
	state := s.state
	subscribers := make([]func(State), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(state)
	}

	return state
}

// Submit sends email and records the outcome. It dispatches RequestAction before
// the call starts and exactly one of ResponseAction or ErrorAction after it ends.
// Failures never escape: they end up in State.Errors.
func (s *Store) Submit(ctx context.Context, email service.Email) State {
	log := logger.FromContext(ctx)

	s.Dispatch(RequestAction{})

	resp, err := s.sender.SendEmail(ctx, email)
	if err != nil {
		log.WithError(err).Warn("email submission failed")
		return s.Dispatch(ErrorAction{Errors: client.NormalizeErrors(err)})
	}

	log.WithField("message_id", resp.MessageID()).Info("email submitted")

	return s.Dispatch(ResponseAction{MessageID: resp.MessageID()})
}
