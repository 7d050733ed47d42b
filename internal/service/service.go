package service

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vestatus/gomail/internal/logger"
)

// Message is the queue envelope around an accepted email.
type Message struct {
	ID         string    `json:"id"`
	Email      Email     `json:"email"`
	EnqueuedAt time.Time `json:"enqueuedAt"`

	// Queue is the queue the message was read from.
	Queue string `json:"-"`
}

var (
	ErrNoMessages       = errors.New("no messages in queue")
	ErrMalformedMessage = errors.New("malformed message")
)

type MessageQueue interface {
	Push(ctx context.Context, queue string, msg *Message) error
	// A MessageQueue should return ErrNoMessages if the queue is empty
	Pop(ctx context.Context, queue string) (*Message, error)
}

// Service drains the queues and splits every batch between two providers.
type Service struct {
	Queue     MessageQueue
	Queues    []string
	BatchSize int

	Primary   *Provider
	Secondary *Provider
}

// ReadBatch pops up to BatchSize messages from every queue.
// Messages that cannot be decoded are dropped.
func (s *Service) ReadBatch(ctx context.Context) ([]*Message, error) {
	log := logger.FromContext(ctx)

	var messages []*Message

	for _, queue := range s.Queues {
		for i := 0; i < s.BatchSize; i++ {
			msg, err := s.Queue.Pop(ctx, queue)
			if errors.Cause(err) == ErrNoMessages {
				break
			}
			if errors.Cause(err) == ErrMalformedMessage {
				log.WithError(err).WithField("queue", queue).Error("dropping malformed message")
				continue
			}
			if err != nil {
				return messages, errors.Wrapf(err, "failed to pop from %s", queue)
			}

			msg.Queue = queue
			messages = append(messages, msg)
		}
	}

	return messages, nil
}

// SendNextBatch reads a batch and delivers it. It reports how many messages were read.
func (s *Service) SendNextBatch(ctx context.Context) (int, error) {
	if len(s.Queues) == 0 {
		return 0, Fatal(errors.New("no queues configured"))
	}

	messages, err := s.ReadBatch(ctx)
	if err != nil && len(messages) == 0 {
		return 0, errors.WithMessage(err, "failed to read batch")
	}
	if err != nil {
		logger.FromContext(ctx).WithError(err).Warn("partial batch read")
	}

	if len(messages) == 0 {
		return 0, nil
	}

	split := SplitPoint(len(messages), s.Primary.Healthy(), s.Secondary.Healthy())

	eg, egCtx := errgroup.WithContext(ctx)
	s.dispatch(egCtx, eg, s.Primary, messages[split:])
	s.dispatch(egCtx, eg, s.Secondary, messages[:split])

	return len(messages), eg.Wait()
}

func (s *Service) dispatch(ctx context.Context, eg *errgroup.Group, p *Provider, messages []*Message) {
	if len(messages) == 0 {
		return
	}

	eg.Go(func() error {
		failures := p.Send(ctx, messages, s.requeue)
		p.UpdateHealth(failures)
		return nil
	})
}

func (s *Service) requeue(ctx context.Context, msg *Message) error {
	err := s.Queue.Push(ctx, msg.Queue, msg)
	if err != nil {
		return errors.Wrapf(err, "failed to return message %s to %s", msg.ID, msg.Queue)
	}

	return nil
}

// SplitPoint returns the index at which a batch of size messages is cut:
// the secondary provider gets messages[:split], the primary messages[split:].
func SplitPoint(size int, primaryHealthy, secondaryHealthy bool) int {
	// a single message goes to the primary unless only the secondary is healthy
	if size == 1 {
		if primaryHealthy || !secondaryHealthy {
			return 0
		}
		return 1
	}

	switch {
	case primaryHealthy == secondaryHealthy:
		return size / 2
	case primaryHealthy:
		return 1
	default:
		return size - 1
	}
}
