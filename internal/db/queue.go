package db

import (
	"context"
	"errors"
	"sync"

	"github.com/vestatus/gomail/internal/logger"
	"github.com/vestatus/gomail/internal/service"
)

// Inmem is a MessageQueue kept in process memory. Used in tests and when no
// Redis address is configured.
type Inmem struct {
	mu     *sync.Mutex
	queues map[string][]service.Message
}

func NewInmem() *Inmem {
	return &Inmem{
		mu:     &sync.Mutex{},
		queues: map[string][]service.Message{},
	}
}

func (q *Inmem) Push(ctx context.Context, queue string, msg *service.Message) error {
	if msg == nil {
		return errors.New("message is nil")
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	logger.FromContext(ctx).Debugf("push %s to %s", msg.ID, queue)

	q.queues[queue] = append(q.queues[queue], *msg)
	return nil
}

func (q *Inmem) Pop(ctx context.Context, queue string) (*service.Message, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	messages := q.queues[queue]
	if len(messages) == 0 {
		return nil, service.ErrNoMessages
	}

	msg := messages[0]
	q.queues[queue] = messages[1:]

	logger.FromContext(ctx).Debugf("pop %s from %s", msg.ID, queue)

	return &msg, nil
}

// Len reports the number of messages waiting in queue.
func (q *Inmem) Len(queue string) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.queues[queue])
}
