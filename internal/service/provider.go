package service

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/vestatus/gomail/internal/logger"
)

// Provider is an EmailSender with a health record kept across iterations.
type Provider struct {
	Sender EmailSender

	// Concurrency caps in-flight sends; 0 means unlimited.
	Concurrency int

	mu                    sync.Mutex
	healthyThreshold      int
	unhealthyThreshold    int
	isHealthy             bool
	consecHealthyChecks   int
	consecUnhealthyChecks int
}

func NewProvider(sender EmailSender, healthyThreshold, unhealthyThreshold int) *Provider {
	return &Provider{
		Sender:             sender,
		healthyThreshold:   healthyThreshold,
		unhealthyThreshold: unhealthyThreshold,
		isHealthy:          true,
	}
}

func (p *Provider) Healthy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.isHealthy
}

// UpdateHealth records the outcome of one iteration. A provider flips state only
// after more than threshold consecutive iterations that disagree with it; the
// counters restart on every flip.
func (p *Provider) UpdateHealth(failures int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if failures > 0 {
		if p.isHealthy {
			p.consecUnhealthyChecks++
		} else {
			p.consecHealthyChecks = 0
		}
	} else {
		if p.isHealthy {
			p.consecUnhealthyChecks = 0
		} else {
			p.consecHealthyChecks++
		}
	}

	if p.isHealthy && p.consecUnhealthyChecks > p.unhealthyThreshold {
		p.isHealthy = false
		p.consecUnhealthyChecks = 0
	}
	if !p.isHealthy && p.consecHealthyChecks > p.healthyThreshold {
		p.isHealthy = true
		p.consecHealthyChecks = 0
	}
}

// Send delivers messages concurrently and returns the number of failed sends.
// Failed messages are handed to requeue; permanently rejected ones are dropped
// and do not count against the provider.
func (p *Provider) Send(ctx context.Context, messages []*Message, requeue func(context.Context, *Message) error) int {
	log := logger.FromContext(ctx).WithField("provider", p.Sender.Name())

	var (
		failures int64
		eg       errgroup.Group
	)
	if p.Concurrency > 0 {
		eg.SetLimit(p.Concurrency)
	}

	for _, msg := range messages {
		eg.Go(func() error {
			err := p.Sender.SendEmail(ctx, msg.Email)
			if err == nil {
				log.WithField("message_id", msg.ID).Debug("email sent")
				return nil
			}

			if IsPermanent(err) {
				log.WithError(err).WithField("message_id", msg.ID).Error("email rejected, dropping message")
				return nil
			}

			atomic.AddInt64(&failures, 1)
			log.WithError(err).WithField("message_id", msg.ID).Error("could not send email")

			if err := requeue(ctx, msg); err != nil {
				log.WithError(err).WithField("message_id", msg.ID).Error("could not return message to queue")
			}

			return nil
		})
	}

	_ = eg.Wait()

	return int(failures)
}
