package db

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"

	"github.com/vestatus/gomail/internal/service"
)

const keyPrefix = "gomail:queue:"

// Redis keeps every queue in a Redis list; RPUSH to enqueue, LPOP to dequeue.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func queueKey(queue string) string {
	return keyPrefix + queue
}

func (r *Redis) Push(ctx context.Context, queue string, msg *service.Message) error {
	if msg == nil {
		return errors.New("message is nil")
	}

	bts, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal message")
	}

	return r.client.WithContext(ctx).RPush(queueKey(queue), string(bts)).Err()
}

func (r *Redis) Pop(ctx context.Context, queue string) (*service.Message, error) {
	res, err := r.client.WithContext(ctx).LPop(queueKey(queue)).Result()
	if err == redis.Nil {
		return nil, service.ErrNoMessages
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to pop message")
	}

	var msg service.Message

	err = json.Unmarshal([]byte(res), &msg)
	if err != nil {
		return nil, errors.Wrap(service.ErrMalformedMessage, err.Error())
	}

	return &msg, nil
}

// Len reports the number of messages waiting in queue.
func (r *Redis) Len(ctx context.Context, queue string) (int64, error) {
	return r.client.WithContext(ctx).LLen(queueKey(queue)).Result()
}

// Ping checks the connection; used at startup.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.WithContext(ctx).Ping().Err()
}
