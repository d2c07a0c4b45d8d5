// internal/service/notification/redis_bus.go
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"grocer-service/internal/domain/notification"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Channel is the Redis pub/sub channel events travel on between processes.
const Channel = "grocer:notifications"

var ErrDropped = errors.New("notification dropped")

// RedisPublisher publishes events on the Redis bus so that any process
// holding sockets can deliver them.
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client, channel: Channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, event notification.Event) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	return nil
}

// Relay subscribes to the Redis bus and hands every event to a local
// publisher, normally the websocket hub.
type Relay struct {
	client  *redis.Client
	channel string
	local   Publisher
	logger  *zap.Logger
}

func NewRelay(client *redis.Client, local Publisher, logger *zap.Logger) *Relay {
	return &Relay{client: client, channel: Channel, local: local, logger: logger}
}

// Run blocks until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	r.logger.Info("notification relay subscribed", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			r.dispatch(ctx, msg.Payload)
		}
	}
}

func (r *Relay) dispatch(ctx context.Context, payload string) {
	event, err := decodeEvent(payload)
	if err != nil {
		r.logger.Warn("discarding malformed notification", zap.Error(err))
		return
	}
	if err := r.local.Publish(ctx, event); err != nil {
		r.logger.Warn("failed to deliver relayed notification",
			zap.String("kind", string(event.Kind)),
			zap.String("room", event.Room),
			zap.Error(err),
		)
	}
}

func encodeEvent(event notification.Event) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notification: %w", err)
	}
	return data, nil
}

func decodeEvent(payload string) (notification.Event, error) {
	var event notification.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, fmt.Errorf("failed to decode notification: %w", err)
	}
	if event.Kind == "" || event.Room == "" {
		return event, fmt.Errorf("notification missing kind or room")
	}
	return event, nil
}
