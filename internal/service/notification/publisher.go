// internal/service/notification/publisher.go
package notification

import (
	"context"

	"grocer-service/internal/domain/notification"
	wstypes "grocer-service/internal/domain/websocket"
	ws "grocer-service/internal/websocket"

	"go.uber.org/zap"
)

// Publisher delivers an event to whoever listens on event.Room.
// Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, event notification.Event) error
}

// HubPublisher pushes events straight to sockets connected to this process.
type HubPublisher struct {
	hub *ws.Hub
}

func NewHubPublisher(hub *ws.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, event notification.Event) error {
	msg := wstypes.NewMessage(wstypes.EventType(event.Kind), event.Payload)
	msg.Timestamp = event.Timestamp
	if !p.hub.Broadcast(event.Room, msg) {
		return ErrDropped
	}
	return nil
}

// LogPublisher only logs events. It stands in when neither a hub nor a
// Redis bus is available, e.g. a one-shot renewal run without Redis.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event notification.Event) error {
	p.logger.Debug("notification not delivered, no listeners",
		zap.String("kind", string(event.Kind)),
		zap.String("room", event.Room),
	)
	return nil
}
