// internal/service/notification/service.go
package notification

import (
	"context"

	"grocer-service/internal/domain/notification"

	"go.uber.org/zap"
)

// NotificationService addresses events to rooms. Publishing is fire and
// forget: failures are logged and never returned to the caller.
type NotificationService struct {
	publisher Publisher
	logger    *zap.Logger
}

func NewNotificationService(publisher Publisher, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		publisher: publisher,
		logger:    logger,
	}
}

// NotifyUser sends an event to the user's own room
func (s *NotificationService) NotifyUser(ctx context.Context, userID string, kind notification.Kind, payload map[string]interface{}) {
	s.publish(ctx, notification.NewEvent(kind, notification.UserRoom(userID), payload))
}

// NotifyAdmins sends an event to the admin room
func (s *NotificationService) NotifyAdmins(ctx context.Context, kind notification.Kind, payload map[string]interface{}) {
	s.publish(ctx, notification.NewEvent(kind, notification.AdminRoom, payload))
}

// NotifyUserAndAdmins sends the same event to the user's room and the admin room
func (s *NotificationService) NotifyUserAndAdmins(ctx context.Context, userID string, kind notification.Kind, payload map[string]interface{}) {
	s.NotifyUser(ctx, userID, kind, payload)
	s.NotifyAdmins(ctx, kind, payload)
}

func (s *NotificationService) publish(ctx context.Context, event notification.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish notification",
			zap.String("kind", string(event.Kind)),
			zap.String("room", event.Room),
			zap.Error(err),
		)
	}
}
