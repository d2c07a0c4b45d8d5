package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"grocer-service/internal/domain/notification"
	"grocer-service/internal/pkg/jwt"
	ws "grocer-service/internal/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []notification.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event notification.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func TestNotifyUserAndAdmins(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewNotificationService(pub, zap.NewNop())

	svc.NotifyUserAndAdmins(context.Background(), "user-1", notification.KindOrderStatusUpdated, map[string]interface{}{"orderId": "o-1"})

	require.Len(t, pub.events, 2)
	assert.Equal(t, notification.UserRoom("user-1"), pub.events[0].Room)
	assert.Equal(t, notification.AdminRoom, pub.events[1].Room)
	assert.Equal(t, notification.KindOrderStatusUpdated, pub.events[1].Kind)
}

func TestUserNamedAdminDoesNotReachAdminRoom(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewNotificationService(pub, zap.NewNop())

	svc.NotifyUser(context.Background(), "admin", notification.KindSubscriptionOrderCreated, nil)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "user:admin", pub.events[0].Room)
	assert.NotEqual(t, notification.AdminRoom, pub.events[0].Room)
}

func TestPublishFailureIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("redis down")}
	svc := NewNotificationService(pub, zap.NewNop())

	assert.NotPanics(t, func() {
		svc.NotifyAdmins(context.Background(), notification.KindNewOrder, nil)
	})
	assert.Len(t, pub.events, 1)
}

func TestEventCodecRoundTrip(t *testing.T) {
	event := notification.NewEvent(notification.KindSubscriptionOrderCreated, "user-1", map[string]interface{}{
		"subscriptionId": "sub-1",
		"orderId":        "order-1",
	})

	raw, err := encodeEvent(event)
	require.NoError(t, err)

	decoded, err := decodeEvent(string(raw))
	require.NoError(t, err)
	assert.Equal(t, event.Kind, decoded.Kind)
	assert.Equal(t, "user-1", decoded.Room)
	assert.Equal(t, "order-1", decoded.Payload["orderId"])
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}

func TestDecodeRejectsMalformedEvents(t *testing.T) {
	_, err := decodeEvent("not json")
	assert.Error(t, err)

	_, err = decodeEvent(`{"kind":"newOrder"}`)
	assert.Error(t, err)
}

func TestRelayDispatchForwardsToLocalPublisher(t *testing.T) {
	local := &recordingPublisher{}
	relay := NewRelay(nil, local, zap.NewNop())

	raw, err := encodeEvent(notification.NewEvent(notification.KindNewSubscription, notification.AdminRoom, nil))
	require.NoError(t, err)

	relay.dispatch(context.Background(), string(raw))
	relay.dispatch(context.Background(), "garbage")

	require.Len(t, local.events, 1)
	assert.Equal(t, notification.KindNewSubscription, local.events[0].Kind)
}

func TestHubPublisherQueuesOnHub(t *testing.T) {
	hub := ws.NewHub(jwt.NewVerifier("secret", "grocer"), zap.NewNop())
	pub := NewHubPublisher(hub)

	err := pub.Publish(context.Background(), notification.NewEvent(notification.KindNewOrder, notification.AdminRoom, nil))
	assert.NoError(t, err)
}

func TestLogPublisherNeverFails(t *testing.T) {
	p := NewLogPublisher(zap.NewNop())
	err := p.Publish(context.Background(), notification.NewEvent(notification.KindNewOrder, notification.AdminRoom, nil))
	assert.NoError(t, err)
}
