// internal/domain/notification/entity.go
package notification

import "time"

type Kind string

const (
	KindSubscriptionOrderCreated  Kind = "subscriptionOrderCreated"
	KindNewOrder                  Kind = "newOrder"
	KindNewSubscription           Kind = "newSubscription"
	KindOrderStatusUpdated        Kind = "orderStatusUpdated"
	KindSubscriptionStatusUpdated Kind = "subscriptionStatusUpdated"
)

// AdminRoom is the room every connected admin listens on.
const AdminRoom = "admin"

const userRoomPrefix = "user:"

// UserRoom is the room a user's own sockets listen on.
func UserRoom(userID string) string {
	return userRoomPrefix + userID
}

// Event is an ephemeral notification. It is never stored: if nobody is
// listening on Room when it is published, it is gone.
type Event struct {
	Kind      Kind                   `json:"kind"`
	Room      string                 `json:"room"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

func NewEvent(kind Kind, room string, payload map[string]interface{}) Event {
	return Event{
		Kind:      kind,
		Room:      room,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
