// internal/websocket/handler/rooms.go
package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"grocer-service/internal/domain/notification"
	wstypes "grocer-service/internal/domain/websocket"
	ws "grocer-service/internal/websocket"

	"go.uber.org/zap"
)

// RoomHandler handles room membership requests from sockets.
type RoomHandler struct {
	hub    *ws.Hub
	logger *zap.Logger
}

func NewRoomHandler(hub *ws.Hub, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{hub: hub, logger: logger}
}

// SupportedEvents returns events this handler supports
func (h *RoomHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeJoinUserRoom,
		wstypes.EventTypeJoinAdminRoom,
		wstypes.EventTypeLeaveRoom,
	}
}

// HandleMessage processes room-related messages
func (h *RoomHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	switch msg.Type {
	case wstypes.EventTypeJoinUserRoom:
		room := notification.UserRoom(client.UserID())
		var req wstypes.JoinRequest
		if err := decode(msg.Data, &req); err != nil {
			client.SendError("invalid_request", "Invalid join request", err.Error())
			return nil
		}
		if req.UserID != "" {
			room = notification.UserRoom(req.UserID)
		}
		return h.join(client, room)

	case wstypes.EventTypeJoinAdminRoom:
		return h.join(client, notification.AdminRoom)

	case wstypes.EventTypeLeaveRoom:
		h.hub.Leave(client, msg.Room)
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func (h *RoomHandler) join(client *ws.Client, room string) error {
	if err := h.hub.Join(client, room); err != nil {
		h.logger.Warn("room join refused",
			zap.String("user_id", client.UserID()),
			zap.String("room", room),
		)
		client.SendError("room_forbidden", "Cannot join room", room)
		return nil
	}

	reply := wstypes.NewMessage(wstypes.EventTypeJoined, map[string]interface{}{"room": room})
	reply.Room = room
	client.SendMessage(reply)
	return nil
}

func decode(data interface{}, target interface{}) error {
	if data == nil {
		return nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
