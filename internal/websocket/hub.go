// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	wstypes "grocer-service/internal/domain/websocket"
	"grocer-service/internal/pkg/jwt"

	"go.uber.org/zap"
)

type Hub struct {
	// Connected clients and room membership
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	jwtVerifier *jwt.Verifier
	logger      *zap.Logger
}

type BroadcastMessage struct {
	Room    string
	Message *wstypes.WSMessage
}

func NewHub(jwtVerifier *jwt.Verifier, logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[*Client]bool),
		rooms:           make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		jwtVerifier:     jwtVerifier,
		logger:          logger,
	}
}

// AuthenticateClient validates the JWT token and returns the client identity
func (h *Hub) AuthenticateClient(token string) (*ClientAuth, error) {
	claims, err := h.jwtVerifier.Verify(token)
	if err != nil {
		return nil, err
	}

	return &ClientAuth{
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// HandleClientMessage dispatches msg to a registered handler. It reports
// whether a handler took the message.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (bool, error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastToRoom(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("user_id", client.UserID()),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"user_id": client.UserID(),
		"role":    client.auth.Role,
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for _, room := range client.Rooms() {
		h.leaveLocked(client, room)
	}
	client.Close()

	h.logger.Info("websocket client disconnected",
		zap.String("user_id", client.UserID()),
		zap.Int("total", len(h.clients)),
	)
}

// Join adds client to room if the client is allowed to listen there.
func (h *Hub) Join(client *Client, room string) error {
	if !client.CanJoin(room) {
		return ErrRoomForbidden
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.addRoom(room)
	return nil
}

// Leave removes client from room
func (h *Hub) Leave(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(client, room)
}

func (h *Hub) leaveLocked(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	client.removeRoom(room)
}

// Broadcast queues msg for every client in room. It never blocks: when the
// queue is full the message is dropped.
func (h *Hub) Broadcast(room string, msg *wstypes.WSMessage) bool {
	msg.Room = room
	select {
	case h.broadcast <- &BroadcastMessage{Room: room, Message: msg}:
		return true
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message",
			zap.String("room", room),
			zap.String("type", string(msg.Type)),
		)
		return false
	}
}

// BroadcastToRoom delivers msg to the current members of its room
func (h *Hub) BroadcastToRoom(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[msg.Room] {
		client.SendMessage(msg.Message)
	}
}

// RoomSize returns how many clients listen on room
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
	h.rooms = make(map[string]map[*Client]bool)
}
