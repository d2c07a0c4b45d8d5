// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidToken  = errors.New("invalid token")
	ErrRoomForbidden = errors.New("not allowed to join room")
)
