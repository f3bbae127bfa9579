// Package wsrouter routes typed json messages read from a websocket
// connection to registered handlers. Messages look like
// {"type": "...", "payload": {...}}.
package wsrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

// ErrorHandlerFunc is called when a handler returns an error or an
// unknown message type arrives. It must not write to the connection.
type ErrorHandlerFunc func(ctx context.Context, messageType string, err error)

type WSRouter struct {
	routes  map[string]HandlerFunc
	onError ErrorHandlerFunc
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

func (r *WSRouter) OnError(handler ErrorHandlerFunc) {
	r.onError = handler
}

// ServeConn reads messages until the connection fails or ctx is
// cancelled. Handler errors do not terminate the loop: the channel is
// fire-and-forget and no error frame is ever written back.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			r.handleError(ctx, msg.Type, ErrUnknownMessageType)
			continue
		}

		if err := handler(ctx, conn, msg.Payload); err != nil {
			r.handleError(ctx, msg.Type, err)
		}
	}
}

func (r *WSRouter) handleError(ctx context.Context, messageType string, err error) {
	if r.onError != nil {
		r.onError(ctx, messageType, err)
	}
}
