// Package registry defines the realtime membership contracts: rooms are
// implicit namespaces holding the sessions currently connected to them.
// Rooms carry no state of their own and live only as long as they have
// members.
package registry

import "errors"

var (
	ErrSessionClosed = errors.New("session closed")
	ErrNotFound      = errors.New("not found")
)

// Message is one outbound frame for a session's client.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Session is one connected client's outbound half. Send must never
// block: implementations queue with a bounded buffer and shed the
// oldest frame on overflow.
type Session interface {
	ID() string
	Send(msg Message) error
	Close()
}
