// Package transport carries raw data messages between a connected
// frontend and the session that serves it.
package transport

import (
	"context"
	"errors"
)

// ErrRoomClosed is returned when publishing into a room that has been
// torn down.
var ErrRoomClosed = errors.New("room is closed")

// DataMessage is one payload received from a room participant.
type DataMessage struct {
	Payload []byte
	Sender  string
	Topic   string
}

// DataHandler consumes inbound data messages. Handlers are invoked
// serially, in arrival order.
type DataHandler func(ctx context.Context, msg DataMessage)

// Room is a bidirectional data channel with one frontend.
type Room interface {
	// Name returns the room identifier
	Name() string

	// OnData registers the handler for inbound messages. Register it
	// before the read loop starts; messages without a handler are
	// dropped.
	OnData(handler DataHandler)

	// Publish sends a payload to the frontend
	Publish(ctx context.Context, payload []byte) error

	// Close tears the room down. Safe to call more than once.
	Close() error
}
