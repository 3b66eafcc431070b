package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSRoom is a Room backed by a single websocket connection. The read
// loop is the only reader; writes are serialized by a mutex.
type WSRoom struct {
	name   string
	sender string
	conn   *websocket.Conn

	writeMu sync.Mutex

	handlerMu sync.RWMutex
	handler   DataHandler

	closeOnce sync.Once
	closed    chan struct{}
}

// NewWSRoom wraps an already upgraded websocket connection. An empty
// name gets a generated UUID; an empty sender defaults to "frontend".
func NewWSRoom(conn *websocket.Conn, name, sender string) *WSRoom {
	if name == "" {
		name = uuid.NewString()
	}
	if sender == "" {
		sender = "frontend"
	}

	return &WSRoom{
		name:   name,
		sender: sender,
		conn:   conn,
		closed: make(chan struct{}),
	}
}

// Name returns the room identifier
func (r *WSRoom) Name() string {
	return r.name
}

// OnData registers the handler for inbound messages.
func (r *WSRoom) OnData(handler DataHandler) {
	r.handlerMu.Lock()
	defer r.handlerMu.Unlock()
	r.handler = handler
}

// ReadLoop reads inbound frames until the connection drops or ctx is
// cancelled, invoking the registered handler inline for each text or
// binary frame. It blocks; run it from the connection's serving
// goroutine.
func (r *WSRoom) ReadLoop(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			_ = r.Close()
		case <-r.closed:
		}
	}()

	for {
		msgType, data, err := r.conn.ReadMessage()
		if err != nil {
			_ = r.Close()
			if ctx.Err() != nil || isExpectedClose(err) {
				log.Debug().Str("room", r.name).Msg("Room read loop ended")
				return nil
			}
			return fmt.Errorf("room %s read failed: %w", r.name, err)
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}

		r.handlerMu.RLock()
		handler := r.handler
		r.handlerMu.RUnlock()
		if handler == nil {
			log.Debug().Str("room", r.name).Msg("Dropping message without handler")
			continue
		}
		handler(ctx, DataMessage{Payload: data, Sender: r.sender})
	}
}

// Publish sends a payload to the frontend as one text frame.
func (r *WSRoom) Publish(ctx context.Context, payload []byte) error {
	select {
	case <-r.closed:
		return ErrRoomClosed
	default:
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = r.conn.SetWriteDeadline(deadline)
		defer func() { _ = r.conn.SetWriteDeadline(time.Time{}) }()
	}

	if err := r.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("room %s write failed: %w", r.name, err)
	}
	return nil
}

// Close tears the room down. Safe to call more than once.
func (r *WSRoom) Close() error {
	r.closeOnce.Do(func() {
		close(r.closed)

		r.writeMu.Lock()
		_ = r.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		r.writeMu.Unlock()

		_ = r.conn.Close()
		log.Debug().Str("room", r.name).Msg("Room closed")
	})
	return nil
}

func isExpectedClose(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived)
}
