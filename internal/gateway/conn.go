package gateway

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	errSendQueueFull = errors.New("send queue full")
	errConnClosed    = errors.New("connection closed")
)

// conn wraps a WebSocket connection with a buffered outbound queue so
// that a slow client never blocks the hub's publish loop.
type conn struct {
	ws   *websocket.Conn
	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

func newConn(ws *websocket.Conn, sendBuf int) *conn {
	return &conn{
		ws:   ws,
		send: make(chan []byte, sendBuf),
		done: make(chan struct{}),
	}
}

// TrySend queues an event frame without blocking. A full queue counts
// as a delivery failure and the hub drops the connection.
func (c *conn) TrySend(data []byte) error {
	select {
	case <-c.done:
		return errConnClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errSendQueueFull
	}
}

// Close tears down the connection. Safe to call more than once: both
// the hub (on delivery failure) and the gateway (on read error) do.
func (c *conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
	return nil
}

// writePump drains the outbound queue onto the socket. Frames queued
// for one connection are written in order; a write error closes the
// connection, which in turn ends the read loop and unregisters it.
func (c *conn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case data := <-c.send:
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				_ = c.Close()
				return
			}
		}
	}
}
