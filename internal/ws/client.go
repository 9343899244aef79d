package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// keepalive interval; also what keeps idle connections alive through
	// intermediary proxies
	pingPeriod = 25 * time.Second

	sendBuffer = 64
)

// Client is one long-lived subscriber connection on a stream channel.
type Client struct {
	StreamID int64
	Conn     *websocket.Conn
	Send     chan []byte

	hub       *Hub
	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(streamID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		StreamID: streamID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		hub:      hub,
		done:     make(chan struct{}),
	}
}

// Run registers the client, pushes the connected event and pumps until the
// peer goes away. Blocks; callers start it in its own goroutine.
func (c *Client) Run() {
	c.hub.Subscribe(c.StreamID, c)
	go c.writePump()

	c.greet()

	c.readPump()
}

// greet enqueues the connected handshake on this connection only; it is
// not an event the rest of the channel sees.
func (c *Client) greet() {
	raw, err := json.Marshal(Envelope{Type: EventConnected, Data: ConnectedPayload{StreamID: c.StreamID}})
	if err != nil {
		log.Printf("Client.greet: marshal: %v", err)
		return
	}
	select {
	case c.Send <- raw:
	default:
	}
}

// Close tears the connection down once; safe from any goroutine.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.Conn != nil {
			_ = c.Conn.Close()
		}
	})
}

// readPump discards inbound frames; subscribers are receive-only. Its job
// is noticing the close/error/timeout that ends the subscription.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unsubscribe(c.StreamID, c)
		c.Close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("Client.writePump: stream=%d write error: %v", c.StreamID, err)
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
