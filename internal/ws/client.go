package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/jspires/wordduel/internal/model"
	"github.com/jspires/wordduel/internal/services/registry"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period; must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	// Outbound event buffer per connection
	sendBufferSize = 32
)

// Client is one live websocket connection. It may be anonymous (freshly
// connected) or bound to a player identity after a register message.
type Client struct {
	id   model.ConnectionID
	conn *websocket.Conn

	// send is never closed; events arrive from arbitrary goroutines via
	// SendEvent, and done signals the write pump to stop instead
	send chan model.Event
	done chan struct{}

	// identity is set by the dispatch goroutine on register and read only
	// from that same goroutine
	identity model.PlayerID

	closeOnce sync.Once
	logger    *slog.Logger

	connectedAt time.Time
}

// Ensure Client can be registered for event delivery
var _ registry.Sender = (*Client)(nil)

func newClient(id model.ConnectionID, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:          id,
		conn:        conn,
		send:        make(chan model.Event, sendBufferSize),
		done:        make(chan struct{}),
		logger:      logger.With(slog.String("conn", string(id))),
		connectedAt: time.Now(),
	}
}

// ConnectionID returns the connection's opaque id
func (c *Client) ConnectionID() model.ConnectionID {
	return c.id
}

// SendEvent queues an event for delivery. It never blocks; a closed
// connection or a full buffer drops the event and returns false. Safe to call
// from any goroutine at any point in the connection's lifetime.
func (c *Client) SendEvent(event model.Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// close signals shutdown exactly once, ending the write pump. The send
// channel itself is left open so a racing SendEvent can never panic; events
// queued after close are simply never written.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// readPump reads messages from the websocket and hands them to the handler.
// It runs on the connection's serving goroutine; exit tears the client down.
func (c *Client) readPump(h *Handler) {
	defer func() {
		h.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.String("error", err.Error()))
			}
			return
		}
		h.dispatch(c, data)
	}
}

// writePump writes queued events to the websocket and keeps the connection
// alive with pings. One writePump per connection; closing done ends it.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
