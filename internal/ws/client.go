package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"kol_arena/internal/logger"
	"kol_arena/internal/metrics"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 256
)

// Client is one authenticated connection. A wallet may hold several
// connections at once; each carries its own subscription set.
type Client struct {
	Wallet string
	Conn   *websocket.Conn
	Send   chan []byte

	hub  *Hub
	done chan struct{}

	subMu sync.Mutex
	subs  map[string]int64 // room id -> registry token
}

func newClient(wallet string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		Wallet: wallet,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
		hub:    hub,
		done:   make(chan struct{}),
		subs:   make(map[string]int64),
	}
}

// Run drives both pumps and blocks until the connection drops.
func (c *Client) Run() {
	metrics.WSConnections.Inc()
	defer metrics.WSConnections.Dec()

	go c.writePump()
	c.readPump()
	<-c.done
}

func (c *Client) readPump() {
	defer func() {
		c.hub.remove(c)
		close(c.done)
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "wallet", c.Wallet, "error", err)
			}
			return
		}
		c.hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "wallet", c.Wallet, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// enqueue drops the frame if the client cannot keep up. Delivery is
// best-effort: a slow client re-syncs through a snapshot, never by
// back-pressuring the publisher.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.Send <- msg:
	default:
		logger.Warn("ws send buffer full, dropping frame", "wallet", c.Wallet)
	}
}

func (c *Client) rememberSub(roomID string, token int64) (prev int64, had bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	prev, had = c.subs[roomID]
	c.subs[roomID] = token
	return prev, had
}

func (c *Client) forgetSub(roomID string) (int64, bool) {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	token, ok := c.subs[roomID]
	delete(c.subs, roomID)
	return token, ok
}

func (c *Client) drainSubs() map[string]int64 {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	out := c.subs
	c.subs = make(map[string]int64)
	return out
}
