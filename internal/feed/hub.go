// Package feed streams finished turn snapshots to WebSocket subscribers.
// The Hub owns the client registry; all registry mutation happens in its
// Run loop, so handlers and the engine never share map state.
package feed

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"market_go/internal/domain"
	"market_go/internal/infra"
)

// Client represents one subscriber connection.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients and broadcasts snapshots to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub. Run must be started in its own goroutine before
// any client connects.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Broadcast fans a snapshot out to every connected client. Snapshots
// that cannot be delivered because the hub's queue is full are dropped;
// the feed is a live view, not a journal.
func (h *Hub) Broadcast(snap domain.TurnSnapshot) {
	b, err := json.Marshal(snap)
	if err != nil {
		slog.Error("failed to marshal snapshot", slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- b:
	default:
		slog.Warn("feed backlog full, dropping snapshot", slog.Uint64("turn", snap.Turn))
	}
}

// Run is the hub's event loop. It exits when ctx is canceled, closing
// every client connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			infra.GlobalMetrics.IncrementConnections()

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				infra.GlobalMetrics.DecrementConnections()
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// A full send buffer means the client stopped
					// reading. Drop it rather than stall the loop.
					delete(h.clients, client)
					close(client.send)
					infra.GlobalMetrics.DecrementConnections()
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS upgrades an HTTP request to a WebSocket subscription.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 64)}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains incoming frames so pings and close messages are
// handled. Subscribers have nothing to say to the server.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Debug("websocket read error", slog.Any("error", err))
			}
			return
		}
	}
}

// writePump pushes queued snapshots to the connection. It exits when
// the hub closes the send channel.
func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}
