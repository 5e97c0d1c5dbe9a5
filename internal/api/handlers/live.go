package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/niveshlabs/estate-advisor/pkg/logger"
)

const writeTimeout = 5 * time.Second

// SnapshotEvent is pushed to live subscribers whenever the market
// snapshot is rebuilt.
type SnapshotEvent struct {
	Type               string    `json:"type"`
	Records            int       `json:"records"`
	MedianPricePerSqFt float64   `json:"median_price_per_sqft"`
	BuiltAt            time.Time `json:"built_at"`
}

// Hub tracks live websocket subscribers and fans snapshot events out
// to them. Connections that fail a write are dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
	logger  *logger.Logger
}

// NewHub creates an empty subscriber hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  log,
	}
}

// Broadcast sends the event to every connected subscriber.
func (h *Hub) Broadcast(event SnapshotEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.WithError(err).Error("Failed to marshal snapshot event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.WithError(err).Debug("Dropping live subscriber")
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// LiveHandler upgrades HTTP requests to websocket subscriptions.
type LiveHandler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewLiveHandler creates the live updates handler.
func NewLiveHandler(hub *Hub, log *logger.Logger) *LiveHandler {
	return &LiveHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: log,
	}
}

// Serve subscribes the caller to snapshot refresh events.
// GET /api/live
func (h *LiveHandler) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	h.hub.add(conn)
	h.logger.WithField("remote", conn.RemoteAddr().String()).Debug("Live subscriber connected")

	// Subscribers are write-only; the read loop only detects closure.
	go func() {
		defer func() {
			h.hub.remove(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.logger.WithError(err).Debug("Live subscriber read error")
				}
				return
			}
		}
	}()
}
