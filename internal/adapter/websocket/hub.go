package websocket

import (
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/cartorio-digital/siged/internal/adapter/queue"
	"github.com/cartorio-digital/siged/internal/domain"
)

// Hub pushes order updates to connected browsers. Lifecycle and chat events
// arrive from the message queue and are routed to the order's participants;
// admins receive everything.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Outbound events from the queue.
	events chan domain.OrderEvent

	log *zap.Logger
	mu  sync.RWMutex
}

type Client struct {
	hub *Hub
	// The websocket connection.
	conn *websocket.Conn
	// Buffered channel of outbound messages.
	send chan []byte
	// User identity, set at upgrade time by the auth middleware.
	userID string
	role   domain.UserRole
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan domain.OrderEvent, 64),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// SubscribeOrderEvents wires the hub to the queue's order subjects.
func (h *Hub) SubscribeOrderEvents(mq queue.MessageQueue) error {
	subjects := []string{
		domain.EventOrderCreated,
		domain.EventQuoteReady,
		domain.EventAnalystAssigned,
		domain.EventPaymentConfirmed,
		domain.EventOrderCompleted,
		domain.EventOrderCanceled,
		domain.EventMessageSent,
	}

	for _, subject := range subjects {
		if err := mq.Subscribe(subject, func(data []byte) error {
			var event domain.OrderEvent
			if err := json.Unmarshal(data, &event); err != nil {
				h.log.Error("Failed to decode order event", zap.Error(err))
				return nil
			}
			h.events <- event
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case event := <-h.events:
			h.dispatch(event)
		}
	}
}

// dispatch sends the event to every connection that may see the order.
func (h *Hub) dispatch(event domain.OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if !h.sees(client, event) {
			continue
		}
		select {
		case client.send <- payload:
		default:
			close(client.send)
			delete(h.clients, client)
		}
	}
}

func (h *Hub) sees(client *Client, event domain.OrderEvent) bool {
	if client.role == domain.UserRoleAdmin {
		return true
	}
	if client.userID == event.ClientID {
		return true
	}
	return event.AnalystID != "" && client.userID == event.AnalystID
}

func (h *Hub) AddClient(conn *websocket.Conn, userID string, role domain.UserRole) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 256), userID: userID, role: role}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// The hub only pushes; the read loop keeps the connection alive and
		// processes control messages (ping/pong).
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)

		// Batch queued events into the current websocket frame.
		n := len(c.send)
		for i := 0; i < n; i++ {
			w.Write(<-c.send)
		}

		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
