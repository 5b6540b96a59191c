package websockets

import (
	"encoding/json"
	"log"
)

// Order event types pushed to connected dashboards.
const (
	EventOrderNew        = "order.new"
	EventOrderStatus     = "order.status"
	EventOrderLineStatus = "order.item_status"
)

// OrderEvent is the wire format for order lifecycle notifications
type OrderEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

// Hub maintains the set of connected clients and broadcasts order
// events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister/broadcast events. Call it in its
// own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// BroadcastOrderEvent pushes an order lifecycle event to every
// connected client. Failures never affect the request that caused the
// event.
func (h *Hub) BroadcastOrderEvent(eventType, orderID, status string) {
	message, err := json.Marshal(OrderEvent{
		Type:    eventType,
		OrderID: orderID,
		Status:  status,
	})
	if err != nil {
		log.Printf("Failed to encode order event: %v", err)
		return
	}

	select {
	case h.broadcast <- message:
	default:
		log.Printf("Order event dropped: broadcast buffer full")
	}
}
