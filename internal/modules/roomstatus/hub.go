// Package roomstatus pushes room status changes to websocket clients.
package roomstatus

import (
	"sync"
	"time"

	"hotel/internal/domain"

	"github.com/gorilla/websocket"
)

const (
	TypeRoomStatus   = "room_status"
	TypeSubscribe    = "subscribe"
	TypeUnsubscribe  = "unsubscribe"
	TypeSubscribed   = "subscribed"
	TypeUnsubscribed = "unsubscribed"
	TypePing         = "ping"
	TypePong         = "pong"
	TypeError        = "error"

	sendBuffer = 32
)

// Event is sent to clients whenever a room changes status.
type Event struct {
	Type       string            `json:"type"`
	RoomID     int64             `json:"room_id"`
	HotelID    int64             `json:"hotel_id"`
	RoomNumber string            `json:"room_number"`
	Status     domain.RoomStatus `json:"status"`
	At         time.Time         `json:"at"`
}

// client is one connection. Only its writer goroutine touches conn for writes.
type client struct {
	conn   *websocket.Conn
	send   chan interface{}
	mu     sync.Mutex
	hotels map[int64]struct{}
	closed bool
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:   conn,
		send:   make(chan interface{}, sendBuffer),
		hotels: make(map[int64]struct{}),
	}
}

func (c *client) subscribe(hotelID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hotels[hotelID] = struct{}{}
}

func (c *client) unsubscribe(hotelID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.hotels, hotelID)
}

// wants reports whether the client follows hotelID. No subscription means every hotel.
func (c *client) wants(hotelID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.hotels) == 0 {
		return true
	}
	_, ok := c.hotels[hotelID]
	return ok
}

// push queues v without blocking. It returns false when the buffer is full
// or the client is gone.
func (c *client) push(v interface{}) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- v:
		return true
	default:
		return false
	}
}

func (c *client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
}

// Hub fans room status events out to connected clients. It implements the
// booking service's StatusPublisher.
type Hub struct {
	clients map[*client]struct{}
	mutex   sync.RWMutex
	now     func() time.Time
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		now:     time.Now,
	}
}

func (h *Hub) register(c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mutex.Lock()
	delete(h.clients, c)
	h.mutex.Unlock()
	c.close()
}

// PublishRoomStatus queues the event for every interested client. A client
// whose buffer is full is dropped rather than blocking the caller.
func (h *Hub) PublishRoomStatus(room domain.Room) {
	event := Event{
		Type:       TypeRoomStatus,
		RoomID:     room.ID,
		HotelID:    room.HotelID,
		RoomNumber: room.RoomNumber,
		Status:     room.Status,
		At:         h.now().UTC(),
	}

	var slow []*client
	h.mutex.RLock()
	for c := range h.clients {
		if !c.wants(room.HotelID) {
			continue
		}
		if !c.push(event) {
			slow = append(slow, c)
		}
	}
	h.mutex.RUnlock()

	for _, c := range slow {
		h.unregister(c)
	}
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mutex.Unlock()

	for c := range clients {
		c.close()
	}
}
