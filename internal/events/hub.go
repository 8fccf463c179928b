package events

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBuffer is how many events may queue for one subscriber before it is
// treated as stalled and dropped.
const sendBuffer = 64

// Subscriber is one open back-office websocket. Its writer goroutine owns
// the connection; the hub only queues events for it.
type Subscriber struct {
	UserID string
	conn   *websocket.Conn
	send   chan Event
}

// Hub keeps the open back-office websocket connections and queues every
// event for each of them. Publishing never waits on a client.
type Hub struct {
	subscribers map[*Subscriber]struct{}
	mutex       sync.Mutex
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscriber]struct{})}
}

func (h *Hub) Register(userID string, conn *websocket.Conn) *Subscriber {
	s := &Subscriber{UserID: userID, conn: conn, send: make(chan Event, sendBuffer)}

	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.subscribers[s] = struct{}{}
	return s
}

// Unregister removes s and closes its queue, which makes its writer close
// the connection. Calling it twice is safe.
func (h *Hub) Unregister(s *Subscriber) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.drop(s)
}

func (h *Hub) drop(s *Subscriber) {
	if _, ok := h.subscribers[s]; ok {
		delete(h.subscribers, s)
		close(s.send)
	}
}

// Publish queues ev for every subscriber. A subscriber whose queue is full
// is dropped.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for s := range h.subscribers {
		select {
		case s.send <- ev:
		default:
			h.drop(s)
		}
	}
	return nil
}

func (h *Hub) Count() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.subscribers)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for s := range h.subscribers {
		h.drop(s)
	}
}
