package realtime

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// FetchFunc produces the current snapshot sent to subscribers.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Hub fans out live-feed updates to websocket subscribers. Every change
// delivers a full replacement snapshot, not a diff; clients simply replace
// their local list on each message.
type Hub struct {
	mu      sync.Mutex
	clients map[chan struct{}]bool
	fetch   FetchFunc
}

func NewHub(fetch FetchFunc) *Hub {
	return &Hub{
		clients: make(map[chan struct{}]bool),
		fetch:   fetch,
	}
}

// Notify wakes every subscriber to push a fresh snapshot. Non-blocking:
// a subscriber that already has a pending wakeup is not queued again.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.clients[ch] = true
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(ch chan struct{}) {
	h.mu.Lock()
	delete(h.clients, ch)
	h.mu.Unlock()
}

// Serve pushes an initial snapshot and then one snapshot per notification
// until the connection drops.
func (h *Hub) Serve(conn *websocket.Conn) {
	ch := h.subscribe()
	defer func() {
		h.unsubscribe(ch)
		conn.Close()
	}()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.push(conn); err != nil {
		return
	}

	for {
		select {
		case <-done:
			return
		case <-ch:
			if err := h.push(conn); err != nil {
				return
			}
		}
	}
}

func (h *Hub) push(conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	snapshot, err := h.fetch(ctx)
	if err != nil {
		log.Println("Failed to fetch live feed snapshot:", err)
		return err
	}
	return conn.WriteJSON(snapshot)
}
