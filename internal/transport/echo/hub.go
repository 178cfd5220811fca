package echo

import (
	"log"
	"sync"
	"time"

	"golang.org/x/net/websocket"

	"wrfcloud/internal/domain/job"
)

const pushWriteTimeout = 10 * time.Second

// Hub tracks the WebSocket connections registered by SubscribeJobs and
// pushes job updates to them.
//
// The registry lock is never held across a network write, so a stalled
// client cannot block Subscribe or Remove. Pushes are serialized by a
// separate mutex and each write carries a deadline; a send that fails
// or times out drops that subscriber.
type Hub struct {
	mu    sync.RWMutex
	conns map[*websocket.Conn]string

	sendMu       sync.Mutex
	writeTimeout time.Duration
}

func NewHub() *Hub {
	return &Hub{
		conns:        make(map[*websocket.Conn]string),
		writeTimeout: pushWriteTimeout,
	}
}

// Subscribe registers a connection for job-status pushes.
func (h *Hub) Subscribe(ws *websocket.Conn, email string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[ws] = email
}

// Remove drops a connection; called when the socket closes.
func (h *Hub) Remove(ws *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, ws)
}

// JobUpdated pushes one job record to every subscriber. A failed or
// timed-out send drops that subscriber; the client reconnects and
// resubscribes.
func (h *Hub) JobUpdated(j *job.WrfJob) {
	payload := map[string]any{
		"ok":   true,
		"data": map[string]any{"job": j},
	}

	h.mu.RLock()
	conns := make(map[*websocket.Conn]string, len(h.conns))
	for ws, email := range h.conns {
		conns[ws] = email
	}
	h.mu.RUnlock()

	h.sendMu.Lock()
	defer h.sendMu.Unlock()
	for ws, email := range conns {
		if err := ws.SetWriteDeadline(time.Now().Add(h.writeTimeout)); err != nil {
			h.drop(ws, email, err)
			continue
		}
		if err := websocket.JSON.Send(ws, payload); err != nil {
			h.drop(ws, email, err)
		}
	}
}

func (h *Hub) drop(ws *websocket.Conn, email string, err error) {
	log.Printf("ws: push to %s failed, dropping subscriber: %v", email, err)
	h.Remove(ws)
	ws.Close()
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
