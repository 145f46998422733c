package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub fans live-progress events out to admin dashboards watching an
// assignment.
type Hub struct {
	mu          sync.RWMutex
	assignments map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		assignments: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(assignmentID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.assignments[assignmentID] == nil {
		h.assignments[assignmentID] = make(map[*websocket.Conn]bool)
	}
	h.assignments[assignmentID][conn] = true
	log.Printf("ws: client watching assignment %d (total: %d)", assignmentID, len(h.assignments[assignmentID]))
}

func (h *Hub) RemoveConnection(assignmentID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.assignments[assignmentID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.assignments, assignmentID)
		}
		log.Printf("ws: client stopped watching assignment %d", assignmentID)
	}
}

// Broadcast sends the message to every dashboard watching the assignment.
// It holds the write lock for the whole fan-out: concurrent submissions
// broadcast concurrently, and the lock both guards the map pruning on dead
// connections and keeps each connection to a single writer at a time.
func (h *Hub) Broadcast(assignmentID uint, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.assignments[assignmentID]
	if !ok {
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.assignments, assignmentID)
	}
}
