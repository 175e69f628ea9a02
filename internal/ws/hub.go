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

const (
	TypeProgress = "progress"
	TypeOutcome  = "outcome"
	TypeError    = "error"
)

// Hub fans submission progress out to every page watching a draft.
type Hub struct {
	mu     sync.RWMutex
	drafts map[uint]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		drafts: make(map[uint]map[*websocket.Conn]bool),
	}
}

func (h *Hub) AddConnection(draftID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.drafts[draftID] == nil {
		h.drafts[draftID] = make(map[*websocket.Conn]bool)
	}
	h.drafts[draftID][conn] = true
	log.Printf("ws: client connected to draft %d (total: %d)", draftID, len(h.drafts[draftID]))
}

func (h *Hub) RemoveConnection(draftID uint, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.drafts[draftID]; ok {
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.drafts, draftID)
		}
		log.Printf("ws: client disconnected from draft %d", draftID)
	}
}

func (h *Hub) Broadcast(draftID uint, message WSMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.drafts[draftID]
	if !ok {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("ws: marshal error: %v", err)
		return
	}

	for conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("ws: write error: %v", err)
			conn.Close()
			delete(conns, conn)
		}
	}
}
