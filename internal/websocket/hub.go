// internal/websocket/hub.go
// WebSocket hub manages client connections and broadcasts bracket
// lifecycle events. This is notification, not live scoring: the messages
// it carries are bracket-generated/result-posted/result-undone events, not
// a play-by-play score feed.

package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Hub maintains active websocket connections and broadcasts bracket
// lifecycle messages to clients subscribed to a bracket.
type Hub struct {
	brackets map[int64]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	logger *log.Logger
	mu     sync.RWMutex
}

// Message represents a WebSocket broadcast about a bracket.
type Message struct {
	Type      string      `json:"type"`
	BracketID int64       `json:"bracket_id,omitempty"`
	Data      interface{} `json:"data"`
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		brackets:   make(map[int64]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		logger:     logger,
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, bracketID := range client.brackets {
		if h.brackets[bracketID] == nil {
			h.brackets[bracketID] = make(map[*Client]bool)
		}
		h.brackets[bracketID][client] = true
	}

	h.logger.Printf("websocket client registered (brackets: %v)", client.brackets)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeClient(client)
	client.close()

	h.logger.Println("websocket client unregistered")
}

func (h *Hub) removeClient(client *Client) {
	for _, bracketID := range client.brackets {
		if clients, exists := h.brackets[bracketID]; exists {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.brackets, bracketID)
			}
		}
	}
}

func (h *Hub) broadcastMessage(message *Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Printf("failed to marshal websocket message: %v", err)
		return
	}

	clients, exists := h.brackets[message.BracketID]
	if !exists {
		return
	}
	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.removeClient(client)
			client.close()
		}
	}
}

// BroadcastBracketEvent notifies every client subscribed to a bracket of a
// lifecycle event (the engine sends bracket_generated, match_result_posted
// and match_result_undone).
func (h *Hub) BroadcastBracketEvent(bracketID int64, eventType string, data interface{}) {
	h.broadcast <- &Message{Type: eventType, BracketID: bracketID, Data: data}
}

// SubscribeToBracket subscribes a client to a bracket's lifecycle events.
func (h *Hub) SubscribeToBracket(client *Client, bracketID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client.brackets = append(client.brackets, bracketID)
	if h.brackets[bracketID] == nil {
		h.brackets[bracketID] = make(map[*Client]bool)
	}
	h.brackets[bracketID][client] = true
}

// UnsubscribeFromBracket unsubscribes a client from a bracket.
func (h *Hub) UnsubscribeFromBracket(client *Client, bracketID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, id := range client.brackets {
		if id == bracketID {
			client.brackets = append(client.brackets[:i], client.brackets[i+1:]...)
			break
		}
	}

	if clients, exists := h.brackets[bracketID]; exists {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.brackets, bracketID)
		}
	}
}
