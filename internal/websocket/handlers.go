// internal/websocket/handlers.go
// WebSocket connection handlers

package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleConnection handles new WebSocket connections.
func HandleConnection(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("failed to upgrade websocket connection: %v", err)
			return
		}

		client := &Client{
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, 256),
			brackets: make([]int64, 0),
		}

		hub.register <- client

		welcome := Message{Type: "welcome", Data: map[string]string{"message": "connected to bracket event stream"}}
		if data, err := json.Marshal(welcome); err == nil {
			client.send <- data
		}

		go client.writePump()
		go client.readPump()
	}
}

// Message types for bracket lifecycle broadcasts.
const (
	MessageBracketGenerated    = "bracket_generated"
	MessageRoundActivated      = "round_activated"
	MessageRoundCompleted      = "round_completed"
	MessageMatchReady          = "match_ready"
	MessageMatchResultPosted   = "match_result_posted"
	MessageMatchResultUndone   = "match_result_undone"
	MessageBracketFinalized    = "bracket_finalized"
)
