package handlers

import (
	"log"
	"net/http"

	"party-game-backend/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *notify.Hub
}

func NewWSHandler(hub *notify.Hub) *WSHandler {
	return &WSHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      Subscribe to push events over WebSocket
// @Description  Alternative transport for the same topics and envelope as the SSE stream; messages are {topic, event} frames.
// @Tags         stream
// @Param        topics query string true "Comma-separated topic list"
// @Router       /ws [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	topics := splitTopics(c.Query("topics"))
	if len(topics) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topics query parameter required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	sub := h.hub.Subscribe(topics...)

	go func() {
		defer conn.Close()
		for msg := range sub.C() {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws: write error: %v", err)
				return
			}
		}
	}()

	// The read loop only watches for the client going away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	sub.Close()
	conn.Close()
}
