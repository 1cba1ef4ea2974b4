package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"party-game-backend/internal/notify"

	"github.com/gin-gonic/gin"
)

type StreamHandler struct {
	hub *notify.Hub
}

func NewStreamHandler(hub *notify.Hub) *StreamHandler {
	return &StreamHandler{hub: hub}
}

const sseHeartbeatInterval = 25 * time.Second

// Stream godoc
// @Summary      Subscribe to push events over Server-Sent Events
// @Description  Carries the JSON event envelope for the requested topics. Delivery is best-effort; clients should re-fetch REST state on each event.
// @Tags         stream
// @Produce      text/event-stream
// @Param        topics query string true "Comma-separated topic list"
// @Router       /api/v1/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	topics := splitTopics(c.Query("topics"))
	if len(topics) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "topics query parameter required"})
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "streaming unsupported"})
		return
	}

	sub := h.hub.Subscribe(topics...)
	defer sub.Close()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := c.Request.Context()
	heartbeat := time.NewTicker(sseHeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			// Comment line keeps idle connections from being reaped by proxies.
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()
		case msg, open := <-sub.C():
			if !open {
				return
			}
			data, err := json.Marshal(msg.Event)
			if err != nil {
				log.Printf("stream: marshal error: %v", err)
				continue
			}
			fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", msg.Topic, data)
			flusher.Flush()
		}
	}
}

func splitTopics(raw string) []string {
	var topics []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}
	return topics
}
