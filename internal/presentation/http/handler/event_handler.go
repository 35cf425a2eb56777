package handler

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/schoolfees-api/pkg/events"
)

// EventHandler streams change events to browsers as Server-Sent Events.
type EventHandler struct {
	bus       *events.Bus
	keepAlive time.Duration
}

// NewEventHandler creates a new event handler
func NewEventHandler(bus *events.Bus) *EventHandler {
	return &EventHandler{bus: bus, keepAlive: 25 * time.Second}
}

// Stream forwards every published event until the client goes away. A slow
// client drops events rather than blocking publishers.
func (h *EventHandler) Stream(c *gin.Context) {
	ch := make(chan string, 16)
	unsubscribe := h.bus.SubscribeAll(func(name string) {
		select {
		case ch <- name:
		default:
		}
	})
	defer unsubscribe()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case name := <-ch:
			c.SSEvent(name, gin.H{"event": name, "at": time.Now().UTC().Format(time.RFC3339)})
			return true
		case <-ticker.C:
			c.SSEvent("ping", "")
			return true
		}
	})
}
