package server

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	"docuchat/internal/rag/schema"
)

// sseHeaders prepares the response for a server-sent-events stream.
func sseHeaders(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(200)
}

// writeEvent frames one event as `data: <JSON>\n\n` and flushes it so the
// client sees updates as they happen, not when the stream ends.
func writeEvent(c *gin.Context, ev *schema.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", payload); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}
