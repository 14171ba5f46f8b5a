package handlers

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/polyintel-project/backend/internal/services"
)

const streamHeartbeat = 15 * time.Second

type StreamHandler struct {
	Hub *services.SnapshotStreamHub
}

func NewStreamHandler(hub *services.SnapshotStreamHub) *StreamHandler {
	return &StreamHandler{Hub: hub}
}

// StreamRefreshes pushes a refresh notice over SSE every time a new snapshot is published
// GET /api/stream
func (h *StreamHandler) StreamRefreshes(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	requestCtx := c.Context()

	// Subscribe inside the writer: fasthttp skips it when the client is already gone
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ch, unsubscribe := h.Hub.Subscribe()
		defer unsubscribe()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		// Flush headers right away so clients see the stream open
		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}

		requestDone := requestCtx.Done()

		for {
			select {
			case <-requestDone:
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
			case payload, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: refresh\ndata: %s\n\n", payload)
			}
			// A failed flush means the client went away
			if err := w.Flush(); err != nil {
				return
			}
		}
	})

	return nil
}
