package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/henningcullin/service-system/internal/events"
)

// ChannelHandler streams change events to authenticated clients as
// server-sent events, so open list views refresh without polling.
type ChannelHandler struct {
	bus events.Subscriber
}

// NewChannelHandler creates a new channel handler.
func NewChannelHandler(bus events.Subscriber) *ChannelHandler {
	return &ChannelHandler{bus: bus}
}

// Tasks streams task change events.
func (h *ChannelHandler) Tasks(c echo.Context) error {
	return h.stream(c, events.TaskChannel)
}

// Reports streams report change events.
func (h *ChannelHandler) Reports(c echo.Context) error {
	return h.stream(c, events.ReportChannel)
}

func (h *ChannelHandler) stream(c echo.Context, channel string) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	// Subscription ends when the client disconnects.
	changes := h.bus.Subscribe(c.Request().Context(), channel)
	for change := range changes {
		payload, err := json.Marshal(change)
		if err != nil {
			continue
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
			return nil
		}
		res.Flush()
	}
	return nil
}
