package capture

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-landval/internal/humastar"
	"github.com/joeblew999/plat-landval/internal/service"
)

// EventHandler streams record changes to every open map via SSE.
type EventHandler struct {
	bus *service.EventBus
}

func NewEventHandler(bus *service.EventBus) *EventHandler {
	return &EventHandler{bus: bus}
}

func (h *EventHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/capture/events", h.Events,
		huma.OperationTags("capture"),
	)
}

// Events streams record-created events until the client disconnects.
// Every connected map hears about every new record, whichever session
// captured it. The submitting session also receives its own record through
// this stream; the map script dedups markers by record id.
func (h *EventHandler) Events(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return &huma.StreamResponse{
		Body: func(humaCtx huma.Context) {
			sse := humastar.NewSSE(humaCtx)
			ch := h.bus.Subscribe()
			defer h.bus.Unsubscribe(ch)

			for {
				select {
				case <-ctx.Done():
					return
				case ev, ok := <-ch:
					if !ok {
						return
					}
					if ev.Resource != "records" || ev.Action != "created" {
						continue
					}
					sse.DispatchCustomEvent("record-created", map[string]any{
						"id":        ev.Record.ID,
						"latitude":  ev.Record.Latitude,
						"longitude": ev.Record.Longitude,
						"popup":     service.FormatPopup(ev.Record),
					})
				}
			}
		},
	}, nil
}
