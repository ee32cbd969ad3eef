package capture

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-landval/internal/humastar"
	"github.com/joeblew999/plat-landval/internal/service"
)

// BasemapHandler streams the basemap picker options.
type BasemapHandler struct {
	humastar.Handler
	basemaps *service.BasemapService
}

func NewBasemapHandler(basemaps *service.BasemapService, renderer *humastar.Renderer) *BasemapHandler {
	return &BasemapHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		basemaps: basemaps,
	}
}

func (h *BasemapHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/capture/basemaps", h.Options, huma.OperationTags("capture"))
}

// Options streams the basemap <option> list into the picker. The picker
// always has a concrete selection, so there is no placeholder option.
func (h *BasemapHandler) Options(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		providers := h.basemaps.List()
		opts := make([]humastar.SelectOptionData, 0, len(providers))
		for _, p := range providers {
			opts = append(opts, humastar.SelectOptionData{Value: p.Key, Label: p.Label})
		}
		sse.Patch(h.RenderSelect("", opts), "#basemap-select")
	}), nil
}
