// Package api defines the Huma API routes and handlers.
package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/joeblew999/plat-landval/internal/humastar"
	"github.com/joeblew999/plat-landval/internal/service"
)

// Version is reported by the health and info endpoints.
const Version = "0.1.0"

// Services holds the service dependencies for API handlers.
type Services struct {
	Records  *service.RecordService
	Basemaps *service.BasemapService
}

// Types

type IDInput struct {
	ID string `path:"id" doc:"Record ID" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
}

type ListInput struct {
	Offset int `query:"offset" minimum:"0" default:"0" doc:"Number of records to skip"`
	Limit  int `query:"limit" minimum:"1" maximum:"1000" default:"500" doc:"Page size"`
}

// RecordsPage is the paginated records envelope. It advertises the capture
// entry point as a hypermedia action: records are created through the map
// capture flow, never by POSTing here.
type RecordsPage struct {
	humastar.PageBody[service.ValueRecord]
}

var recordActions = []humastar.ActionDef{
	{Rel: "capture", Pattern: "/api/v1/capture/click", Method: "POST", Title: "Capture a new value"},
}

func (p RecordsPage) Actions() []humastar.Action {
	return humastar.ActionsFor("", recordActions)
}

type RecordsOutput struct {
	Body RecordsPage
}

type RecordOutput struct {
	Body service.ValueRecord
}

// GeoJSONOutput carries a pre-marshaled FeatureCollection.
type GeoJSONOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type BoundsBody struct {
	MinLongitude float64 `json:"minLongitude" doc:"West edge"`
	MinLatitude  float64 `json:"minLatitude" doc:"South edge"`
	MaxLongitude float64 `json:"maxLongitude" doc:"East edge"`
	MaxLatitude  float64 `json:"maxLatitude" doc:"North edge"`
	Count        int     `json:"count" doc:"Number of records inside the bound"`
}

type BasemapsOutput struct {
	Body []service.BasemapProvider
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"0.1.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterRecords registers record read routes. Records have no update or
// delete: the table is append-only.
func (h *APIHandler) RegisterRecords(api huma.API) {
	huma.Get(api, "/api/v1/records", h.GetRecords, huma.OperationTags("records"))
	huma.Get(api, "/api/v1/records/geojson", h.GetRecordsGeoJSON, huma.OperationTags("records"))
	huma.Get(api, "/api/v1/records/bounds", h.GetRecordsBounds, huma.OperationTags("records"))
	huma.Get(api, "/api/v1/records/{id}", h.GetRecord, huma.OperationTags("records"))
}

// RegisterBasemaps registers basemap listing routes.
func (h *APIHandler) RegisterBasemaps(api huma.API) {
	huma.Get(api, "/api/v1/basemaps", h.GetBasemaps, huma.OperationTags("basemaps"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: Version}}, nil
}

func (h *APIHandler) GetRecords(ctx context.Context, input *ListInput) (*RecordsOutput, error) {
	if h.svc == nil || h.svc.Records == nil {
		return nil, huma.Error503ServiceUnavailable("record service not available")
	}
	records, err := h.svc.Records.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load records", err)
	}

	total := len(records)
	start := min(input.Offset, total)
	end := min(start+input.Limit, total)

	return &RecordsOutput{Body: RecordsPage{
		PageBody: humastar.PageBody[service.ValueRecord]{
			Total:  total,
			Offset: input.Offset,
			Limit:  input.Limit,
			Data:   records[start:end],
		},
	}}, nil
}

func (h *APIHandler) GetRecord(ctx context.Context, input *IDInput) (*RecordOutput, error) {
	if h.svc == nil || h.svc.Records == nil {
		return nil, huma.Error503ServiceUnavailable("record service not available")
	}
	records, err := h.svc.Records.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load records", err)
	}
	for _, rec := range records {
		if rec.ID == input.ID {
			return &RecordOutput{Body: rec}, nil
		}
	}
	return nil, huma.Error404NotFound("record not found")
}

func (h *APIHandler) GetRecordsGeoJSON(ctx context.Context, input *struct{}) (*GeoJSONOutput, error) {
	if h.svc == nil || h.svc.Records == nil {
		return nil, huma.Error503ServiceUnavailable("record service not available")
	}
	fc, err := h.svc.Records.FeatureCollection(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load records", err)
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to encode records", err)
	}
	return &GeoJSONOutput{ContentType: "application/geo+json", Body: data}, nil
}

func (h *APIHandler) GetRecordsBounds(ctx context.Context, input *struct{}) (*struct{ Body BoundsBody }, error) {
	if h.svc == nil || h.svc.Records == nil {
		return nil, huma.Error503ServiceUnavailable("record service not available")
	}
	bound, count, err := h.svc.Records.Bounds(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to load records", err)
	}
	return &struct{ Body BoundsBody }{Body: BoundsBody{
		MinLongitude: bound.Min[0],
		MinLatitude:  bound.Min[1],
		MaxLongitude: bound.Max[0],
		MaxLatitude:  bound.Max[1],
		Count:        count,
	}}, nil
}

func (h *APIHandler) GetBasemaps(ctx context.Context, input *struct{}) (*BasemapsOutput, error) {
	if h.svc == nil || h.svc.Basemaps == nil {
		return nil, huma.Error503ServiceUnavailable("basemap service not available")
	}
	return &BasemapsOutput{Body: h.svc.Basemaps.List()}, nil
}
