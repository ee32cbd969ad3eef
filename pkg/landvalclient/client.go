// Package landvalclient is a typed client for the plat-landval REST API.
//
// The call shape mirrors Huma-generated SDKs: each operation returns the
// *http.Response, the decoded body, and an error.
package landvalclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// PlatLandvalAPIClient calls the plat-landval REST API.
type PlatLandvalAPIClient struct {
	base string
	hc   *http.Client
}

// New creates a client against a base URL, e.g. "http://localhost:8087".
func New(base string) *PlatLandvalAPIClient {
	return &PlatLandvalAPIClient{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Body types mirror the server's JSON responses.

type HealthBody struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type InfoBody struct {
	Name     string   `json:"name"`
	Version  string   `json:"version"`
	DataDir  string   `json:"data_dir"`
	DBPath   string   `json:"db_path"`
	Features []string `json:"features"`
}

type ValueRecord struct {
	ID          string  `json:"id"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Value       float64 `json:"value"`
	CaptureDate string  `json:"captureDate"`
	Source      string  `json:"source,omitempty"`
	Services    string  `json:"services,omitempty"`
	SurfaceArea float64 `json:"surfaceArea"`
}

type RecordsPage struct {
	Total  int           `json:"total"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
	Data   []ValueRecord `json:"data"`
}

type BoundsBody struct {
	MinLongitude float64 `json:"minLongitude"`
	MinLatitude  float64 `json:"minLatitude"`
	MaxLongitude float64 `json:"maxLongitude"`
	MaxLatitude  float64 `json:"maxLatitude"`
	Count        int     `json:"count"`
}

type BasemapProvider struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
	MaxZoom     int    `json:"maxZoom"`
}

func (c *PlatLandvalAPIClient) get(ctx context.Context, path string, out any) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp, fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

// Health checks the service.
func (c *PlatLandvalAPIClient) Health(ctx context.Context) (*http.Response, HealthBody, error) {
	var body HealthBody
	resp, err := c.get(ctx, "/health", &body)
	return resp, body, err
}

// GetInfo returns service metadata.
func (c *PlatLandvalAPIClient) GetInfo(ctx context.Context) (*http.Response, InfoBody, error) {
	var body InfoBody
	resp, err := c.get(ctx, "/api/v1/info", &body)
	return resp, body, err
}

// ListRecords returns one page of captured records.
func (c *PlatLandvalAPIClient) ListRecords(ctx context.Context, offset, limit int) (*http.Response, RecordsPage, error) {
	var body RecordsPage
	resp, err := c.get(ctx, fmt.Sprintf("/api/v1/records?offset=%d&limit=%d", offset, limit), &body)
	return resp, body, err
}

// GetRecord fetches one record by id.
func (c *PlatLandvalAPIClient) GetRecord(ctx context.Context, id string) (*http.Response, ValueRecord, error) {
	var body ValueRecord
	resp, err := c.get(ctx, "/api/v1/records/"+url.PathEscape(id), &body)
	return resp, body, err
}

// GetBounds returns the bounding box of all captured records.
func (c *PlatLandvalAPIClient) GetBounds(ctx context.Context) (*http.Response, BoundsBody, error) {
	var body BoundsBody
	resp, err := c.get(ctx, "/api/v1/records/bounds", &body)
	return resp, body, err
}

// GetRecordsGeoJSON returns the records FeatureCollection as raw bytes.
func (c *PlatLandvalAPIClient) GetRecordsGeoJSON(ctx context.Context) (*http.Response, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/v1/records/geojson", nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return resp, nil, fmt.Errorf("GET /api/v1/records/geojson: %s", resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	return resp, data, err
}

// ListBasemaps returns the configured basemap providers.
func (c *PlatLandvalAPIClient) ListBasemaps(ctx context.Context) (*http.Response, []BasemapProvider, error) {
	var body []BasemapProvider
	resp, err := c.get(ctx, "/api/v1/basemaps", &body)
	return resp, body, err
}
