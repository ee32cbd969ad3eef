package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeblew999/plat-landval/internal/service"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(Config{
		Host:    "127.0.0.1",
		Port:    "0",
		DataDir: t.TempDir(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

// postSignals posts a Datastar signal body with the session cookie set.
func postSignals(t *testing.T, srv *Server, path, session, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if session != "" {
		req.AddCookie(&http.Cookie{Name: "landval_session", Value: session})
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func listRecords(t *testing.T, srv *Server) []service.ValueRecord {
	t.Helper()
	w := get(t, srv, "/api/v1/records")
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Total int                   `json:"total"`
		Data  []service.ValueRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Equal(t, page.Total, len(page.Data))
	return page.Data
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestServer_RootWithoutWebDir(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "plat-landval")

	assert.Equal(t, http.StatusNotFound, get(t, srv, "/map").Code)
	assert.Equal(t, http.StatusNotFound, get(t, srv, "/nope").Code)
}

func TestServer_CaptureFlow(t *testing.T) {
	srv := newTestServer(t)
	session := "e2e-session"

	// A click opens the form and stamps the capture date.
	w := postSignals(t, srv, "/api/v1/capture/click", session,
		`{"clicklat": -34.6037, "clicklng": -58.3816, "clicktarget": ""}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "datastar-patch-signals")
	assert.Contains(t, body, `"_capturing":true`)
	assert.Contains(t, body, `"clickdate":"`)

	// A half-filled submit is silently ignored and saves nothing.
	w = postSignals(t, srv, "/api/v1/capture/submit", session,
		`{"capsurface": 300}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "record-created")
	assert.Empty(t, listRecords(t, srv))

	// The full form persists the record, closes the modal, and announces
	// the new marker.
	w = postSignals(t, srv, "/api/v1/capture/submit", session,
		`{"capvalue": 120000, "capsurface": 300, "capsource": "Sale",
		  "capsvcwater": true, "capsvcelectricity": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, `"_capturing":false`)
	assert.Contains(t, body, "Value captured")
	assert.Contains(t, body, "record-created")

	records := listRecords(t, srv)
	require.Len(t, records, 1)
	rec := records[0]
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, -34.6037, rec.Latitude)
	assert.Equal(t, -58.3816, rec.Longitude)
	assert.Equal(t, 120000.0, rec.Value)
	assert.Equal(t, "Sale", rec.Source)
	assert.Equal(t, "Water, Electricity", rec.Services)
	assert.Equal(t, 300.0, rec.SurfaceArea)
	assert.Regexp(t, regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), rec.CaptureDate)

	// Submitting fired once; the pending click is gone.
	w = postSignals(t, srv, "/api/v1/capture/submit", session,
		`{"capvalue": 99, "capsurface": 10}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "record-created")
	assert.Len(t, listRecords(t, srv), 1)
}

func TestServer_ControlClickIsIgnored(t *testing.T) {
	srv := newTestServer(t)

	w := postSignals(t, srv, "/api/v1/capture/click", "s1",
		`{"clicklat": -34.60, "clicklng": -58.38, "clicktarget": "ctl-basemap"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "_capturing")
}

func TestServer_CancelDiscardsPending(t *testing.T) {
	srv := newTestServer(t)
	session := "cancel-session"

	postSignals(t, srv, "/api/v1/capture/click", session,
		`{"clicklat": -34.60, "clicklng": -58.38, "clicktarget": ""}`)

	w := postSignals(t, srv, "/api/v1/capture/cancel", session, `{}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"_capturing":false`)

	// The form is complete, but cancel dropped the click to attach it to.
	w = postSignals(t, srv, "/api/v1/capture/submit", session,
		`{"capvalue": 120000, "capsurface": 300}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "record-created")
	assert.Empty(t, listRecords(t, srv))
}

func TestServer_NewClickReplacesPending(t *testing.T) {
	srv := newTestServer(t)
	session := "replace-session"

	postSignals(t, srv, "/api/v1/capture/click", session,
		`{"clicklat": -34.60, "clicklng": -58.38, "clicktarget": ""}`)
	postSignals(t, srv, "/api/v1/capture/click", session,
		`{"clicklat": -34.70, "clicklng": -58.50, "clicktarget": ""}`)

	postSignals(t, srv, "/api/v1/capture/submit", session,
		`{"capvalue": 1, "capsurface": 1}`)

	records := listRecords(t, srv)
	require.Len(t, records, 1)
	assert.Equal(t, -34.70, records[0].Latitude)
	assert.Equal(t, -58.50, records[0].Longitude)
}

func TestServer_InvalidSignalsBody(t *testing.T) {
	srv := newTestServer(t)

	w := postSignals(t, srv, "/api/v1/capture/click", "s1", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_EventsStreamBroadcastsRecords(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/capture/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		srv.ServeHTTP(w, req)
		close(done)
	}()

	// Let the stream subscribe before capturing in a different session.
	time.Sleep(250 * time.Millisecond)

	postSignals(t, srv, "/api/v1/capture/click", "other",
		`{"clicklat": -34.60, "clicklng": -58.38, "clicktarget": ""}`)
	postSignals(t, srv, "/api/v1/capture/submit", "other",
		`{"capvalue": 120000, "capsurface": 300}`)

	// Give the stream time to flush the event before closing it.
	time.Sleep(250 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("events stream did not stop on disconnect")
	}

	assert.Contains(t, w.Body.String(), "record-created")
	assert.Contains(t, w.Body.String(), "$120.000")
}

func TestServer_GeoJSONEndpoint(t *testing.T) {
	srv := newTestServer(t)

	postSignals(t, srv, "/api/v1/capture/click", "s1",
		`{"clicklat": -34.60, "clicklng": -58.38, "clicktarget": ""}`)
	postSignals(t, srv, "/api/v1/capture/submit", "s1",
		`{"capvalue": 120000, "capsurface": 300}`)

	w := get(t, srv, "/api/v1/records/geojson")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/geo+json", w.Result().Header.Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"FeatureCollection"`)
	assert.Contains(t, w.Body.String(), "record-popup")
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "landval_records_created_total")
	assert.Contains(t, w.Body.String(), "landval_capture_clicks_total")
}

func TestServer_OpenAPIIncludesCaptureForm(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv, "/openapi.json")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	// The form schema is registered by hand: it never travels as JSON, but
	// the page builder reads it from the spec.
	assert.Contains(t, body, `"CaptureForm"`)
	assert.Contains(t, body, "/api/v1/capture/click")
	assert.Contains(t, body, "/api/v1/records")
}

func TestServer_Addr(t *testing.T) {
	srv := newTestServer(t)
	assert.Equal(t, "127.0.0.1:0", srv.Addr())
}

func TestServer_MapPage(t *testing.T) {
	srv, err := New(Config{
		Host:    "127.0.0.1",
		Port:    "0",
		DataDir: t.TempDir(),
		WebDir:  "../../web",
	})
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })

	w := get(t, srv, "/map")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Result().Header.Get("Content-Type"), "text/html")

	// First visit mints the capture session cookie.
	var sessionCookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == "landval_session" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.True(t, sessionCookie.HttpOnly)

	body := w.Body.String()

	// Signals and routes come from the OpenAPI spec, not hardcoded HTML.
	assert.Contains(t, body, "data-signals=")
	assert.Contains(t, body, "/api/v1/capture/click")
	assert.Contains(t, body, "/api/v1/capture/submit")
	assert.Contains(t, body, "/api/v1/capture/cancel")
	assert.Contains(t, body, "/api/v1/capture/events")

	// The generated capture form is stitched into the modal.
	assert.Contains(t, body, `id="capture-modal"`)
	assert.Contains(t, body, "data-bind:capvalue")
	assert.Contains(t, body, "data-bind:capsurface")
	assert.Contains(t, body, "data-bind:capsvcwater")

	// Basemap picker and its tile definitions.
	assert.Contains(t, body, `id="basemap-select"`)
	assert.Contains(t, body, "tile.openstreetmap.org")

	// Root redirects to the map when the page exists.
	root := get(t, srv, "/")
	assert.Equal(t, http.StatusFound, root.Code)
	assert.Equal(t, "/map", root.Result().Header.Get("Location"))
}
