// Package server assembles the landval HTTP server: the Huma JSON API, the
// Datastar SSE capture handlers, the map page, and static assets.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"reflect"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/joeblew999/plat-landval/internal/api"
	"github.com/joeblew999/plat-landval/internal/api/capture"
	"github.com/joeblew999/plat-landval/internal/humastar"
	"github.com/joeblew999/plat-landval/internal/service"
	"github.com/joeblew999/plat-landval/internal/session"
	"github.com/joeblew999/plat-landval/internal/store"
	"github.com/joeblew999/plat-landval/internal/templates"
)

// Config holds the server configuration.
type Config struct {
	Host    string
	Port    string
	DataDir string
	WebDir  string // Path to web/ directory for static files and templates
	Dev     bool   // Watch templates and reload on change
}

// captureFormCfg binds the CaptureForm schema to its Datastar metadata:
// signal prefix, form template name, and the route prefixes the map page
// needs to discover.
var captureFormCfg = humastar.DatastarSchemaConfig{
	Type:          reflect.TypeOf(service.CaptureForm{}),
	Prefix:        capture.SignalPrefix,
	FormTmpl:      "capture-form",
	RoutePrefixes: []string{"/api/v1/capture", "/api/v1/records"},
}

// Server is the landval HTTP server.
type Server struct {
	config    Config
	mux       *http.ServeMux
	humaAPI   huma.API
	store     *store.Store
	services  *api.Services
	flow      *service.CaptureFlow
	bus       *service.EventBus
	sessions  *session.Registry
	renderer  *templates.Renderer
	stopWatch context.CancelFunc
}

// New creates a landval server and ensures the record table exists.
// With an empty WebDir the server runs API-only: no map page, no static
// files, no template-rendering SSE routes.
func New(cfg Config) (*Server, error) {
	mux := http.NewServeMux()

	// Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("plat-landval API", api.Version)
	humaConfig.Info.Description = "Land value capture API: click the map, fill the form, keep the record."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, humastar.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	st, err := store.New(store.Config{DataDir: cfg.DataDir})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if err := st.Initialize(context.Background()); err != nil {
		return nil, fmt.Errorf("initialize store: %w", err)
	}

	bus := service.NewEventBus()
	records := service.NewRecordService(st, bus)
	services := &api.Services{
		Records:  records,
		Basemaps: service.NewBasemapService(),
	}

	// Template renderer for the map page and SSE fragments
	var renderer *templates.Renderer
	if cfg.WebDir != "" {
		fragmentsDir := filepath.Join(cfg.WebDir, "templates", "fragments")
		r, err := templates.New(fragmentsDir)
		if err != nil {
			return nil, fmt.Errorf("load templates: %w", err)
		}
		if err := r.ParseFile(filepath.Join(cfg.WebDir, "templates", "map.html")); err != nil {
			return nil, fmt.Errorf("load map page: %w", err)
		}
		renderer = r
		slog.Info("loaded templates", "dir", fragmentsDir)
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		store:    st,
		services: services,
		flow:     service.NewCaptureFlow(records),
		bus:      bus,
		sessions: session.NewRegistry(),
		renderer: renderer,
	}

	s.routes()

	// CaptureForm never travels as a JSON request body (it arrives as
	// Datastar signals), so Huma never registers its schema. Register it by
	// hand so the form renderer and page data builder can read it from the
	// spec.
	humaAPI.OpenAPI().Components.Schemas.Schema(reflect.TypeOf(service.CaptureForm{}), true, "CaptureForm")
	humastar.InjectExtensions(humaAPI, []humastar.DatastarSchemaConfig{captureFormCfg})
	if s.renderer != nil {
		humastar.RegisterFormTemplates(humaAPI, s.renderer)
	}
	humastar.AutoLinks(humaAPI)

	if cfg.Dev && s.renderer != nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.stopWatch = cancel
		dirs := []string{
			filepath.Join(cfg.WebDir, "templates"),
			filepath.Join(cfg.WebDir, "templates", "fragments"),
		}
		go func() {
			if err := templates.Watch(ctx, dirs, s.reloadTemplates); err != nil {
				slog.Warn("template watcher stopped", "error", err)
			}
		}()
	}

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Addr returns the host:port the server is configured for.
func (s *Server) Addr() string {
	return s.config.Host + ":" + s.config.Port
}

// OpenAPI returns the generated spec.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Services exposes the service layer, mainly for the export subcommand.
func (s *Server) Services() *api.Services {
	return s.services
}

// Close stops background workers.
func (s *Server) Close() error {
	if s.stopWatch != nil {
		s.stopWatch()
	}
	return nil
}

func (s *Server) routes() {
	// REST API routes (OpenAPI-documented JSON endpoints)
	huma.AutoRegister(s.humaAPI, api.NewAPIHandler(s.services))

	info := api.NewInfoHandler(s.config.DataDir, s.store.Path())
	info.RegisterRoutes(s.humaAPI)

	// Capture SSE routes using Huma + Datastar SDK
	captureHandler := capture.NewCaptureHandler(s.flow, s.sessions, s.renderer)
	captureHandler.RegisterRoutes(s.humaAPI)

	eventHandler := capture.NewEventHandler(s.bus)
	eventHandler.RegisterRoutes(s.humaAPI)

	if s.renderer != nil {
		basemapHandler := capture.NewBasemapHandler(s.services.Basemaps, s.renderer)
		basemapHandler.RegisterRoutes(s.humaAPI)
	}

	// Prometheus metrics
	s.mux.Handle("/metrics", promhttp.Handler())

	// Static files
	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	// Page routes
	s.mux.HandleFunc("/map", s.handleMap)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.renderer != nil {
		http.Redirect(w, r, "/map", http.StatusFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "plat-landval",
		"status":  "running",
	})
}

// mapPage is the template model for the capture page: spec-derived data
// plus the basemap definitions the map script needs for tiling.
type mapPage struct {
	humastar.PageData
	Basemaps []service.BasemapProvider
}

// handleMap serves the capture page. Every browser gets a session cookie
// before its first click so pending state has somewhere to live.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		http.NotFound(w, r)
		return
	}

	if _, err := r.Cookie(session.CookieName); err != nil {
		sess := s.sessions.New()
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    sess.ID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	pd := humastar.BuildPageData(s.humaAPI, captureFormCfg,
		capture.PageSignals(s.services.Basemaps.Default().Key))
	page := mapPage{PageData: pd, Basemaps: s.services.Basemaps.List()}

	html, err := s.renderer.Render("map.html", page)
	if err != nil {
		slog.Error("render map page", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// reloadTemplates rebuilds the template set after an on-disk change.
// Reload replaces the whole set, so the map page and the generated form
// fragments must be parsed again on top of the fresh fragments.
func (s *Server) reloadTemplates() {
	fragmentsDir := filepath.Join(s.config.WebDir, "templates", "fragments")
	if err := s.renderer.Reload(fragmentsDir); err != nil {
		slog.Warn("template reload failed", "error", err)
		return
	}
	if err := s.renderer.ParseFile(filepath.Join(s.config.WebDir, "templates", "map.html")); err != nil {
		slog.Warn("map template reload failed", "error", err)
		return
	}
	humastar.RegisterFormTemplates(s.humaAPI, s.renderer)
	slog.Info("templates reloaded")
}
