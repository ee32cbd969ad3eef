package service

// BasemapService exposes the fixed basemap registry. The set is closed on
// purpose: the map offers exactly these four providers and nothing is
// configurable at runtime. Switching providers is a pure client-side tile
// swap; the server only hands out the registry.
type BasemapService struct {
	providers []BasemapProvider
}

// NewBasemapService creates the basemap registry.
func NewBasemapService() *BasemapService {
	return &BasemapService{
		providers: []BasemapProvider{
			{
				Key:         "street",
				Label:       "Street",
				URL:         "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
				Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors`,
				MaxZoom:     19,
			},
			{
				Key:         "satellite",
				Label:       "Satellite",
				URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
				Attribution: `Tiles &copy; Esri &mdash; Source: Esri, Maxar, Earthstar Geographics`,
				MaxZoom:     19,
			},
			{
				Key:         "light",
				Label:       "Light",
				URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
				Attribution: `&copy; <a href="https://www.openstreetmap.org/copyright">OpenStreetMap</a> contributors &copy; <a href="https://carto.com/attributions">CARTO</a>`,
				MaxZoom:     20,
			},
			{
				Key:         "topo",
				Label:       "Topographic",
				URL:         "https://{s}.tile.opentopomap.org/{z}/{x}/{y}.png",
				Attribution: `Map data: &copy; OpenStreetMap contributors, SRTM | Style: &copy; <a href="https://opentopomap.org">OpenTopoMap</a> (CC-BY-SA)`,
				MaxZoom:     17,
			},
		},
	}
}

// List returns all providers in display order.
func (s *BasemapService) List() []BasemapProvider {
	out := make([]BasemapProvider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Get returns a provider by key.
func (s *BasemapService) Get(key string) (BasemapProvider, bool) {
	for _, p := range s.providers {
		if p.Key == key {
			return p, true
		}
	}
	return BasemapProvider{}, false
}

// Default returns the provider the map starts with.
func (s *BasemapService) Default() BasemapProvider {
	return s.providers[0]
}
