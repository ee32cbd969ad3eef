package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	dataDir string
	dbPath  string
}

func NewInfoHandler(dataDir, dbPath string) *InfoHandler {
	return &InfoHandler{dataDir: dataDir, dbPath: dbPath}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name     string   `json:"name" doc:"Service name"`
	Version  string   `json:"version" doc:"Service version"`
	DataDir  string   `json:"data_dir" doc:"Data directory path"`
	DBPath   string   `json:"db_path" doc:"DuckDB database file path"`
	Features []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:     "plat-landval",
		Version:  Version,
		DataDir:  h.dataDir,
		DBPath:   h.dbPath,
		Features: []string{"capture", "duckdb", "geojson", "basemaps"},
	}}, nil
}
