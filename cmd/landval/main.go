package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-landval/internal/server"
	"github.com/joeblew999/plat-landval/internal/service"
)

// Options defines all CLI flags and env vars for the landval server.
// Flags: --host, --port, --data-dir, --web-dir, --log-level, --dev
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_WEB_DIR, ...
type Options struct {
	Host     string `doc:"Host to bind to" default:"0.0.0.0"`
	Port     int    `doc:"Port to listen on" short:"p" default:"8087"`
	DataDir  string `doc:"Directory for the DuckDB database" default:".data"`
	WebDir   string `doc:"Path to web/ directory" default:"web"`
	LogLevel string `doc:"Log level (debug, info, warn, error)" default:"info"`
	Dev      bool   `doc:"Reload templates on change"`
}

var logLevelMapping = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

func setupLogger(level string) {
	logLevel, ok := logLevelMapping[level]
	if !ok {
		logLevel = slog.LevelInfo
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       logLevel,
		ReplaceAttr: slogReplaceAttr,
	})
	slog.SetDefault(slog.New(handler))
}

func slogReplaceAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		source := a.Value.Any().(*slog.Source)
		source.File = filepath.Base(source.File)
	}
	return a
}

// newServer configures logging and builds the server. Every command path
// goes through here, so the logger is set up exactly once.
func newServer(opts *Options) (*server.Server, error) {
	setupLogger(opts.LogLevel)
	return server.New(server.Config{
		Host:    opts.Host,
		Port:    fmt.Sprintf("%d", opts.Port),
		DataDir: opts.DataDir,
		WebDir:  opts.WebDir,
		Dev:     opts.Dev,
	})
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		srv, err := newServer(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
			os.Exit(1)
		}

		addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
		httpServer := &http.Server{Addr: addr, Handler: srv}

		hooks.OnStart(func() {
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			fmt.Println()
			fmt.Printf("plat-landval server starting...\n")
			fmt.Printf("  Server:  %s\n", baseURL)
			fmt.Printf("  Data:    %s\n", opts.DataDir)
			fmt.Println()
			fmt.Printf("  Map:     %s/map\n", baseURL)
			fmt.Printf("  Docs:    %s/docs\n", baseURL)
			fmt.Printf("  OpenAPI: %s/openapi.json\n", baseURL)
			fmt.Printf("  Metrics: %s/metrics\n", baseURL)
			fmt.Println()

			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("server error", "error", err)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			httpServer.Shutdown(ctx)
			srv.Close()
		})
	})

	cli.Root().Use = "landval"
	cli.Root().Short = "Land value capture tool: click the map, keep the record"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			srv, err := newServer(opts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error building server: %v\n", err)
				os.Exit(1)
			}
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// export subcommand: dump captured records
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export captured records (GeoJSON by default, --format csv for CSV)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			// Records only, no web assets needed
			apiOpts := *opts
			apiOpts.WebDir = ""
			srv, err := newServer(&apiOpts)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
				os.Exit(1)
			}

			format, _ := cmd.Flags().GetString("format")
			output, err := exportRecords(srv.Services().Records, format)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting records: %v\n", err)
				os.Exit(1)
			}

			outFile, _ := cmd.Flags().GetString("output")
			if outFile == "" {
				os.Stdout.Write(output)
				return
			}
			if err := os.WriteFile(outFile, output, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
				os.Exit(1)
			}
			fmt.Printf("Exported records to %s\n", outFile)
		}),
	}
	exportCmd.Flags().StringP("format", "f", "geojson", "Output format: geojson or csv")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	cli.Root().AddCommand(exportCmd)

	cli.Run()
}

func exportRecords(records *service.RecordService, format string) ([]byte, error) {
	ctx := context.Background()

	switch format {
	case "geojson":
		fc, err := records.FeatureCollection(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.MarshalIndent(fc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil

	case "csv":
		list, err := records.List(ctx)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		w.Write([]string{"id", "latitude", "longitude", "value", "capture_date", "source", "services", "surface_area"})
		for _, rec := range list {
			w.Write([]string{
				rec.ID,
				strconv.FormatFloat(rec.Latitude, 'f', -1, 64),
				strconv.FormatFloat(rec.Longitude, 'f', -1, 64),
				strconv.FormatFloat(rec.Value, 'f', -1, 64),
				rec.CaptureDate,
				rec.Source,
				rec.Services,
				strconv.FormatFloat(rec.SurfaceArea, 'f', -1, 64),
			})
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown format %q (want geojson or csv)", format)
	}
}
