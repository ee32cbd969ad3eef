// pagedata.go — Reverse mapping: OpenAPI spec → page template data.
//
// BuildPageData extracts everything a page template needs from the spec:
//   - Signals JSON (data-signals init from schema reset values + UI state)
//   - Routes (discovered from OpenAPI paths, keyed by trailing segment)
//   - FormTmpl name (for {{template "capture-form" .}})
//
// This is the reverse of formrender.go: instead of spec → HTML fields,
// it's spec → template variables so the HTML never hardcodes URLs or signal names.
package humastar

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// PageData holds everything a page template needs from the OpenAPI spec.
// Templates use {{.Signals}} for data-signals initialization and
// {{.Routes.click}} style lookups for endpoint URLs — no hardcoded URLs
// or signal names in HTML.
type PageData struct {
	// Signals is the JSON string for data-signals initialization.
	// Includes schema reset values + UI state signals.
	Signals string

	// Routes maps the trailing path segment to the full path,
	// e.g. Routes["click"] = "/api/v1/capture/click".
	Routes map[string]string

	// FormTmpl is the template name for the form fragment.
	FormTmpl string
}

// BuildPageData builds template data for a schema from the OpenAPI spec.
// Routes are discovered from paths under cfg.RoutePrefixes, and the signals
// JSON combines schema reset values with extra UI signals.
func BuildPageData(api huma.API, cfg DatastarSchemaConfig, uiSignals map[string]any) PageData {
	pd := PageData{
		FormTmpl: cfg.FormTmpl,
	}

	// Build signals: schema reset values + UI state
	signals := buildResetSignals(api, cfg)
	for k, v := range uiSignals {
		signals[k] = v
	}
	signalsJSON, _ := json.Marshal(signals)
	pd.Signals = string(signalsJSON)

	// Discover routes from OpenAPI paths
	pd.Routes = discoverRoutes(api, cfg)

	return pd
}

// buildResetSignals produces the initial signal values from the OpenAPI schema.
//
// Numeric fields reset to the empty string, not zero. A zero is a value the
// user typed; an empty string is a field the user never touched. Submission
// logic needs to tell those apart.
//
// Check-set fields expand to one boolean signal per enum option.
func buildResetSignals(api huma.API, cfg DatastarSchemaConfig) map[string]any {
	schemas := api.OpenAPI().Components.Schemas.Map()
	schema, ok := schemas[cfg.Type.Name()]
	if !ok {
		return map[string]any{}
	}

	signals := map[string]any{}
	t := cfg.Type

	for i := range t.NumField() {
		sf := t.Field(i)

		jsonName := sf.Tag.Get("json")
		if idx := strings.IndexByte(jsonName, ','); idx >= 0 {
			jsonName = jsonName[:idx]
		}
		if jsonName == "" || jsonName == "-" {
			continue
		}

		prop, ok := schema.Properties[jsonName]
		if !ok {
			continue
		}

		// Skip ID: identity comes from the server, never the form
		if sf.Name == "ID" {
			continue
		}

		// Signal name
		suffix := strings.ToLower(jsonName)
		if sig, ok := prop.Extensions["x-signal"]; ok {
			suffix = fmt.Sprint(sig)
		}
		signal := cfg.Prefix + suffix

		xInput, _ := prop.Extensions["x-input"].(string)

		switch {
		case prop.Type == "array" && xInput == "checkset":
			if prop.Items == nil {
				continue
			}
			for _, v := range prop.Items.Enum {
				signals[signal+strings.ToLower(fmt.Sprint(v))] = false
			}

		case prop.Type == "array" || prop.Type == "object":
			continue

		case prop.Default != nil:
			signals[signal] = prop.Default

		case prop.Type == "boolean":
			signals[signal] = false

		default:
			// Strings and numbers both reset to empty
			signals[signal] = ""
		}
	}

	return signals
}

// discoverRoutes finds API routes by walking OpenAPI paths under the
// configured prefixes. Each route is keyed by its trailing path segment:
//
//	/api/v1/capture/click   → "click"
//	/api/v1/records/geojson → "geojson"
//	/api/v1/records         → "records" (the prefix itself)
//
// Parameterized paths ({id}) are skipped: they cannot be called without
// client-side interpolation, which pages do not do.
func discoverRoutes(api huma.API, cfg DatastarSchemaConfig) map[string]string {
	routes := map[string]string{}

	paths := api.OpenAPI().Paths
	if paths == nil {
		return routes
	}

	for path := range paths {
		for _, prefix := range cfg.RoutePrefixes {
			if path != prefix && !strings.HasPrefix(path, prefix+"/") {
				continue
			}

			rest := strings.TrimPrefix(path[len(prefix):], "/")
			if strings.ContainsAny(rest, "/{") {
				continue
			}

			key := rest
			if key == "" {
				key = prefix[strings.LastIndex(prefix, "/")+1:]
			}
			routes[key] = path
			break
		}
	}

	return routes
}
