// Package capture contains Datastar SSE handlers for the map capture UI.
package capture

import (
	"strconv"
	"strings"

	"github.com/joeblew999/plat-landval/internal/humastar"
	"github.com/joeblew999/plat-landval/internal/service"
)

// SignalPrefix namespaces the capture form signals (data-bind:capvalue etc).
// Signal names are lowercase due to data-bind behavior.
const SignalPrefix = "cap"

const (
	sigValue   = SignalPrefix + "value"
	sigSurface = SignalPrefix + "surface"
	sigSource  = SignalPrefix + "source"
	sigService = SignalPrefix + "svc" // + lowercase utility name

	// Page-level click signals, set by the map script before posting.
	sigClickLat    = "clicklat"
	sigClickLng    = "clicklng"
	sigClickTarget = "clicktarget"
	sigClickDate   = "clickdate"
)

// PageSignals returns the page-level UI signals in their initial state,
// merged with the form reset signals by the page data builder.
func PageSignals(defaultBasemap string) map[string]any {
	return map[string]any{
		"_capturing":   false,
		"error":        "",
		"success":      "",
		"basemap":      defaultBasemap,
		sigClickLat:    0,
		sigClickLng:    0,
		sigClickTarget: "",
		sigClickDate:   "",
	}
}

// ParseClickSignals extracts the map click from page signals.
func ParseClickSignals(signals humastar.Signals) service.ClickInput {
	return service.ClickInput{
		Latitude:  signals.Float(sigClickLat),
		Longitude: signals.Float(sigClickLng),
		Target:    signals.String(sigClickTarget),
	}
}

// ParseCaptureFormSignals extracts the capture form from page signals.
// Numeric fields stay nil when the input was never touched: an empty
// string signal is absence, a zero is a value the user typed.
func ParseCaptureFormSignals(signals humastar.Signals) service.FormInput {
	form := service.FormInput{
		Value:       numberSignal(signals, sigValue),
		SurfaceArea: numberSignal(signals, sigSurface),
		Source:      signals.String(sigSource),
	}
	for _, u := range service.AllUtilities {
		if signals.Bool(sigService + strings.ToLower(string(u))) {
			form.Services = append(form.Services, string(u))
		}
	}
	return form
}

// ResetCaptureFormSignals returns every form signal in its untouched state.
// Sent on modal open and after a successful submit.
func ResetCaptureFormSignals() map[string]any {
	signals := map[string]any{
		sigValue:   "",
		sigSurface: "",
		sigSource:  "",
	}
	for _, u := range service.AllUtilities {
		signals[sigService+strings.ToLower(string(u))] = false
	}
	return signals
}

// numberSignal reads a numeric signal that arrives either as a JSON number
// (input was typed into) or as a string (initial "" state, or browsers that
// bind number inputs as text). Returns nil for absent or unparseable values.
func numberSignal(signals humastar.Signals, key string) *float64 {
	v, ok := signals[key]
	if !ok {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case string:
		if n == "" {
			return nil
		}
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}
