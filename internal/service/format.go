package service

import (
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Values are shown in the Argentine market convention: thousands separated
// with dots, decimals with a comma ("$120.000", "$99,5").
var printer = message.NewPrinter(language.MustParse("es-AR"))

// FormatValue renders a monetary value like "$120.000".
func FormatValue(v float64) string {
	return "$" + printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatSurface renders a surface area like "300 m²".
func FormatSurface(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2))) + " m²"
}

// FormatPopup builds the marker popup HTML for a record. The same HTML is
// used for the initial GeoJSON load and for live marker events, so every
// session renders popups identically.
func FormatPopup(rec ValueRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="record-popup"><strong>%s</strong>`, FormatValue(rec.Value))
	fmt.Fprintf(&b, `<br>Surface: %s`, FormatSurface(rec.SurfaceArea))
	if rec.Source != "" {
		fmt.Fprintf(&b, `<br>Source: %s`, template.HTMLEscapeString(rec.Source))
	}
	if rec.Services != "" {
		fmt.Fprintf(&b, `<br>Services: %s`, template.HTMLEscapeString(rec.Services))
	}
	if rec.CaptureDate != "" {
		fmt.Fprintf(&b, `<br><small>%s</small>`, rec.CaptureDate)
	}
	b.WriteString(`</div>`)
	return b.String()
}
