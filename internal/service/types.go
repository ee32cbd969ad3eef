// Package service contains business logic for the plat-landval capture tool.
package service

import "strings"

// CaptureDateLayout is the canonical date format for value records.
const CaptureDateLayout = "2006-01-02"

// Source is where a captured value comes from. The set is closed: records
// only ever hold one of these values, with the empty string meaning the
// user did not say.
type Source string

const (
	SourceNone      Source = ""
	SourceOffer     Source = "Published offer"
	SourceAppraisal Source = "Appraisal"
	SourceSale      Source = "Sale"
)

// Sources lists every valid source, in form display order.
func Sources() []Source {
	return []Source{SourceNone, SourceOffer, SourceAppraisal, SourceSale}
}

// IsValid reports whether s is one of the closed source values.
func (s Source) IsValid() bool {
	switch s {
	case SourceNone, SourceOffer, SourceAppraisal, SourceSale:
		return true
	}
	return false
}

// Utility is one of the fixed services a parcel can have. Records store a
// subset of these, serialized with JoinUtilities.
type Utility string

const (
	UtilityWater       Utility = "Water"
	UtilityElectricity Utility = "Electricity"
	UtilityGas         Utility = "Gas"
	UtilitySewage      Utility = "Sewage"
	UtilityPaving      Utility = "Paving"
)

// AllUtilities lists every utility, in form display order.
var AllUtilities = []Utility{
	UtilityWater, UtilityElectricity, UtilityGas, UtilitySewage, UtilityPaving,
}

// IsValid reports whether u is one of the fixed utilities.
func (u Utility) IsValid() bool {
	switch u {
	case UtilityWater, UtilityElectricity, UtilityGas, UtilitySewage, UtilityPaving:
		return true
	}
	return false
}

// JoinUtilities serializes a utility set the way rows store it: names joined
// with a comma and a space, e.g. "Water, Electricity".
func JoinUtilities(us []Utility) string {
	names := make([]string, len(us))
	for i, u := range us {
		names[i] = string(u)
	}
	return strings.Join(names, ", ")
}

// ParseUtilities parses a stored services string back into utilities.
// Unknown names are dropped.
func ParseUtilities(s string) []Utility {
	if s == "" {
		return nil
	}
	var us []Utility
	for _, part := range strings.Split(s, ",") {
		u := Utility(strings.TrimSpace(part))
		if u.IsValid() {
			us = append(us, u)
		}
	}
	return us
}

// ValueRecord is one captured land-value observation, stored as a single row
// in the value_records table.
// Single source of truth: Huma reads tags for OpenAPI + validation, sqlx
// reads db tags for row scanning.
type ValueRecord struct {
	ID          string  `json:"id,omitempty" db:"id" doc:"Unique record identifier" example:"f47ac10b-58cc-4372-a567-0e02b2c3d479"`
	Latitude    float64 `json:"latitude" db:"latitude" required:"true" minimum:"-90" maximum:"90" doc:"WGS84 latitude of the clicked point" example:"-34.60"`
	Longitude   float64 `json:"longitude" db:"longitude" required:"true" minimum:"-180" maximum:"180" doc:"WGS84 longitude of the clicked point" example:"-58.38"`
	Value       float64 `json:"value" db:"value" required:"true" minimum:"0" doc:"Land value ($)" example:"120000"`
	CaptureDate string  `json:"captureDate" db:"capture_date" doc:"Capture date (YYYY-MM-DD)" example:"2026-08-23"`
	Source      string  `json:"source,omitempty" db:"source" enum:",Published offer,Appraisal,Sale" doc:"Where the value comes from"`
	Services    string  `json:"services,omitempty" db:"services" doc:"Available services, comma-joined" example:"Water, Electricity"`
	SurfaceArea float64 `json:"surfaceArea" db:"surface_area" required:"true" minimum:"0" doc:"Surface area (m²)" example:"300"`
}

// CaptureForm is the modal form contract for a new value record. Coordinates
// are deliberately absent: they come from the pending click, never from the
// form.
// Single source of truth: Huma reads tags for OpenAPI + validation,
// humastar reads tags for Datastar signal names + HTML form rendering.
//
// Custom tags for the form renderer:
//
//	signal:"name"      — override Datastar signal suffix (default: lowercase field name)
//	input:"checkset"   — render an enum array as one checkbox per option
type CaptureForm struct {
	Value       float64  `json:"value" required:"true" minimum:"0" doc:"Value ($)" example:"120000"`
	SurfaceArea float64  `json:"surfaceArea" required:"true" minimum:"0" doc:"Surface area (m²)" example:"300" signal:"surface"`
	Source      string   `json:"source,omitempty" enum:",Published offer,Appraisal,Sale" doc:"Source"`
	Services    []string `json:"services,omitempty" enum:"Water,Electricity,Gas,Sewage,Paving" doc:"Services" input:"checkset" signal:"svc"`
}

// PendingClick is the transient state between a map click and a saved record:
// the would-be record identifier, the clicked coordinates, and the capture
// date stamped at click time. One slot per session; a newer click replaces
// it, submit or cancel clears it.
type PendingClick struct {
	ID        string
	Latitude  float64
	Longitude float64
	Date      string
}

// BasemapProvider is one entry in the fixed basemap registry.
type BasemapProvider struct {
	Key         string `json:"key" doc:"Stable provider key" example:"street"`
	Label       string `json:"label" doc:"Display name" example:"Street"`
	URL         string `json:"url" doc:"Tile URL template"`
	Attribution string `json:"attribution" doc:"Attribution HTML"`
	MaxZoom     int    `json:"maxZoom" doc:"Maximum zoom level" example:"19"`
}
