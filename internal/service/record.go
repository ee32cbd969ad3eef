package service

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// RecordStore is the persistence boundary for value records.
type RecordStore interface {
	Initialize(ctx context.Context) error
	LoadAll(ctx context.Context) ([]ValueRecord, error)
	Append(ctx context.Context, rec ValueRecord) error
}

// RecordService reads and appends value records. Records are append-only:
// nothing here updates or deletes a row, and rows come back in whatever
// order the store keeps them.
type RecordService struct {
	store RecordStore
	bus   *EventBus
}

// NewRecordService creates a record service on top of a store.
func NewRecordService(store RecordStore, bus *EventBus) *RecordService {
	return &RecordService{store: store, bus: bus}
}

// EnsureSchema creates the backing table if needed. Safe to call on every
// startup.
func (s *RecordService) EnsureSchema(ctx context.Context) error {
	return s.store.Initialize(ctx)
}

// List returns all records in storage order.
func (s *RecordService) List(ctx context.Context) ([]ValueRecord, error) {
	return s.store.LoadAll(ctx)
}

// Create appends a record and publishes the created event. The append comes
// first: subscribers only ever hear about rows that exist.
func (s *RecordService) Create(ctx context.Context, rec ValueRecord) error {
	if err := s.store.Append(ctx, rec); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	s.bus.Publish(Event{Resource: "records", Action: "created", Record: rec})
	return nil
}

// FeatureCollection returns all records as GeoJSON point features, each
// carrying its attributes and ready-made popup HTML.
func (s *RecordService) FeatureCollection(ctx context.Context) (*geojson.FeatureCollection, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, rec := range records {
		f := geojson.NewFeature(orb.Point{rec.Longitude, rec.Latitude})
		f.ID = rec.ID
		f.Properties = geojson.Properties{
			"id":          rec.ID,
			"value":       rec.Value,
			"captureDate": rec.CaptureDate,
			"source":      rec.Source,
			"services":    rec.Services,
			"surfaceArea": rec.SurfaceArea,
			"popup":       FormatPopup(rec),
		}
		fc.Append(f)
	}
	return fc, nil
}

// Bounds returns the bounding box over all records and how many there are.
// With no records the bound is the zero value and count is zero.
func (s *RecordService) Bounds(ctx context.Context) (orb.Bound, int, error) {
	records, err := s.store.LoadAll(ctx)
	if err != nil {
		return orb.Bound{}, 0, err
	}
	if len(records) == 0 {
		return orb.Bound{}, 0, nil
	}
	mp := make(orb.MultiPoint, len(records))
	for i, rec := range records {
		mp[i] = orb.Point{rec.Longitude, rec.Latitude}
	}
	return mp.Bound(), len(records), nil
}
