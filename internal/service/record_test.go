package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordService_CreateAppendsThenPublishes(t *testing.T) {
	st := &fakeStore{}
	bus := NewEventBus()
	svc := NewRecordService(st, bus)
	ch := bus.Subscribe()

	rec := ValueRecord{ID: "r1", Latitude: -34.60, Longitude: -58.38, Value: 120000, SurfaceArea: 300}
	require.NoError(t, svc.Create(context.Background(), rec))

	require.Len(t, st.records, 1)
	assert.Equal(t, rec, st.records[0])

	select {
	case ev := <-ch:
		assert.Equal(t, "records", ev.Resource)
		assert.Equal(t, "created", ev.Action)
		assert.Equal(t, rec, ev.Record)
	default:
		t.Fatal("created event not published")
	}
}

func TestRecordService_CreateAppendFailurePublishesNothing(t *testing.T) {
	st := &fakeStore{appendErr: errors.New("disk full")}
	bus := NewEventBus()
	svc := NewRecordService(st, bus)
	ch := bus.Subscribe()

	err := svc.Create(context.Background(), ValueRecord{ID: "r1"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "disk full")

	assert.Empty(t, st.records)
	assert.Len(t, ch, 0)
}

func TestRecordService_ListKeepsStorageOrder(t *testing.T) {
	st := &fakeStore{records: []ValueRecord{{ID: "a"}, {ID: "b"}, {ID: "c"}}}
	svc := NewRecordService(st, NewEventBus())

	records, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].ID)
	assert.Equal(t, "b", records[1].ID)
	assert.Equal(t, "c", records[2].ID)
}

func TestRecordService_FeatureCollection(t *testing.T) {
	st := &fakeStore{records: []ValueRecord{
		{ID: "r1", Latitude: -34.60, Longitude: -58.38, Value: 120000, CaptureDate: "2026-08-23", Source: "Sale", Services: "Water", SurfaceArea: 300},
		{ID: "r2", Latitude: -34.70, Longitude: -58.50, Value: 95000, SurfaceArea: 250},
	}}
	svc := NewRecordService(st, NewEventBus())

	fc, err := svc.FeatureCollection(context.Background())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	f := fc.Features[0]
	assert.Equal(t, "r1", f.ID)
	assert.Equal(t, orb.Point{-58.38, -34.60}, f.Geometry)
	assert.Equal(t, "r1", f.Properties["id"])
	assert.Equal(t, 120000.0, f.Properties["value"])
	assert.Equal(t, "2026-08-23", f.Properties["captureDate"])
	assert.Equal(t, "Sale", f.Properties["source"])
	assert.Equal(t, "Water", f.Properties["services"])
	assert.Equal(t, 300.0, f.Properties["surfaceArea"])
	assert.Contains(t, f.Properties["popup"], "$120.000")

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "FeatureCollection", decoded["type"])
}

func TestRecordService_FeatureCollectionEmpty(t *testing.T) {
	svc := NewRecordService(&fakeStore{}, NewEventBus())

	fc, err := svc.FeatureCollection(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fc.Features)
}

func TestRecordService_Bounds(t *testing.T) {
	st := &fakeStore{records: []ValueRecord{
		{ID: "r1", Latitude: -34.60, Longitude: -58.38},
		{ID: "r2", Latitude: -34.70, Longitude: -58.50},
	}}
	svc := NewRecordService(st, NewEventBus())

	bound, count, err := svc.Bounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, -58.50, bound.Min[0])
	assert.Equal(t, -34.70, bound.Min[1])
	assert.Equal(t, -58.38, bound.Max[0])
	assert.Equal(t, -34.60, bound.Max[1])
}

func TestRecordService_BoundsEmpty(t *testing.T) {
	svc := NewRecordService(&fakeStore{}, NewEventBus())

	bound, count, err := svc.Bounds(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, orb.Bound{}, bound)
}

func TestRecordService_LoadFailurePropagates(t *testing.T) {
	st := &fakeStore{loadErr: errors.New("db locked")}
	svc := NewRecordService(st, NewEventBus())
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.Error(t, err)

	_, err = svc.FeatureCollection(ctx)
	assert.Error(t, err)

	_, _, err = svc.Bounds(ctx)
	assert.Error(t, err)
}
