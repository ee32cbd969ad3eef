package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

// fakeStore is an in-memory RecordStore for flow and service tests.
type fakeStore struct {
	records   []ValueRecord
	initErr   error
	loadErr   error
	appendErr error
	initCalls int
}

func (f *fakeStore) Initialize(ctx context.Context) error {
	f.initCalls++
	return f.initErr
}

func (f *fakeStore) LoadAll(ctx context.Context) ([]ValueRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	out := make([]ValueRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeStore) Append(ctx context.Context, rec ValueRecord) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.records = append(f.records, rec)
	return nil
}

// fakeSlot is a bare pending-click slot, standing in for a session.
type fakeSlot struct {
	pending *PendingClick
}

func (s *fakeSlot) SetPending(p PendingClick) { s.pending = &p }

func (s *fakeSlot) Pending() (PendingClick, bool) {
	if s.pending == nil {
		return PendingClick{}, false
	}
	return *s.pending, true
}

func (s *fakeSlot) ClearPending() { s.pending = nil }
