package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ControlIDPrefix marks DOM element ids that belong to map controls. Clicks
// reporting such an origin never open the capture form. The primary defense
// is the client-side propagation guard on the control containers; this check
// is the cheap server-side fallback for events that slip through.
const ControlIDPrefix = "ctl-"

// PendingSlot holds the single pending click a session may have. Implemented
// by session.Session; the flow only needs the slot, not the whole session.
type PendingSlot interface {
	SetPending(PendingClick)
	Pending() (PendingClick, bool)
	ClearPending()
}

// ClickInput is a map click as reported by the page: the clicked coordinates
// and, when the event originated inside a control, that element's id.
type ClickInput struct {
	Latitude  float64
	Longitude float64
	Target    string
}

// ClickResult says whether the click opened the capture form and, if so,
// with which pending state.
type ClickResult struct {
	Opened  bool
	Pending PendingClick
}

// FormInput carries the submitted form values. Value and SurfaceArea are
// pointers because an untouched input is different from an explicit zero:
// zero is a valid value, absence blocks the save.
type FormInput struct {
	Value       *float64
	SurfaceArea *float64
	Source      string
	Services    []string
}

// SubmitResult reports whether the save fired. When it did not, Reason says
// why for logging; the UI stays silent and keeps the form open.
type SubmitResult struct {
	Fired  bool
	Reason string
	Record ValueRecord
	Popup  string
}

// CaptureFlow owns the click → form → record state machine.
//
// Two transitions:
//
//	Click  → Pending:   stamp id + capture date, stash the pending click
//	                    (replacing any unsaved one), open the form.
//	Submit → Persisted: only when value, surface area, and a pending click
//	                    are all present; append the row, then clear pending.
//
// Cancel clears pending without persisting anything. A submit that does not
// fire changes nothing: no row, pending kept, form stays open.
type CaptureFlow struct {
	records *RecordService

	// Injected for tests; default to wall clock and random UUIDs.
	now   func() time.Time
	newID func() string
}

// NewCaptureFlow creates a capture flow over the record service.
func NewCaptureFlow(records *RecordService) *CaptureFlow {
	return &CaptureFlow{
		records: records,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Click handles a map click. Clicks originating on a control are suppressed;
// everything else stamps a fresh pending click into the session slot,
// silently replacing whatever was there.
func (f *CaptureFlow) Click(slot PendingSlot, in ClickInput) ClickResult {
	if strings.HasPrefix(in.Target, ControlIDPrefix) {
		slog.Debug("click suppressed, originated on control", "target", in.Target)
		return ClickResult{}
	}

	pending := PendingClick{
		ID:        f.newID(),
		Latitude:  in.Latitude,
		Longitude: in.Longitude,
		Date:      f.now().Format(CaptureDateLayout),
	}
	slot.SetPending(pending)

	slog.Debug("pending click set",
		"id", pending.ID, "lat", pending.Latitude, "lng", pending.Longitude)
	return ClickResult{Opened: true, Pending: pending}
}

// Submit handles the form's save action. The transition fires only when the
// required fields and a pending click are all present; otherwise nothing
// happens and the caller keeps the form open. On a storage error the pending
// click is kept so the state matches what the user still sees.
func (f *CaptureFlow) Submit(ctx context.Context, slot PendingSlot, form FormInput) (SubmitResult, error) {
	pending, ok := slot.Pending()
	if !ok {
		return SubmitResult{Reason: "no pending click"}, nil
	}
	if form.Value == nil {
		return SubmitResult{Reason: "value missing"}, nil
	}
	if form.SurfaceArea == nil {
		return SubmitResult{Reason: "surface area missing"}, nil
	}
	if *form.Value < 0 || *form.SurfaceArea < 0 {
		return SubmitResult{Reason: "negative amount"}, nil
	}

	if !Source(form.Source).IsValid() {
		return SubmitResult{Reason: "unknown source"}, nil
	}
	utilities := make([]Utility, 0, len(form.Services))
	for _, name := range form.Services {
		u := Utility(name)
		if !u.IsValid() {
			return SubmitResult{Reason: "unknown service"}, nil
		}
		utilities = append(utilities, u)
	}

	rec := ValueRecord{
		ID:          pending.ID,
		Latitude:    pending.Latitude,
		Longitude:   pending.Longitude,
		Value:       *form.Value,
		CaptureDate: pending.Date,
		Source:      form.Source,
		Services:    JoinUtilities(utilities),
		SurfaceArea: *form.SurfaceArea,
	}

	if err := f.records.Create(ctx, rec); err != nil {
		slog.Error("record append failed", "id", rec.ID, "error", err)
		return SubmitResult{}, err
	}
	slot.ClearPending()

	slog.Info("record captured",
		"id", rec.ID, "lat", rec.Latitude, "lng", rec.Longitude, "value", rec.Value)
	return SubmitResult{Fired: true, Record: rec, Popup: FormatPopup(rec)}, nil
}

// Cancel discards the pending click. Nothing is persisted.
func (f *CaptureFlow) Cancel(slot PendingSlot) {
	slot.ClearPending()
}
