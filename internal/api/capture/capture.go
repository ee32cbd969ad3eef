package capture

import (
	"context"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/plat-landval/internal/humastar"
	"github.com/joeblew999/plat-landval/internal/metrics"
	"github.com/joeblew999/plat-landval/internal/service"
	"github.com/joeblew999/plat-landval/internal/session"
)

// CaptureHandler drives the click → form → record flow over Datastar SSE.
// Each browser session holds at most one pending click; the handlers resolve
// the session from the cookie and hand the state machine to the flow.
type CaptureHandler struct {
	humastar.Handler
	flow     *service.CaptureFlow
	sessions *session.Registry
}

func NewCaptureHandler(flow *service.CaptureFlow, sessions *session.Registry, renderer *humastar.Renderer) *CaptureHandler {
	return &CaptureHandler{
		Handler:  humastar.Handler{Renderer: renderer},
		flow:     flow,
		sessions: sessions,
	}
}

func (h *CaptureHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/capture/click", h.Click, huma.OperationTags("capture"))
	huma.Post(api, "/api/v1/capture/submit", h.Submit, huma.OperationTags("capture"))
	huma.Post(api, "/api/v1/capture/cancel", h.Cancel, huma.OperationTags("capture"))
}

// ClickInput carries the page signals plus the session cookie.
type ClickInput struct {
	humastar.SignalsInput
	SessionID string `cookie:"landval_session" doc:"Capture session"`
}

// Click records a map click as the session's pending click and opens the
// form. A new click replaces any previous pending click. Clicks that landed
// on a map control are ignored.
func (h *CaptureHandler) Click(ctx context.Context, input *ClickInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	click := ParseClickSignals(signals)
	sess := h.sessions.GetOrCreate(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		res := h.flow.Click(sess, click)
		if !res.Opened {
			return
		}
		metrics.CaptureClicks.Inc()

		open := ResetCaptureFormSignals()
		open["_capturing"] = true
		open["error"] = ""
		open["success"] = ""
		open[sigClickDate] = res.Pending.Date
		sse.Signals(open)
	}), nil
}

// SubmitInput carries the form signals plus the session cookie.
type SubmitInput struct {
	humastar.SignalsInput
	SessionID string `cookie:"landval_session" doc:"Capture session"`
}

// Submit turns the pending click plus the form into a stored record.
// Incomplete forms are ignored without feedback so half-filled modals stay
// open untouched. Storage failures keep the pending click so the user can
// retry.
func (h *CaptureHandler) Submit(ctx context.Context, input *SubmitInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	form := ParseCaptureFormSignals(signals)
	sess := h.sessions.GetOrCreate(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		res, err := h.flow.Submit(ctx, sess, form)
		if err != nil {
			sse.Error("Could not save the record. Try again.")
			return
		}
		if !res.Fired {
			metrics.CaptureRejected.Inc()
			slog.Debug("capture submit ignored", "reason", res.Reason)
			return
		}
		metrics.RecordsCreated.Inc()

		done := ResetCaptureFormSignals()
		done["_capturing"] = false
		done["success"] = "Value captured"
		sse.Signals(done)

		sse.DispatchCustomEvent("record-created", map[string]any{
			"id":        res.Record.ID,
			"latitude":  res.Record.Latitude,
			"longitude": res.Record.Longitude,
			"popup":     res.Popup,
		})
	}), nil
}

// CancelInput carries only the session cookie.
type CancelInput struct {
	SessionID string `cookie:"landval_session" doc:"Capture session"`
}

// Cancel closes the form and discards the pending click.
func (h *CaptureHandler) Cancel(ctx context.Context, input *CancelInput) (*huma.StreamResponse, error) {
	sess := h.sessions.GetOrCreate(input.SessionID)

	return h.Stream(func(sse humastar.SSE) {
		h.flow.Cancel(sess)
		sse.Signals(map[string]any{"_capturing": false, "error": "", "success": ""})
	}), nil
}
