package reconcile

import (
	"context"

	"splitpay/internal/errors"
	"splitpay/internal/logging"
	"splitpay/internal/outcome"
	"splitpay/internal/partner"
)

const (
	errNoPurchaseStatus = "no purchase status"
	errEmptyResponse    = "Empty partner response"
	errStatusPrefix     = "Purchase status : "
	errUnexpectedStatus = "Unexpected purchase status: "
	successStatusCode   = "200"
	maxErrorCodeLength  = 50
)

// Engine reconciles a purchase's partner-side status into one canonical
// outcome. It is stateless between invocations; the partner system is the
// sole source of truth.
type Engine struct {
	client *partner.Client
	logger *logging.Logger
}

// NewEngine builds a reconciliation engine on an explicitly constructed
// partner client.
func NewEngine(client *partner.Client) *Engine {
	return &Engine{
		client: client,
		logger: logging.NewDefaultLogger("reconcile"),
	}
}

// FinalizeRequest carries the inputs of the finalize-after-redirect and
// session-expiry entry points.
type FinalizeRequest struct {
	PurchaseReference string
	Sandbox           bool
	CaptureNow        bool

	// Amount funds the confirmation envelope when CaptureNow applies
	Amount float64
}

// CaptureRequest carries the inputs of the capture entry point. Capture
// always confirms a favorable purchase.
type CaptureRequest struct {
	PurchaseReference string
	Sandbox           bool
	Amount            float64
}

// FinalizeRedirect resolves a purchase after the buyer returned from the
// partner's authorization page.
func (e *Engine) FinalizeRedirect(ctx context.Context, req FinalizeRequest) outcome.Outcome {
	return e.resolve(ctx, req.PurchaseReference, req.Sandbox, req.CaptureNow, req.Amount)
}

// ResolveExpiredSession resolves a purchase whose redirect session expired
// before the platform observed the buyer's return.
func (e *Engine) ResolveExpiredSession(ctx context.Context, req FinalizeRequest) outcome.Outcome {
	return e.resolve(ctx, req.PurchaseReference, req.Sandbox, req.CaptureNow, req.Amount)
}

// Capture finalizes funding of a purchase; immediate capture is forced.
func (e *Engine) Capture(ctx context.Context, req CaptureRequest) outcome.Outcome {
	return e.resolve(ctx, req.PurchaseReference, req.Sandbox, true, req.Amount)
}

// resolve runs the status fetch, the conditional confirmation and the
// outcome decision. The confirm call is issued at most once per invocation,
// strictly after a successful status fetch.
func (e *Engine) resolve(ctx context.Context, ref string, sandbox, captureNow bool, amount float64) outcome.Outcome {
	statusReq, err := partner.NewStatusRequest(e.client.Config(), ref)
	if err != nil {
		return e.failureFromError(ref, err)
	}

	resp, err := e.client.GetPurchaseStatus(ctx, statusReq, sandbox)
	if err != nil {
		return e.failureFromError(ref, err)
	}
	if !resp.IsOK() {
		cause, code := outcome.ClassifyResponse(resp)
		e.logger.Error("status fetch failed for %s: %s", ref, code)
		return outcome.NewFailure(ref, code, cause)
	}

	decoded := partner.DecodeStatusResponse(resp.Content, statusReq.EncryptKey)
	if !decoded.HasStatus() {
		e.logger.Error("no purchase status in response for %s", ref)
		return outcome.NewFailure(ref, errNoPurchaseStatus, outcome.CauseCommunicationError)
	}

	if captureNow && decoded.Code() == partner.StatusFavorable {
		return e.confirm(ctx, ref, sandbox, amount)
	}
	return e.mapStatus(decoded, ref)
}

// confirm issues the funding confirmation for a favorable purchase and
// resolves its response through the shared status mapping. A confirmation
// response never triggers a second confirm.
func (e *Engine) confirm(ctx context.Context, ref string, sandbox bool, amount float64) outcome.Outcome {
	e.logger.Info("payment confirmation required for %s", ref)

	confirmReq, err := partner.NewConfirmRequest(e.client.Config(), ref, amount)
	if err != nil {
		return e.failureFromError(ref, err)
	}

	resp, err := e.client.ConfirmPurchase(ctx, confirmReq, sandbox)
	if err != nil {
		return e.failureFromError(ref, err)
	}
	if resp == nil {
		// Defensive: the transport returns an envelope or an error
		e.logger.Error("empty confirmation response for %s", ref)
		return outcome.NewFailure(ref, errEmptyResponse, outcome.CausePartnerUnknown)
	}
	if !resp.IsOK() {
		cause, code := outcome.ClassifyResponse(resp)
		e.logger.Error("confirmation failed for %s: %s", ref, code)
		return outcome.NewFailure(ref, code, cause)
	}

	decoded := partner.DecodeStatusResponse(resp.Content, confirmReq.EncryptKey)
	if !decoded.HasStatus() {
		e.logger.Error("no purchase status in confirmation response for %s", ref)
		return outcome.NewFailure(ref, errNoPurchaseStatus, outcome.CauseRefused)
	}
	return e.mapStatus(decoded, ref)
}

// mapStatus is the shared purchase-status switch. Both the initial status
// response and the confirmation response resolve through it.
func (e *Engine) mapStatus(decoded partner.StatusResponse, ref string) outcome.Outcome {
	switch decoded.Code() {
	case partner.StatusPending:
		return outcome.OnHold{TransactionID: ref, Cause: outcome.ScoringAsync}

	case partner.StatusRefused:
		return outcome.NewFailure(ref, errStatusPrefix+string(partner.StatusRefused), outcome.CauseRefused)

	case partner.StatusAborted:
		// ABORTED always maps to CANCEL, a known simplification: the
		// partner does not distinguish buyer abandon from session expiry.
		return outcome.NewFailure(ref, errStatusPrefix+string(partner.StatusAborted), outcome.CauseCancel)

	case partner.StatusFavorable, partner.StatusFunded, partner.StatusCancelled, partner.StatusToBeFunded:
		message := decoded.Label()
		if message == "" {
			message = "OK"
		}
		return outcome.Success{
			TransactionID:  ref,
			StatusCode:     successStatusCode,
			Message:        message,
			AdditionalData: decoded.AdditionalData(),
		}

	default:
		// Should not be reached: the status enumeration is closed
		e.logger.Error("unexpected purchase status %q for %s", decoded.Code(), ref)
		return outcome.NewFailure(ref, errUnexpectedStatus+string(decoded.Code()), outcome.CausePartnerUnknown)
	}
}

// failureFromError converts a technical error into a failure outcome.
// Transport failures become COMMUNICATION_ERROR; anything else is an
// unanticipated fault surfaced as INTERNAL_ERROR. No raw error ever
// escapes to the host platform.
func (e *Engine) failureFromError(ref string, err error) outcome.Failure {
	cause := outcome.CauseInternalError
	if errors.IsCommunication(err) {
		cause = outcome.CauseCommunicationError
	}
	e.logger.Error("technical failure for %s: %v", ref, err)
	return outcome.NewFailure(ref, truncateErrorCode(err.Error()), cause)
}

// truncateErrorCode bounds the error code surfaced to the host platform.
func truncateErrorCode(code string) string {
	if len(code) > maxErrorCodeLength {
		return code[:maxErrorCodeLength]
	}
	return code
}
