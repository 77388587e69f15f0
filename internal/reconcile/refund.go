package reconcile

import (
	"context"

	"splitpay/internal/outcome"
	"splitpay/internal/partner"
)

// CancelRequest carries the inputs of the refund/reset entry point.
type CancelRequest struct {
	PurchaseReference string
	Sandbox           bool
	Amount            float64

	// ReasonCode is 0 for a plain cancellation, 1 for fraud; selected by
	// the caller's context, never by the engine.
	ReasonCode int
}

// RefundFlag reports whether a cancellation must be processed as a
// monetary refund. Only a fully funded purchase requires one; every other
// state, including FAVORABLE and an unknown status, cancels plainly.
func RefundFlag(code partner.StatusCode) bool {
	return code == partner.StatusFunded
}

// Cancel resolves the purchase's current status, decides the refund flag
// and sends the refund/cancel request.
func (e *Engine) Cancel(ctx context.Context, req CancelRequest) outcome.Outcome {
	ref := req.PurchaseReference

	status, err := e.probeStatus(ctx, ref, req.Sandbox)
	if err != nil {
		return e.failureFromError(ref, err)
	}

	cancel := partner.PurchaseCancel{
		ReasonCode: req.ReasonCode,
		Amount:     req.Amount,
		RefundFlag: RefundFlag(status),
	}
	refundReq, err := partner.NewRefundRequest(e.client.Config(), ref, cancel)
	if err != nil {
		return e.failureFromError(ref, err)
	}

	resp, err := e.client.CancelPurchase(ctx, refundReq, req.Sandbox)
	if err != nil {
		return e.failureFromError(ref, err)
	}
	if resp == nil {
		e.logger.Error("empty refund response for %s", ref)
		return outcome.NewFailure(ref, errEmptyResponse, outcome.CausePartnerUnknown)
	}
	if !resp.IsOK() {
		cause, code := outcome.ClassifyResponse(resp)
		e.logger.Error("refund failed for %s: %s", ref, code)
		return outcome.NewFailure(ref, code, cause)
	}

	decoded := partner.DecodeStatusResponse(resp.Content, refundReq.EncryptKey)
	if !decoded.HasStatus() {
		e.logger.Error("no purchase status in refund response for %s", ref)
		return outcome.NewFailure(ref, errStatusPrefix+"null", outcome.CauseRefused)
	}

	e.logger.Info("refund resolved for %s: %s", ref, decoded.Code())
	return outcome.Success{
		TransactionID:  ref,
		StatusCode:     string(decoded.Code()),
		Message:        decoded.Label(),
		AdditionalData: decoded.AdditionalData(),
	}
}

// probeStatus fetches the purchase status ahead of the refund decision. A
// non-200 response or an undecodable body yields an unknown status (plain
// cancellation); only a transport-level failure aborts the reset.
func (e *Engine) probeStatus(ctx context.Context, ref string, sandbox bool) (partner.StatusCode, error) {
	statusReq, err := partner.NewStatusRequest(e.client.Config(), ref)
	if err != nil {
		return partner.StatusUnknown, err
	}

	resp, err := e.client.GetPurchaseStatus(ctx, statusReq, sandbox)
	if err != nil {
		return partner.StatusUnknown, err
	}
	if !resp.IsOK() {
		e.logger.Warn("status probe for %s answered %d, treating as unknown", ref, resp.Code)
		return partner.StatusUnknown, nil
	}

	decoded := partner.DecodeStatusResponse(resp.Content, statusReq.EncryptKey)
	return decoded.Code(), nil
}
