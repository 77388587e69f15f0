package reconcile

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitpay/internal/config"
	"splitpay/internal/outcome"
	"splitpay/internal/partner"
	"splitpay/internal/telemetry"
)

// partnerStub scripts the partner API for one test: the status GET answer
// and the confirm POST answer, with call counting.
type partnerStub struct {
	statusCode   int
	statusBody   string
	confirmCode  int
	confirmBody  string
	statusCalls  atomic.Int32
	confirmCalls atomic.Int32
}

func (s *partnerStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/action/confirm") {
			s.confirmCalls.Add(1)
			w.WriteHeader(s.confirmCode)
			_, _ = w.Write([]byte(s.confirmBody))
			return
		}
		s.statusCalls.Add(1)
		w.WriteHeader(s.statusCode)
		_, _ = w.Write([]byte(s.statusBody))
	}
}

func newTestEngine(t *testing.T, stub *partnerStub) *Engine {
	t.Helper()
	server := httptest.NewServer(stub.handler())
	t.Cleanup(server.Close)
	return engineForServer(server)
}

func engineForServer(server *httptest.Server) *Engine {
	cfg := &config.PartnerConfig{
		ProductionURL: server.URL,
		SandboxURL:    server.URL,
		MerchantGUID:  "merchant-guid",
		PSPGUID:       "psp-guid",
		LanguageCode:  "en",
		APIKey:        "api-key",
	}
	transport := partner.NewTransportWithClient(server.Client(), telemetry.NopRecorder{})
	return NewEngine(partner.NewClient(transport, cfg))
}

func statusBody(code, label string) string {
	return `{"purchase":{"status_code":"` + code + `","status_label":"` + label + `"}}`
}

func TestFinalizeSuccessWithoutConfirm(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		captureNow bool
	}{
		{name: "funded", status: "FUNDED"},
		{name: "cancelled", status: "CANCELLED"},
		{name: "to be funded", status: "TO_BE_FUNDED"},
		{name: "favorable without immediate capture", status: "FAVORABLE"},
		{name: "funded with immediate capture", status: "FUNDED", captureNow: true},
		{name: "cancelled with immediate capture", status: "CANCELLED", captureNow: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &partnerStub{statusCode: 200, statusBody: statusBody(tt.status, "Label text")}
			engine := newTestEngine(t, stub)

			o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
				PurchaseReference: "ref-1",
				CaptureNow:        tt.captureNow,
				Amount:            100,
			})

			success, ok := o.(outcome.Success)
			require.True(t, ok, "expected Success, got %#v", o)
			assert.Equal(t, "ref-1", success.TransactionID)
			assert.Equal(t, "200", success.StatusCode)
			assert.Equal(t, "Label text", success.Message)
			assert.Contains(t, success.AdditionalData, tt.status)
			assert.Equal(t, int32(0), stub.confirmCalls.Load(), "confirm must not be called")
		})
	}
}

func TestFinalizeSuccessMessageDefaultsToOK(t *testing.T) {
	stub := &partnerStub{statusCode: 200, statusBody: `{"purchase":{"status_code":"FUNDED"}}`}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{PurchaseReference: "ref-1"})

	success, ok := o.(outcome.Success)
	require.True(t, ok)
	assert.Equal(t, "OK", success.Message)
}

func TestFinalizePendingAlwaysOnHold(t *testing.T) {
	for _, captureNow := range []bool{false, true} {
		stub := &partnerStub{statusCode: 200, statusBody: statusBody("PENDING", "Scoring in progress")}
		engine := newTestEngine(t, stub)

		o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
			PurchaseReference: "ref-1",
			CaptureNow:        captureNow,
			Amount:            100,
		})

		onHold, ok := o.(outcome.OnHold)
		require.True(t, ok, "captureNow=%v: expected OnHold, got %#v", captureNow, o)
		assert.Equal(t, outcome.ScoringAsync, onHold.Cause)
		assert.Equal(t, "ref-1", onHold.TransactionID)
		assert.Equal(t, int32(0), stub.confirmCalls.Load())
	}
}

func TestFinalizeRefusedAndAborted(t *testing.T) {
	tests := []struct {
		status    string
		wantCause outcome.FailureCause
		wantCode  string
	}{
		{status: "REFUSED", wantCause: outcome.CauseRefused, wantCode: "Purchase status : REFUSED"},
		{status: "ABORTED", wantCause: outcome.CauseCancel, wantCode: "Purchase status : ABORTED"},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			stub := &partnerStub{statusCode: 200, statusBody: statusBody(tt.status, "")}
			engine := newTestEngine(t, stub)

			o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{PurchaseReference: "ref-1"})

			failure, ok := o.(outcome.Failure)
			require.True(t, ok)
			assert.Equal(t, tt.wantCause, failure.Cause)
			assert.Equal(t, tt.wantCode, failure.ErrorCode)
		})
	}
}

func TestFinalizeFavorableWithCaptureConfirms(t *testing.T) {
	stub := &partnerStub{
		statusCode:  200,
		statusBody:  statusBody("FAVORABLE", "Favorable"),
		confirmCode: 200,
		confirmBody: statusBody("FUNDED", "Funded"),
	}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
		PurchaseReference: "ref-1",
		CaptureNow:        true,
		Amount:            250,
	})

	success, ok := o.(outcome.Success)
	require.True(t, ok, "expected Success, got %#v", o)
	assert.Equal(t, "Funded", success.Message)
	assert.Equal(t, int32(1), stub.confirmCalls.Load(), "exactly one confirm call")
}

func TestConfirmResponseNotFundedFails(t *testing.T) {
	stub := &partnerStub{
		statusCode:  200,
		statusBody:  statusBody("FAVORABLE", ""),
		confirmCode: 200,
		confirmBody: statusBody("REFUSED", ""),
	}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
		PurchaseReference: "ref-1",
		CaptureNow:        true,
		Amount:            250,
	})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok)
	assert.Equal(t, outcome.CauseRefused, failure.Cause)
	assert.Equal(t, int32(1), stub.confirmCalls.Load())
}

func TestStatusFetch404NoConfirm(t *testing.T) {
	// Scenario: the partner answers 404 on the status fetch
	stub := &partnerStub{statusCode: 404, statusBody: ""}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
		PurchaseReference: "ref-1",
		CaptureNow:        true,
		Amount:            100,
	})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok)
	assert.Equal(t, outcome.CauseCommunicationError, failure.Cause)
	assert.Equal(t, "404", failure.ErrorCode)
	assert.Equal(t, int32(0), stub.confirmCalls.Load())
}

func TestConfirmBusinessErrorClassified(t *testing.T) {
	// Scenario: favorable purchase, confirm rejected with a business error
	stub := &partnerStub{
		statusCode:  200,
		statusBody:  statusBody("FAVORABLE", ""),
		confirmCode: 400,
		confirmBody: `{"Payments_Error_Response":{"errors_list":[{"field":"Merchant_request_id","error_code":"ERR_04"}]}}`,
	}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
		PurchaseReference: "ref-1",
		CaptureNow:        true,
		Amount:            100,
	})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok)
	assert.Equal(t, outcome.CauseInvalidData, failure.Cause)
	assert.Equal(t, "400 - ERR_04 - Merchant_request_id", failure.ErrorCode)
}

func TestUndecodableStatusBody(t *testing.T) {
	// Scenario: 200 with a body that parses into neither supported shape
	stub := &partnerStub{statusCode: 200, statusBody: "[]"}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{PurchaseReference: "ref-1"})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok)
	assert.Equal(t, outcome.CauseCommunicationError, failure.Cause)
	assert.Equal(t, "no purchase status", failure.ErrorCode)
}

func TestConfirmResponseWithoutStatus(t *testing.T) {
	stub := &partnerStub{
		statusCode:  200,
		statusBody:  statusBody("FAVORABLE", ""),
		confirmCode: 200,
		confirmBody: "{}",
	}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{
		PurchaseReference: "ref-1",
		CaptureNow:        true,
		Amount:            100,
	})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok)
	assert.Equal(t, outcome.CauseRefused, failure.Cause)
	assert.Equal(t, "no purchase status", failure.ErrorCode)
}

func TestUnexpectedStatusCode(t *testing.T) {
	stub := &partnerStub{statusCode: 200, statusBody: statusBody("SOMETHING_NEW", "")}
	engine := newTestEngine(t, stub)

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{PurchaseReference: "ref-1"})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok)
	assert.Equal(t, outcome.CausePartnerUnknown, failure.Cause)
	assert.Equal(t, "Unexpected purchase status: SOMETHING_NEW", failure.ErrorCode)
}

func TestTransportFailureNeverEscapes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	engine := engineForServer(server)
	server.Close() // every attempt now fails at the connection level

	o := engine.FinalizeRedirect(context.Background(), FinalizeRequest{PurchaseReference: "ref-1"})

	failure, ok := o.(outcome.Failure)
	require.True(t, ok, "technical errors must resolve to a Failure outcome")
	assert.Equal(t, outcome.CauseCommunicationError, failure.Cause)
	assert.NotEmpty(t, failure.ErrorCode)
}

func TestCaptureForcesConfirmation(t *testing.T) {
	stub := &partnerStub{
		statusCode:  200,
		statusBody:  statusBody("FAVORABLE", ""),
		confirmCode: 200,
		confirmBody: statusBody("FUNDED", ""),
	}
	engine := newTestEngine(t, stub)

	o := engine.Capture(context.Background(), CaptureRequest{
		PurchaseReference: "ref-1",
		Amount:            500,
	})

	_, ok := o.(outcome.Success)
	require.True(t, ok)
	assert.Equal(t, int32(1), stub.confirmCalls.Load())
}

func TestCaptureOfFundedPurchaseSkipsConfirm(t *testing.T) {
	stub := &partnerStub{statusCode: 200, statusBody: statusBody("FUNDED", "")}
	engine := newTestEngine(t, stub)

	o := engine.Capture(context.Background(), CaptureRequest{
		PurchaseReference: "ref-1",
		Amount:            500,
	})

	_, ok := o.(outcome.Success)
	require.True(t, ok)
	assert.Equal(t, int32(0), stub.confirmCalls.Load())
}

func TestResolveExpiredSessionMirrorsFinalize(t *testing.T) {
	stub := &partnerStub{
		statusCode:  200,
		statusBody:  statusBody("FAVORABLE", ""),
		confirmCode: 200,
		confirmBody: statusBody("FUNDED", ""),
	}
	engine := newTestEngine(t, stub)

	o := engine.ResolveExpiredSession(context.Background(), FinalizeRequest{
		PurchaseReference: "ref-1",
		CaptureNow:        true,
		Amount:            100,
	})

	_, ok := o.(outcome.Success)
	require.True(t, ok)
	assert.Equal(t, int32(1), stub.confirmCalls.Load())
}

func TestResolveBatchKeepsInputOrder(t *testing.T) {
	stub := &partnerStub{statusCode: 200, statusBody: statusBody("FUNDED", "")}
	engine := newTestEngine(t, stub)

	refs := []string{"ref-1", "ref-2", "ref-3", "ref-4", "ref-5"}
	results := engine.ResolveBatch(context.Background(), refs, false, 2)

	require.Len(t, results, len(refs))
	for i, r := range results {
		assert.Equal(t, refs[i], r.Reference)
		_, ok := r.Outcome.(outcome.Success)
		assert.True(t, ok)
	}
	assert.Equal(t, int32(len(refs)), stub.statusCalls.Load())
}
