package partner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"splitpay/internal/telemetry"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cipher bool) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.ProductionURL = server.URL
	cfg.SandboxURL = server.URL
	cfg.SandboxPathPrefix = "/staging"
	cfg.CipherEnabled = cipher

	transport := NewTransportWithClient(server.Client(), telemetry.NopRecorder{})
	return NewClient(transport, cfg), server
}

func TestGetPurchaseStatusPath(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}, false)

	req, err := NewStatusRequest(client.Config(), "455454545415451198a")
	require.NoError(t, err)

	_, err = client.GetPurchaseStatus(context.Background(), req, false)
	require.NoError(t, err)

	assert.Equal(t,
		"/payments/v1/purchase/9813e3ff-c365-43f2-8dca-94b850befbf9/6ba2a5e2-df17-4ad7-8406-6a9fc488a60a/455454545415451198a",
		gotPath)
}

func TestSandboxPathPrefix(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}, false)

	req, err := NewStatusRequest(client.Config(), "ref-1")
	require.NoError(t, err)

	_, err = client.GetPurchaseStatus(context.Background(), req, true)
	require.NoError(t, err)

	assert.Equal(t, "/staging/payments/v1/purchase/9813e3ff-c365-43f2-8dca-94b850befbf9/6ba2a5e2-df17-4ad7-8406-6a9fc488a60a/ref-1", gotPath)
}

func TestConfirmPurchasePathAndBody(t *testing.T) {
	var (
		gotPath   string
		gotMethod string
		gotBody   map[string]any
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}, false)

	req, err := NewConfirmRequest(client.Config(), "ref-1", 150.0)
	require.NoError(t, err)

	_, err = client.ConfirmPurchase(context.Background(), req, false)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t,
		"/payments/v1/purchase/9813e3ff-c365-43f2-8dca-94b850befbf9/6ba2a5e2-df17-4ad7-8406-6a9fc488a60a/ref-1/action/confirm",
		gotPath)
	assert.Equal(t, "ref-1", gotBody["reference"])
	assert.Equal(t, "fr", gotBody["language_code"])
	assert.NotEmpty(t, gotBody["merchant_request_id"])
	payment, ok := gotBody["payment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 150.0, payment["payment_amount"])
}

func TestCancelPurchaseBody(t *testing.T) {
	var (
		gotPath string
		gotBody map[string]any
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}, false)

	cancel := PurchaseCancel{ReasonCode: ReasonFraud, Amount: 99.0, RefundFlag: true}
	req, err := NewRefundRequest(client.Config(), "ref-9", cancel)
	require.NoError(t, err)

	_, err = client.CancelPurchase(context.Background(), req, false)
	require.NoError(t, err)

	assert.Equal(t,
		"/payments/v1/purchase/9813e3ff-c365-43f2-8dca-94b850befbf9/6ba2a5e2-df17-4ad7-8406-6a9fc488a60a/ref-9",
		gotPath)
	purchase, ok := gotBody["purchase"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(ReasonFraud), purchase["cancellation_reason_code"])
	assert.Equal(t, 99.0, purchase["cancellation_amount"])
	assert.Equal(t, true, purchase["refund_down_payment"])
}

func TestRequestHeaders(t *testing.T) {
	tests := []struct {
		name          string
		cipher        bool
		wantCipherHdr string
	}{
		{name: "cipher on", cipher: true, wantCipherHdr: "Method-body"},
		{name: "cipher off", cipher: false, wantCipherHdr: "None"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHeaders http.Header
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				gotHeaders = r.Header.Clone()
				w.WriteHeader(http.StatusOK)
			}, tt.cipher)

			req, err := NewStatusRequest(client.Config(), "ref-1")
			require.NoError(t, err)

			_, err = client.GetPurchaseStatus(context.Background(), req, false)
			require.NoError(t, err)

			assert.Equal(t, "api-key", gotHeaders.Get("X-Partner-Authorization"))
			assert.Equal(t, tt.wantCipherHdr, gotHeaders.Get("X-Partner-Cipher"))
			assert.Equal(t, "application/json; charset=UTF-8", gotHeaders.Get("Content-Type"))
		})
	}
}
