package partner

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"splitpay/internal/config"
	"splitpay/internal/errors"
)

// API paths relative to the partner host. The sandbox environment adds the
// configured path prefix in front.
const (
	purchaseBasePath  = "/payments/v1/purchase"
	confirmPathSuffix = "/action/confirm"
)

// Headers carried on every partner call
const (
	headerAuthorization = "X-Partner-Authorization"
	headerSecret        = "X-Partner-Secret"
	headerCipherMode    = "X-Partner-Cipher"
	contentTypeJSON     = "application/json; charset=UTF-8"

	cipherModeOn  = "Method-body"
	cipherModeOff = "None"
)

// Client issues the three logical partner calls: status fetch, funding
// confirmation and refund/cancel. It holds no per-purchase state and is
// safe for concurrent use.
type Client struct {
	transport *Transport
	cfg       *config.PartnerConfig
}

// NewClient builds a partner client on top of an explicitly constructed
// transport.
func NewClient(transport *Transport, cfg *config.PartnerConfig) *Client {
	return &Client{transport: transport, cfg: cfg}
}

// Config exposes the partner configuration attached to this client.
func (c *Client) Config() *config.PartnerConfig {
	return c.cfg
}

// GetPurchaseStatus fetches the current status of one purchase.
func (c *Client) GetPurchaseStatus(ctx context.Context, req StatusRequest, sandbox bool) (*Response, error) {
	target := c.purchaseURL(req, sandbox)
	return c.transport.Do(ctx, "get_status", http.MethodGet, target, c.headers(), nil)
}

// ConfirmPurchase finalizes funding of a favorable purchase.
func (c *Client) ConfirmPurchase(ctx context.Context, req ConfirmRequest, sandbox bool) (*Response, error) {
	body, err := json.Marshal(req.body())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to marshal confirm request")
	}
	target := c.purchaseURL(req.StatusRequest, sandbox) + confirmPathSuffix
	return c.transport.Do(ctx, "confirm", http.MethodPost, target, c.headers(), body)
}

// CancelPurchase sends a refund/cancel request for one purchase.
func (c *Client) CancelPurchase(ctx context.Context, req RefundRequest, sandbox bool) (*Response, error) {
	body, err := json.Marshal(req.body())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInternal, "failed to marshal refund request")
	}
	target := c.purchaseURL(req.StatusRequest, sandbox)
	return c.transport.Do(ctx, "refund", http.MethodPost, target, c.headers(), body)
}

// purchaseURL builds the purchase path keyed by merchant GUID, PSP GUID and
// purchase reference.
func (c *Client) purchaseURL(req StatusRequest, sandbox bool) string {
	segments := []string{
		url.PathEscape(req.MerchantGUID),
		url.PathEscape(req.PSPGUID),
		url.PathEscape(req.PurchaseReference),
	}
	return c.cfg.BaseURL(sandbox) + c.cfg.PathPrefix(sandbox) + purchaseBasePath + "/" + strings.Join(segments, "/")
}

func (c *Client) headers() http.Header {
	cipherMode := cipherModeOff
	if c.cfg.CipherEnabled {
		cipherMode = cipherModeOn
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentTypeJSON)
	headers.Set(headerAuthorization, c.cfg.APIKey)
	headers.Set(headerCipherMode, cipherMode)
	if c.cfg.APISecret != "" {
		headers.Set(headerSecret, c.cfg.APISecret)
	}
	return headers
}
