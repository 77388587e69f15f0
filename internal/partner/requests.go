package partner

import (
	"github.com/google/uuid"

	"splitpay/internal/config"
	"splitpay/internal/errors"
)

// Cancellation reason codes carried by the refund envelope
const (
	ReasonCancellation = 0
	ReasonFraud        = 1
)

// StatusRequest identifies one purchase for a status fetch.
type StatusRequest struct {
	MerchantGUID      string
	PSPGUID           string
	PurchaseReference string
	EncryptKey        string
}

// NewStatusRequest builds a status request envelope for the given purchase
// reference.
func NewStatusRequest(cfg *config.PartnerConfig, purchaseReference string) (StatusRequest, error) {
	req := StatusRequest{
		MerchantGUID:      cfg.MerchantGUID,
		PSPGUID:           cfg.PSPGUID,
		PurchaseReference: purchaseReference,
		EncryptKey:        cfg.EncryptKey,
	}
	if err := req.validate(); err != nil {
		return StatusRequest{}, err
	}
	return req, nil
}

func (r StatusRequest) validate() error {
	switch {
	case r.MerchantGUID == "":
		return errors.Validation("status request must have a merchant GUID")
	case r.PSPGUID == "":
		return errors.Validation("status request must have a PSP GUID")
	case r.PurchaseReference == "":
		return errors.Validation("status request must have a purchase reference")
	}
	return nil
}

// ConfirmRequest finalizes funding of a favorable purchase.
type ConfirmRequest struct {
	StatusRequest

	LanguageCode      string
	MerchantRequestID string
	Amount            float64
}

// confirmBody is the wire shape of the confirmation call
type confirmBody struct {
	Reference         string      `json:"reference"`
	LanguageCode      string      `json:"language_code"`
	MerchantRequestID string      `json:"merchant_request_id"`
	Payment           paymentData `json:"payment"`
}

type paymentData struct {
	Amount float64 `json:"payment_amount"`
}

// NewConfirmRequest builds a confirmation envelope. The merchant request id
// is generated fresh per call for partner-side correlation.
func NewConfirmRequest(cfg *config.PartnerConfig, purchaseReference string, amount float64) (ConfirmRequest, error) {
	status, err := NewStatusRequest(cfg, purchaseReference)
	if err != nil {
		return ConfirmRequest{}, err
	}
	if amount <= 0 {
		return ConfirmRequest{}, errors.Validation("confirm request must have a positive amount")
	}
	return ConfirmRequest{
		StatusRequest:     status,
		LanguageCode:      cfg.LanguageCode,
		MerchantRequestID: generateMerchantRequestID(cfg.MerchantGUID),
		Amount:            amount,
	}, nil
}

func (r ConfirmRequest) body() confirmBody {
	return confirmBody{
		Reference:         r.PurchaseReference,
		LanguageCode:      r.LanguageCode,
		MerchantRequestID: r.MerchantRequestID,
		Payment:           paymentData{Amount: r.Amount},
	}
}

// PurchaseCancel carries the cancellation decision for a refund call.
// The refund flag is true only when the purchase was already funded and the
// cancellation therefore requires a monetary refund.
type PurchaseCancel struct {
	ReasonCode int     `json:"cancellation_reason_code"`
	Amount     float64 `json:"cancellation_amount"`
	RefundFlag bool    `json:"refund_down_payment"`
}

// RefundRequest cancels or refunds a purchase.
type RefundRequest struct {
	StatusRequest

	LanguageCode      string
	MerchantRequestID string
	Purchase          PurchaseCancel
}

type refundBody struct {
	Reference         string         `json:"reference"`
	LanguageCode      string         `json:"language_code"`
	MerchantRequestID string         `json:"merchant_request_id"`
	Purchase          PurchaseCancel `json:"purchase"`
}

// NewRefundRequest builds a refund/cancel envelope.
func NewRefundRequest(cfg *config.PartnerConfig, purchaseReference string, cancel PurchaseCancel) (RefundRequest, error) {
	status, err := NewStatusRequest(cfg, purchaseReference)
	if err != nil {
		return RefundRequest{}, err
	}
	if cancel.ReasonCode != ReasonCancellation && cancel.ReasonCode != ReasonFraud {
		return RefundRequest{}, errors.Validation("refund request must have a valid cancellation reason code")
	}
	if cancel.Amount <= 0 {
		return RefundRequest{}, errors.Validation("refund request must have a positive cancellation amount")
	}
	return RefundRequest{
		StatusRequest:     status,
		LanguageCode:      cfg.LanguageCode,
		MerchantRequestID: generateMerchantRequestID(cfg.MerchantGUID),
		Purchase:          cancel,
	}, nil
}

func (r RefundRequest) body() refundBody {
	return refundBody{
		Reference:         r.PurchaseReference,
		LanguageCode:      r.LanguageCode,
		MerchantRequestID: r.MerchantRequestID,
		Purchase:          r.Purchase,
	}
}

func generateMerchantRequestID(merchantGUID string) string {
	return merchantGUID + "-" + uuid.NewString()
}
