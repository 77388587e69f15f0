package outcome

import (
	"fmt"
	"net/http"

	"splitpay/internal/logging"
	"splitpay/internal/partner"
)

var classifierLog = logging.NewDefaultLogger("classifier")

// Classify maps an HTTP status code, and for HTTP 400 the partner's first
// business error code, to one canonical failure cause. Deterministic table
// lookup, no state.
func Classify(httpStatus int, partnerErrorCode string) FailureCause {
	var cause FailureCause
	switch httpStatus {
	case http.StatusUnauthorized, http.StatusForbidden:
		cause = CauseRefused
	case http.StatusNotFound, http.StatusRequestTimeout, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		cause = CauseCommunicationError
	case http.StatusInternalServerError:
		cause = CauseRefused
	case http.StatusBadRequest:
		cause = classifyPartnerError(partnerErrorCode)
	default:
		cause = CausePartnerUnknown
	}
	classifierLog.Warn("partner failure: http %d, canonical cause %s", httpStatus, cause)
	return cause
}

// classifyPartnerError resolves an HTTP 400 by the partner's business error
// code.
func classifyPartnerError(code string) FailureCause {
	switch code {
	case "ERR_01":
		return CauseRefused
	case "ERR_02", "ERR_03":
		return CauseInvalidFieldFormat
	case "ERR_04":
		return CauseInvalidData
	case "ERR_05":
		return CauseRefused
	default:
		return CausePartnerUnknown
	}
}

// ClassifyResponse classifies a non-200 partner response and composes the
// error code surfaced to the caller: "{httpStatus} - {errorCode} - {field}"
// when a business error is present, the bare HTTP status otherwise. Only
// the first error in the partner's list drives the decision; the rest are
// logged.
func ClassifyResponse(resp *partner.Response) (FailureCause, string) {
	errResp := partner.ParseErrorResponse(resp.Content)
	entries := errResp.Errors()
	if len(entries) == 0 {
		return Classify(resp.Code, ""), fmt.Sprintf("%d", resp.Code)
	}

	first := entries[0]
	for _, extra := range entries[1:] {
		classifierLog.Warn("additional partner error: %s on field %s (%s)", extra.ErrorCode, extra.Field, extra.ErrorLabel)
	}

	errorCode := fmt.Sprintf("%d - %s - %s", resp.Code, first.ErrorCode, first.Field)
	return Classify(resp.Code, first.ErrorCode), errorCode
}
