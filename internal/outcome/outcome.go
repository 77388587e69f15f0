package outcome

// FailureCause is the closed set of outcome classifications the host
// platform understands. Every partner-specific code is reduced to one of
// these before it reaches the caller.
type FailureCause string

const (
	CauseCommunicationError FailureCause = "COMMUNICATION_ERROR"
	CauseRefused            FailureCause = "REFUSED"
	CauseCancel             FailureCause = "CANCEL"
	CauseInvalidData        FailureCause = "INVALID_DATA"
	CauseInvalidFieldFormat FailureCause = "INVALID_FIELD_FORMAT"
	CausePartnerUnknown     FailureCause = "PARTNER_UNKNOWN_ERROR"
	CauseInternalError      FailureCause = "INTERNAL_ERROR"
)

// OnHoldCause explains why an invocation is parked rather than resolved
type OnHoldCause string

// ScoringAsync marks a purchase still pending the partner's asynchronous
// scoring decision.
const ScoringAsync OnHoldCause = "SCORING_ASYNC"

// Outcome is the tagged result of one engine invocation. Exactly one of
// Success, OnHold or Failure is produced per invocation.
type Outcome interface {
	// PartnerTransactionID correlates the outcome with the partner-side
	// purchase record.
	PartnerTransactionID() string

	sealed()
}

// Success reports a resolved, accepted operation.
type Success struct {
	TransactionID  string
	StatusCode     string
	Message        string
	AdditionalData string
}

func (s Success) PartnerTransactionID() string { return s.TransactionID }
func (Success) sealed()                        {}

// OnHold reports an operation parked on asynchronous buyer/partner action.
type OnHold struct {
	TransactionID string
	Cause         OnHoldCause
}

func (o OnHold) PartnerTransactionID() string { return o.TransactionID }
func (OnHold) sealed()                        {}

// Failure reports a classified, terminal failure.
type Failure struct {
	TransactionID string
	ErrorCode     string
	Cause         FailureCause
}

func (f Failure) PartnerTransactionID() string { return f.TransactionID }
func (Failure) sealed()                        {}

// NewFailure builds a failure outcome
func NewFailure(transactionID, errorCode string, cause FailureCause) Failure {
	return Failure{
		TransactionID: transactionID,
		ErrorCode:     errorCode,
		Cause:         cause,
	}
}
