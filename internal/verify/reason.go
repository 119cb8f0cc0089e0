package verify

// Reason identifies which check rejected a submission.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissingFields
	ReasonTitleTooShort
	ReasonCompanyTooShort
	ReasonInappropriateContent
	ReasonUnrealisticPayClaim
	ReasonUnrealisticPayAmount
	ReasonLocationTooVague
)

var reasonCodes = map[Reason]string{
	ReasonNone:                 "",
	ReasonMissingFields:        "missing_fields",
	ReasonTitleTooShort:        "title_too_short",
	ReasonCompanyTooShort:      "company_too_short",
	ReasonInappropriateContent: "inappropriate_content",
	ReasonUnrealisticPayClaim:  "unrealistic_pay_claim",
	ReasonUnrealisticPayAmount: "unrealistic_pay_amount",
	ReasonLocationTooVague:     "location_too_vague",
}

var reasonMessages = map[Reason]string{
	ReasonMissingFields:        "Missing required fields",
	ReasonTitleTooShort:        "Job title is too short",
	ReasonCompanyTooShort:      "Company name is too short",
	ReasonInappropriateContent: "Job listing contains inappropriate content",
	ReasonUnrealisticPayClaim:  "Pay information appears unrealistic",
	ReasonUnrealisticPayAmount: "Pay amount appears unrealistic",
	ReasonLocationTooVague:     "Location information is too vague",
}

// String returns the machine-readable code, e.g. "title_too_short".
func (r Reason) String() string {
	return reasonCodes[r]
}

// Message returns the user-facing text for the reason.
func (r Reason) Message() string {
	return reasonMessages[r]
}

// MarshalText encodes the reason as its stable code, e.g. "title_too_short".
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Result is the outcome of a verification run.
type Result struct {
	Passed bool   `json:"passed"`
	Reason Reason `json:"reason,omitempty"`
}
