package models

// ContractType represents the commercial category of a contract
type ContractType string

const (
	ContractTypeSaaS       ContractType = "saas"
	ContractTypeServices   ContractType = "services"
	ContractTypeEmployment ContractType = "employment"
)

// IsValid reports whether the contract type is one of the supported categories
func (t ContractType) IsValid() bool {
	switch t {
	case ContractTypeSaaS, ContractTypeServices, ContractTypeEmployment:
		return true
	}
	return false
}

// RiskProfile represents the reviewing party's appetite for contractual risk
type RiskProfile string

const (
	RiskProfileConservative RiskProfile = "conservative"
	RiskProfileBalanced     RiskProfile = "balanced"
	RiskProfileAggressive   RiskProfile = "aggressive"
)

// IsValid reports whether the risk profile is one of the supported values
func (p RiskProfile) IsValid() bool {
	switch p {
	case RiskProfileConservative, RiskProfileBalanced, RiskProfileAggressive:
		return true
	}
	return false
}

// ClauseLabel identifies the recognized clause categories
type ClauseLabel string

const (
	ClauseLimitationOfLiability ClauseLabel = "limitation_of_liability"
	ClauseTermination           ClauseLabel = "termination"
	ClauseGoverningLaw          ClauseLabel = "governing_law"
	ClauseIP                    ClauseLabel = "ip"
	ClauseOther                 ClauseLabel = "other"
)

// IsValid reports whether the label is one of the recognized clause categories
func (l ClauseLabel) IsValid() bool {
	switch l {
	case ClauseLimitationOfLiability, ClauseTermination, ClauseGoverningLaw, ClauseIP, ClauseOther:
		return true
	}
	return false
}

// ClauseAttributes carries the structured facts the extraction model reports
// about a clause. Fields are populated per clause label; pointers distinguish
// "stated false" from "not reported".
type ClauseAttributes struct {
	// Limitation of liability
	Capped        *bool    `json:"capped,omitempty"`
	CapMonthsFees *int     `json:"cap_months_fees,omitempty"`
	CarveOuts     []string `json:"carve_outs,omitempty"`

	// Termination
	NoticeDays              *int  `json:"notice_days,omitempty"`
	ImmediateForConvenience *bool `json:"immediate_for_convenience,omitempty"`

	// Governing law
	Jurisdiction string `json:"jurisdiction,omitempty"`
}

// Clause represents a single extracted contract provision
type Clause struct {
	Label      ClauseLabel       `json:"label"`
	RawText    string            `json:"raw_text"`
	StartChar  *int              `json:"start_char,omitempty"`
	EndChar    *int              `json:"end_char,omitempty"`
	Attributes *ClauseAttributes `json:"attributes,omitempty"`
}

// ExtractedContract is the structured view of a contract returned by the
// extraction model
type ExtractedContract struct {
	Parties       []string `json:"parties"`
	EffectiveDate *string  `json:"effective_date"`
	TermMonths    *int     `json:"term_months"`
	AutoRenewal   *bool    `json:"auto_renewal"`
	GoverningLaw  *string  `json:"governing_law"`
	ContractType  *string  `json:"contract_type"`
	Clauses       []Clause `json:"clauses"`
}
