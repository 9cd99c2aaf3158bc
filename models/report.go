package models

import "time"

// RiskLevel is the traffic-light rating assigned to a clause
type RiskLevel string

const (
	RiskGreen RiskLevel = "GREEN"
	RiskAmber RiskLevel = "AMBER"
	RiskRed   RiskLevel = "RED"
)

// RiskAssessment is the rule engine's verdict for a single clause
type RiskAssessment struct {
	ClauseLabel   ClauseLabel `json:"clause_label"`
	RiskLevel     RiskLevel   `json:"risk_level"`
	Explanation   string      `json:"explanation"`
	SuggestedText string      `json:"suggested_text"`
}

// ClauseReport combines a clause's risk assessment with the precedents
// retrieved for it
type ClauseReport struct {
	ClauseLabel   ClauseLabel      `json:"clause_label"`
	RiskLevel     RiskLevel        `json:"risk_level"`
	Explanation   string           `json:"explanation"`
	SuggestedText string           `json:"suggested_text"`
	Precedents    []PrecedentMatch `json:"precedents"`
}

// KeyTerms is the summary model's condensed view of the headline terms
type KeyTerms struct {
	Parties      []string `json:"parties"`
	GoverningLaw string   `json:"governing_law,omitempty"`
	TermMonths   *int     `json:"term_months,omitempty"`
	AutoRenewal  *bool    `json:"auto_renewal,omitempty"`
	HeadlineRisk string   `json:"headline_risk,omitempty"`
	Flags        []string `json:"flags"`
}

// AnalysisReport is the full result of analyzing one uploaded contract
type AnalysisReport struct {
	ReportID     string            `json:"report_id"`
	ContractType ContractType      `json:"contract_type"`
	RiskProfile  RiskProfile       `json:"risk_profile"`
	Summary      string            `json:"summary"`
	KeyTerms     KeyTerms          `json:"key_terms"`
	Contract     ExtractedContract `json:"contract"`
	Clauses      []ClauseReport    `json:"clauses"`
	GeneratedAt  time.Time         `json:"generated_at"`
}
