package models

// PrecedentMatch is a precedent clause returned by the vector store for a
// similarity query, with the search score attached
type PrecedentMatch struct {
	ID           string  `json:"id"`
	Score        float32 `json:"score"`
	ClauseType   string  `json:"clause_type"`
	ContractType string  `json:"contract_type,omitempty"`
	RiskLevel    string  `json:"risk_level,omitempty"`
	Jurisdiction string  `json:"jurisdiction,omitempty"`
	Text         string  `json:"text"`
}
