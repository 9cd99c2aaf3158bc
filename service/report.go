package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"contractlens-backend/models"
)

const summarySystemPrompt = `You are a contract risk analyst writing for a commercial lawyer.
You will receive extracted contract data and per-clause risk findings as JSON.
Respond with a single JSON object and nothing else, with exactly these keys:
- "summary": a 3-6 sentence plain-English overview of the contract and its risk posture
- "key_terms": object with:
    - "parties": list of strings
    - "governing_law": string or null
    - "term_months": integer or null
    - "auto_renewal": boolean or null
    - "headline_risk": the single most important risk, in one sentence
    - "flags": list of short risk flags (strings)

Base every statement on the provided data. Do not invent terms.`

type reportSummary struct {
	Summary  string          `json:"summary"`
	KeyTerms models.KeyTerms `json:"key_terms"`
}

type clauseFinding struct {
	ClauseLabel models.ClauseLabel `json:"clause_label"`
	RiskLevel   models.RiskLevel   `json:"risk_level"`
	Explanation string             `json:"explanation"`
}

func (s *AnalysisService) buildSummary(ctx context.Context, contract *models.ExtractedContract, clauses []models.ClauseReport) (*reportSummary, error) {
	findings := make([]clauseFinding, 0, len(clauses))
	for _, c := range clauses {
		findings = append(findings, clauseFinding{
			ClauseLabel: c.ClauseLabel,
			RiskLevel:   c.RiskLevel,
			Explanation: c.Explanation,
		})
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"contract": contract,
		"findings": findings,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal summary payload: %w", err)
	}

	raw, err := s.generator.GenerateJSON(ctx, summarySystemPrompt, "Summarize this contract analysis:\n\n"+string(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummaryFailed, err)
	}

	var summary reportSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSummaryFailed, err)
	}
	if strings.TrimSpace(summary.Summary) == "" {
		return nil, fmt.Errorf("%w: empty summary", ErrSummaryFailed)
	}

	if summary.KeyTerms.Parties == nil {
		summary.KeyTerms.Parties = contract.Parties
	}
	if summary.KeyTerms.Flags == nil {
		summary.KeyTerms.Flags = []string{}
	}
	return &summary, nil
}
