package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"contractlens-backend/models"
)

// maxPromptChars bounds how much contract text is sent to the model in a
// single extraction call.
const maxPromptChars = 15000

const extractionSystemPrompt = `You are a contract analysis engine. Extract structured data from the
contract text you are given. Respond with a single JSON object and nothing else.

The JSON object must have exactly these keys:
- "parties": list of party names (strings)
- "effective_date": ISO date string or null
- "term_months": integer or null
- "auto_renewal": boolean or null
- "governing_law": string or null
- "contract_type": one of "saas", "services", "employment" or null
- "clauses": list of objects, each with:
    - "label": one of "limitation_of_liability", "termination", "governing_law", "ip", "other"
    - "raw_text": the verbatim clause text
    - "start_char": integer offset into the contract or null
    - "end_char": integer offset into the contract or null
    - "attributes": object or null, with:
        - "capped": boolean or null, whether liability is capped
        - "cap_months_fees": integer or null, the cap expressed in months of fees
        - "carve_outs": list of strings, liabilities excluded from the cap
        - "notice_days": integer or null, the termination notice period in days
        - "immediate_for_convenience": boolean or null, whether either party may terminate for convenience without notice
        - "jurisdiction": string or null, the governing law jurisdiction

Rules:
- Copy clause text verbatim into raw_text.
- Fill attributes only from what the clause actually says; use null for anything not stated.
- Use null when a value is not present in the contract.
- Never invent parties, dates, or terms.`

func (s *AnalysisService) extractContract(ctx context.Context, text string) (*models.ExtractedContract, error) {
	raw, err := s.generator.GenerateJSON(ctx, extractionSystemPrompt, buildExtractionPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	return parseExtractedContract(raw)
}

func buildExtractionPrompt(text string) string {
	if len(text) > maxPromptChars {
		cut := maxPromptChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return fmt.Sprintf("Extract the structured data from this contract:\n\n<contract>\n%s\n</contract>", text)
}

func parseExtractedContract(raw []byte) (*models.ExtractedContract, error) {
	var contract models.ExtractedContract
	if err := json.Unmarshal(raw, &contract); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtraction, err)
	}
	if contract.Parties == nil {
		return nil, fmt.Errorf("%w: missing parties", ErrInvalidExtraction)
	}
	if contract.Clauses == nil {
		return nil, fmt.Errorf("%w: missing clauses", ErrInvalidExtraction)
	}
	for i := range contract.Clauses {
		clause := &contract.Clauses[i]
		if !clause.Label.IsValid() {
			return nil, fmt.Errorf("%w: clause %d has unrecognized label %q", ErrInvalidExtraction, i, clause.Label)
		}
		if strings.TrimSpace(clause.RawText) == "" {
			return nil, fmt.Errorf("%w: clause %d has no raw_text", ErrInvalidExtraction, i)
		}
	}
	return &contract, nil
}
