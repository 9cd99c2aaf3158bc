package risk

// Playbook holds the review positions the rule tables evaluate clauses
// against. Values reflect a customer-side review of supplier paper.
type Playbook struct {
	// StandardCapMonths is the liability cap, in months of fees, treated as
	// market standard. Caps at or above it pass; smaller caps are flagged.
	StandardCapMonths int

	// RequiredCarveOuts are the liabilities that must be carved out of any
	// cap or exclusion. Matching is case-insensitive substring containment.
	RequiredCarveOuts []string

	// MinNoticeDays is the shortest acceptable termination notice period.
	MinNoticeDays int

	PreferredJurisdictions []string
	ForbiddenJurisdictions []string
}

// DefaultPlaybook returns the standard review positions
func DefaultPlaybook() Playbook {
	return Playbook{
		StandardCapMonths:      12,
		RequiredCarveOuts:      []string{"death", "personal injury", "fraud"},
		MinNoticeDays:          30,
		PreferredJurisdictions: []string{"England and Wales"},
	}
}
