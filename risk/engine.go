package risk

import (
	"errors"
	"fmt"
	"strings"

	"contractlens-backend/models"
)

var (
	ErrMissingAttributes = errors.New("clause is missing attributes required by its rule table")
	ErrUnknownClauseType = errors.New("no rule table for clause type")
)

// AnalyzedLabels are the clause types backed by a rule table
var AnalyzedLabels = map[models.ClauseLabel]bool{
	models.ClauseLimitationOfLiability: true,
	models.ClauseGoverningLaw:          true,
	models.ClauseTermination:           true,
}

// Engine rates clauses against its playbook using fixed per-type rule tables
type Engine struct {
	playbook Playbook
}

// NewEngine creates an engine for the given playbook
func NewEngine(playbook Playbook) *Engine {
	return &Engine{playbook: playbook}
}

// Playbook returns the playbook the engine evaluates against
func (e *Engine) Playbook() Playbook {
	return e.playbook
}

// rule is one row of a clause-type table. Rows are evaluated in order and
// the first match decides the rating; every table ends in a catch-all row.
type rule struct {
	name        string
	matches     func(e *Engine, c *models.Clause) bool
	level       models.RiskLevel
	explanation func(e *Engine, c *models.Clause) string
	suggestion  func(e *Engine, c *models.Clause) string
}

var ruleTables = map[models.ClauseLabel][]rule{
	models.ClauseLimitationOfLiability: liabilityRules,
	models.ClauseGoverningLaw:          governingLawRules,
	models.ClauseTermination:           terminationRules,
}

// Assess rates a single clause. It fails when the clause type has no rule
// table or the attributes its table depends on are absent; it never guesses
// missing values.
func (e *Engine) Assess(clause *models.Clause) (*models.RiskAssessment, error) {
	table, ok := ruleTables[clause.Label]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClauseType, clause.Label)
	}

	if err := validateAttributes(clause); err != nil {
		return nil, err
	}

	for _, r := range table {
		if !r.matches(e, clause) {
			continue
		}
		return &models.RiskAssessment{
			ClauseLabel:   clause.Label,
			RiskLevel:     r.level,
			Explanation:   r.explanation(e, clause),
			SuggestedText: r.suggestion(e, clause),
		}, nil
	}

	return nil, fmt.Errorf("no rule matched clause %s", clause.Label)
}

// validateAttributes checks that the clause carries the attributes its rule
// table branches on
func validateAttributes(c *models.Clause) error {
	switch c.Label {
	case models.ClauseLimitationOfLiability:
		if c.Attributes == nil || c.Attributes.Capped == nil {
			return fmt.Errorf("%w: %s requires the capped attribute", ErrMissingAttributes, c.Label)
		}
	case models.ClauseGoverningLaw:
		if c.Attributes == nil || strings.TrimSpace(c.Attributes.Jurisdiction) == "" {
			return fmt.Errorf("%w: %s requires the jurisdiction attribute", ErrMissingAttributes, c.Label)
		}
	case models.ClauseTermination:
		if c.Attributes == nil || c.Attributes.ImmediateForConvenience == nil {
			return fmt.Errorf("%w: %s requires the immediate_for_convenience attribute", ErrMissingAttributes, c.Label)
		}
	}
	return nil
}

var liabilityRules = []rule{
	{
		name: "uncapped without required carve-outs",
		matches: func(e *Engine, c *models.Clause) bool {
			return !*c.Attributes.Capped && !hasRequiredCarveOut(e.playbook, c.Attributes.CarveOuts)
		},
		level: models.RiskRed,
		explanation: func(e *Engine, c *models.Clause) string {
			return "Liability is not subject to an effective cap and the clause lacks the customary carve-outs for death or personal injury and fraud."
		},
		suggestion: suggestLiabilityCap,
	},
	{
		name: "uncapped with carve-outs",
		matches: func(e *Engine, c *models.Clause) bool {
			return !*c.Attributes.Capped
		},
		level: models.RiskAmber,
		explanation: func(e *Engine, c *models.Clause) string {
			return "Liability is uncapped. The customary carve-outs are present, but an aggregate cap should still be negotiated."
		},
		suggestion: suggestLiabilityCap,
	},
	{
		name: "cap at or above standard",
		matches: func(e *Engine, c *models.Clause) bool {
			return c.Attributes.CapMonthsFees != nil && *c.Attributes.CapMonthsFees >= e.playbook.StandardCapMonths
		},
		level: models.RiskGreen,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The aggregate cap of %d months of fees meets the %d-month market standard.",
				*c.Attributes.CapMonthsFees, e.playbook.StandardCapMonths)
		},
		suggestion: noSuggestion,
	},
	{
		name: "cap below standard",
		matches: func(e *Engine, c *models.Clause) bool {
			return c.Attributes.CapMonthsFees != nil
		},
		level: models.RiskAmber,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The aggregate cap of %d months of fees is below the %d-month market standard.",
				*c.Attributes.CapMonthsFees, e.playbook.StandardCapMonths)
		},
		suggestion: suggestLiabilityCap,
	},
	{
		name: "default",
		matches: func(e *Engine, c *models.Clause) bool {
			return true
		},
		level: models.RiskAmber,
		explanation: func(e *Engine, c *models.Clause) string {
			return "A liability cap exists but its level could not be quantified against the playbook."
		},
		suggestion: suggestLiabilityCap,
	},
}

var governingLawRules = []rule{
	{
		name: "forbidden jurisdiction",
		matches: func(e *Engine, c *models.Clause) bool {
			return jurisdictionIn(c.Attributes.Jurisdiction, e.playbook.ForbiddenJurisdictions)
		},
		level: models.RiskRed,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The governing law (%s) is on the forbidden list for this playbook.", c.Attributes.Jurisdiction)
		},
		suggestion: suggestGoverningLaw,
	},
	{
		name: "preferred jurisdiction",
		matches: func(e *Engine, c *models.Clause) bool {
			return jurisdictionIn(c.Attributes.Jurisdiction, e.playbook.PreferredJurisdictions)
		},
		level: models.RiskGreen,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The governing law (%s) matches the preferred jurisdictions.", c.Attributes.Jurisdiction)
		},
		suggestion: noSuggestion,
	},
	{
		name: "default",
		matches: func(e *Engine, c *models.Clause) bool {
			return true
		},
		level: models.RiskAmber,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The governing law (%s) is outside the preferred jurisdictions; local-law advice may be needed.", c.Attributes.Jurisdiction)
		},
		suggestion: suggestGoverningLaw,
	},
}

var terminationRules = []rule{
	{
		name: "immediate termination for convenience",
		matches: func(e *Engine, c *models.Clause) bool {
			return *c.Attributes.ImmediateForConvenience
		},
		level: models.RiskRed,
		explanation: func(e *Engine, c *models.Clause) string {
			return "The clause permits termination with immediate effect for any reason, so the counterparty can walk away without notice."
		},
		suggestion: suggestTerminationNotice,
	},
	{
		name: "notice at or above minimum",
		matches: func(e *Engine, c *models.Clause) bool {
			return c.Attributes.NoticeDays != nil && *c.Attributes.NoticeDays >= e.playbook.MinNoticeDays
		},
		level: models.RiskGreen,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The %d-day notice period meets the %d-day minimum.",
				*c.Attributes.NoticeDays, e.playbook.MinNoticeDays)
		},
		suggestion: noSuggestion,
	},
	{
		name: "notice below minimum",
		matches: func(e *Engine, c *models.Clause) bool {
			return c.Attributes.NoticeDays != nil
		},
		level: models.RiskAmber,
		explanation: func(e *Engine, c *models.Clause) string {
			return fmt.Sprintf("The %d-day notice period is below the %d-day minimum.",
				*c.Attributes.NoticeDays, e.playbook.MinNoticeDays)
		},
		suggestion: suggestTerminationNotice,
	},
	{
		name: "default",
		matches: func(e *Engine, c *models.Clause) bool {
			return true
		},
		level: models.RiskAmber,
		explanation: func(e *Engine, c *models.Clause) string {
			return "No notice period could be identified; termination mechanics should be clarified."
		},
		suggestion: suggestTerminationNotice,
	},
}

// hasRequiredCarveOut reports whether any carve-out mentions one of the
// playbook's required carve-out terms
func hasRequiredCarveOut(p Playbook, carveOuts []string) bool {
	for _, carveOut := range carveOuts {
		lower := strings.ToLower(carveOut)
		for _, required := range p.RequiredCarveOuts {
			if strings.Contains(lower, strings.ToLower(required)) {
				return true
			}
		}
	}
	return false
}

// jurisdictionIn reports whether the jurisdiction names any entry of the
// list, comparing case-insensitively and allowing the entry to appear inside
// a longer phrase ("the laws of England and Wales")
func jurisdictionIn(jurisdiction string, list []string) bool {
	j := strings.ToLower(strings.TrimSpace(jurisdiction))
	for _, entry := range list {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e != "" && strings.Contains(j, e) {
			return true
		}
	}
	return false
}

func noSuggestion(e *Engine, c *models.Clause) string {
	return ""
}

func suggestLiabilityCap(e *Engine, c *models.Clause) string {
	return fmt.Sprintf("The Supplier's aggregate liability arising out of or in connection with this Agreement, "+
		"whether in contract, tort (including negligence) or otherwise, shall not exceed an amount equal to the "+
		"Fees paid or payable by the Customer under this Agreement in the %d months immediately preceding the "+
		"event giving rise to the claim. Nothing in this Agreement excludes or limits either party's liability "+
		"for death or personal injury caused by negligence, fraud or fraudulent misrepresentation, or any other "+
		"liability which cannot lawfully be excluded or limited.", e.playbook.StandardCapMonths)
}

func suggestGoverningLaw(e *Engine, c *models.Clause) string {
	if len(e.playbook.PreferredJurisdictions) == 0 {
		return ""
	}
	return fmt.Sprintf("This Agreement and any dispute or claim (including non-contractual disputes or claims) "+
		"arising out of or in connection with it or its subject matter or formation shall be governed by and "+
		"construed in accordance with the laws of %s.", e.playbook.PreferredJurisdictions[0])
}

func suggestTerminationNotice(e *Engine, c *models.Clause) string {
	return fmt.Sprintf("Either party may terminate this Agreement for convenience by giving the other party not "+
		"less than %d days' prior written notice. Either party may terminate this Agreement with immediate effect "+
		"by written notice if the other party commits a material breach which is not remedied (if remediable) "+
		"within %d days after receipt of written notice describing the breach.",
		e.playbook.MinNoticeDays, e.playbook.MinNoticeDays)
}
