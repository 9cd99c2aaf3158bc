package risk

import (
	"errors"
	"strings"
	"testing"

	"contractlens-backend/models"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func liabilityClause(attrs *models.ClauseAttributes) *models.Clause {
	return &models.Clause{
		Label:      models.ClauseLimitationOfLiability,
		RawText:    "The Supplier's liability shall be as set out in this clause.",
		Attributes: attrs,
	}
}

func TestAssessLiability(t *testing.T) {
	engine := NewEngine(DefaultPlaybook())

	tests := []struct {
		name  string
		attrs *models.ClauseAttributes
		want  models.RiskLevel
	}{
		{
			name:  "uncapped with no carve-outs",
			attrs: &models.ClauseAttributes{Capped: boolPtr(false)},
			want:  models.RiskRed,
		},
		{
			name: "uncapped with irrelevant carve-outs",
			attrs: &models.ClauseAttributes{
				Capped:    boolPtr(false),
				CarveOuts: []string{"gross negligence", "wilful misconduct"},
			},
			want: models.RiskRed,
		},
		{
			name: "uncapped with death carve-out",
			attrs: &models.ClauseAttributes{
				Capped:    boolPtr(false),
				CarveOuts: []string{"death or personal injury caused by negligence"},
			},
			want: models.RiskAmber,
		},
		{
			name: "uncapped with fraud carve-out",
			attrs: &models.ClauseAttributes{
				Capped:    boolPtr(false),
				CarveOuts: []string{"fraud or fraudulent misrepresentation"},
			},
			want: models.RiskAmber,
		},
		{
			name: "cap at market standard",
			attrs: &models.ClauseAttributes{
				Capped:        boolPtr(true),
				CapMonthsFees: intPtr(12),
			},
			want: models.RiskGreen,
		},
		{
			name: "cap above market standard",
			attrs: &models.ClauseAttributes{
				Capped:        boolPtr(true),
				CapMonthsFees: intPtr(24),
			},
			want: models.RiskGreen,
		},
		{
			name: "cap below market standard",
			attrs: &models.ClauseAttributes{
				Capped:        boolPtr(true),
				CapMonthsFees: intPtr(6),
			},
			want: models.RiskAmber,
		},
		{
			name:  "cap present but unquantified",
			attrs: &models.ClauseAttributes{Capped: boolPtr(true)},
			want:  models.RiskAmber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assessment, err := engine.Assess(liabilityClause(tt.attrs))
			if err != nil {
				t.Fatalf("Assess() returned error: %v", err)
			}
			if assessment.RiskLevel != tt.want {
				t.Errorf("Assess() = %s, want %s", assessment.RiskLevel, tt.want)
			}
			if assessment.ClauseLabel != models.ClauseLimitationOfLiability {
				t.Errorf("unexpected clause label: %s", assessment.ClauseLabel)
			}
			if assessment.Explanation == "" {
				t.Error("expected a non-empty explanation")
			}
		})
	}
}

func TestAssessGoverningLaw(t *testing.T) {
	playbook := DefaultPlaybook()
	playbook.ForbiddenJurisdictions = []string{"Ruritania"}
	engine := NewEngine(playbook)

	tests := []struct {
		name         string
		jurisdiction string
		want         models.RiskLevel
	}{
		{"preferred exact", "England and Wales", models.RiskGreen},
		{"preferred inside longer phrase", "the laws of England and Wales", models.RiskGreen},
		{"preferred case-insensitive", "ENGLAND AND WALES", models.RiskGreen},
		{"outside preferred", "New York", models.RiskAmber},
		{"outside preferred foreign", "Singapore", models.RiskAmber},
		{"forbidden", "Ruritania", models.RiskRed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := &models.Clause{
				Label:      models.ClauseGoverningLaw,
				RawText:    "This Agreement shall be governed by the stated law.",
				Attributes: &models.ClauseAttributes{Jurisdiction: tt.jurisdiction},
			}

			assessment, err := engine.Assess(clause)
			if err != nil {
				t.Fatalf("Assess() returned error: %v", err)
			}
			if assessment.RiskLevel != tt.want {
				t.Errorf("Assess(%q) = %s, want %s", tt.jurisdiction, assessment.RiskLevel, tt.want)
			}
		})
	}
}

func TestAssessTermination(t *testing.T) {
	engine := NewEngine(DefaultPlaybook())

	tests := []struct {
		name  string
		attrs *models.ClauseAttributes
		want  models.RiskLevel
	}{
		{
			name:  "immediate for convenience",
			attrs: &models.ClauseAttributes{ImmediateForConvenience: boolPtr(true)},
			want:  models.RiskRed,
		},
		{
			name: "notice at minimum",
			attrs: &models.ClauseAttributes{
				ImmediateForConvenience: boolPtr(false),
				NoticeDays:              intPtr(30),
			},
			want: models.RiskGreen,
		},
		{
			name: "notice above minimum",
			attrs: &models.ClauseAttributes{
				ImmediateForConvenience: boolPtr(false),
				NoticeDays:              intPtr(90),
			},
			want: models.RiskGreen,
		},
		{
			name: "notice below minimum",
			attrs: &models.ClauseAttributes{
				ImmediateForConvenience: boolPtr(false),
				NoticeDays:              intPtr(14),
			},
			want: models.RiskAmber,
		},
		{
			name:  "no notice period identified",
			attrs: &models.ClauseAttributes{ImmediateForConvenience: boolPtr(false)},
			want:  models.RiskAmber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clause := &models.Clause{
				Label:      models.ClauseTermination,
				RawText:    "Either party may terminate this Agreement as set out below.",
				Attributes: tt.attrs,
			}

			assessment, err := engine.Assess(clause)
			if err != nil {
				t.Fatalf("Assess() returned error: %v", err)
			}
			if assessment.RiskLevel != tt.want {
				t.Errorf("Assess() = %s, want %s", assessment.RiskLevel, tt.want)
			}
		})
	}
}

func TestAssessRuleOrdering(t *testing.T) {
	engine := NewEngine(DefaultPlaybook())

	// An uncapped clause stays uncapped even when a cap figure is also
	// reported; the uncapped rows come first.
	clause := liabilityClause(&models.ClauseAttributes{
		Capped:        boolPtr(false),
		CapMonthsFees: intPtr(24),
		CarveOuts:     []string{"death or personal injury"},
	})
	assessment, err := engine.Assess(clause)
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if assessment.RiskLevel != models.RiskAmber {
		t.Errorf("uncapped rows must win over cap rows, got %s", assessment.RiskLevel)
	}

	// Immediate for-convenience termination outranks a generous notice
	// period.
	clause = &models.Clause{
		Label:   models.ClauseTermination,
		RawText: "Either party may terminate at any time.",
		Attributes: &models.ClauseAttributes{
			ImmediateForConvenience: boolPtr(true),
			NoticeDays:              intPtr(60),
		},
	}
	assessment, err = engine.Assess(clause)
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if assessment.RiskLevel != models.RiskRed {
		t.Errorf("immediate termination row must win over notice rows, got %s", assessment.RiskLevel)
	}
}

func TestAssessMissingAttributes(t *testing.T) {
	engine := NewEngine(DefaultPlaybook())

	tests := []struct {
		name   string
		clause *models.Clause
	}{
		{
			name:   "liability without attributes",
			clause: &models.Clause{Label: models.ClauseLimitationOfLiability, RawText: "text"},
		},
		{
			name:   "liability without capped flag",
			clause: liabilityClause(&models.ClauseAttributes{CapMonthsFees: intPtr(12)}),
		},
		{
			name:   "governing law without jurisdiction",
			clause: &models.Clause{Label: models.ClauseGoverningLaw, RawText: "text", Attributes: &models.ClauseAttributes{}},
		},
		{
			name:   "governing law with blank jurisdiction",
			clause: &models.Clause{Label: models.ClauseGoverningLaw, RawText: "text", Attributes: &models.ClauseAttributes{Jurisdiction: "   "}},
		},
		{
			name:   "termination without convenience flag",
			clause: &models.Clause{Label: models.ClauseTermination, RawText: "text", Attributes: &models.ClauseAttributes{NoticeDays: intPtr(30)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Assess(tt.clause)
			if !errors.Is(err, ErrMissingAttributes) {
				t.Errorf("expected ErrMissingAttributes, got %v", err)
			}
		})
	}
}

func TestAssessUnknownClauseType(t *testing.T) {
	engine := NewEngine(DefaultPlaybook())

	for _, label := range []models.ClauseLabel{models.ClauseIP, models.ClauseOther, "nonsense"} {
		clause := &models.Clause{Label: label, RawText: "text"}
		if _, err := engine.Assess(clause); !errors.Is(err, ErrUnknownClauseType) {
			t.Errorf("Assess(%s): expected ErrUnknownClauseType, got %v", label, err)
		}
	}
}

func TestAnalyzedLabels(t *testing.T) {
	for _, label := range []models.ClauseLabel{
		models.ClauseLimitationOfLiability,
		models.ClauseGoverningLaw,
		models.ClauseTermination,
	} {
		if !AnalyzedLabels[label] {
			t.Errorf("expected %s to be analyzed", label)
		}
	}
	if AnalyzedLabels[models.ClauseIP] || AnalyzedLabels[models.ClauseOther] {
		t.Error("ip and other clauses must not be analyzed")
	}
}

func TestSuggestedWording(t *testing.T) {
	engine := NewEngine(DefaultPlaybook())

	assessment, err := engine.Assess(liabilityClause(&models.ClauseAttributes{Capped: boolPtr(false)}))
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if !strings.Contains(assessment.SuggestedText, "12 months") {
		t.Errorf("liability suggestion should carry the playbook cap, got: %s", assessment.SuggestedText)
	}
	if !strings.Contains(assessment.SuggestedText, "aggregate liability") {
		t.Errorf("liability suggestion should propose an aggregate cap, got: %s", assessment.SuggestedText)
	}

	assessment, err = engine.Assess(&models.Clause{
		Label:      models.ClauseGoverningLaw,
		RawText:    "text",
		Attributes: &models.ClauseAttributes{Jurisdiction: "New York"},
	})
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if !strings.Contains(assessment.SuggestedText, "England and Wales") {
		t.Errorf("governing law suggestion should name the preferred jurisdiction, got: %s", assessment.SuggestedText)
	}

	// Green outcomes carry no replacement wording.
	assessment, err = engine.Assess(liabilityClause(&models.ClauseAttributes{
		Capped:        boolPtr(true),
		CapMonthsFees: intPtr(12),
	}))
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if assessment.SuggestedText != "" {
		t.Errorf("green assessment should not suggest wording, got: %s", assessment.SuggestedText)
	}
}

func TestAssessCustomPlaybook(t *testing.T) {
	playbook := Playbook{
		StandardCapMonths:      6,
		RequiredCarveOuts:      []string{"death"},
		MinNoticeDays:          60,
		PreferredJurisdictions: []string{"Scotland"},
	}
	engine := NewEngine(playbook)

	assessment, err := engine.Assess(liabilityClause(&models.ClauseAttributes{
		Capped:        boolPtr(true),
		CapMonthsFees: intPtr(6),
	}))
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if assessment.RiskLevel != models.RiskGreen {
		t.Errorf("cap meeting a custom standard should be green, got %s", assessment.RiskLevel)
	}

	assessment, err = engine.Assess(&models.Clause{
		Label:   models.ClauseTermination,
		RawText: "text",
		Attributes: &models.ClauseAttributes{
			ImmediateForConvenience: boolPtr(false),
			NoticeDays:              intPtr(30),
		},
	})
	if err != nil {
		t.Fatalf("Assess() returned error: %v", err)
	}
	if assessment.RiskLevel != models.RiskAmber {
		t.Errorf("30 days against a 60-day minimum should be amber, got %s", assessment.RiskLevel)
	}
}
