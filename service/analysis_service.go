package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contractlens-backend/ingestion"
	"contractlens-backend/models"
	"contractlens-backend/risk"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
)

var (
	ErrUnreadableDocument    = errors.New("could not extract text from document")
	ErrExtractionFailed      = errors.New("clause extraction failed")
	ErrInvalidExtraction     = errors.New("extraction response failed validation")
	ErrEmbeddingFailed       = errors.New("clause embedding failed")
	ErrPrecedentSearchFailed = errors.New("precedent search failed")
	ErrSummaryFailed         = errors.New("report summary failed")
)

const defaultPrecedentLimit = 3

// Generator produces schema-constrained JSON from a system prompt and a user
// prompt.
type Generator interface {
	GenerateJSON(ctx context.Context, system, prompt string) ([]byte, error)
}

// Embedder turns clause text into a dense vector.
type Embedder interface {
	EmbedText(ctx context.Context, text string, taskType genai.TaskType) ([]float32, error)
}

// PrecedentSearcher retrieves stored precedent clauses similar to a vector.
type PrecedentSearcher interface {
	SearchSimilar(ctx context.Context, vector []float32, clauseType, contractType string, limit int) ([]models.PrecedentMatch, error)
}

// AnalysisService runs the full contract review pipeline: text extraction,
// clause extraction, rule-based risk scoring, precedent retrieval, and
// report summarization.
type AnalysisService struct {
	generator      Generator
	embedder       Embedder
	precedents     PrecedentSearcher
	engine         *risk.Engine
	precedentLimit int
}

type AnalysisServiceOption func(*AnalysisService)

func AnalysisWithGenerator(g Generator) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.generator = g
	}
}

func AnalysisWithEmbedder(e Embedder) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.embedder = e
	}
}

func AnalysisWithPrecedentSearcher(p PrecedentSearcher) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.precedents = p
	}
}

func AnalysisWithRiskEngine(e *risk.Engine) AnalysisServiceOption {
	return func(s *AnalysisService) {
		s.engine = e
	}
}

func AnalysisWithPrecedentLimit(limit int) AnalysisServiceOption {
	return func(s *AnalysisService) {
		if limit > 0 {
			s.precedentLimit = limit
		}
	}
}

func NewAnalysisService(opts ...AnalysisServiceOption) *AnalysisService {
	s := &AnalysisService{
		engine:         risk.NewEngine(risk.DefaultPlaybook()),
		precedentLimit: defaultPrecedentLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeRequest carries one uploaded contract through the pipeline.
type AnalyzeRequest struct {
	Filename     string
	ContentType  string
	Data         []byte
	ContractType models.ContractType
	RiskProfile  models.RiskProfile
}

// Analyze produces a complete analysis report for one uploaded contract.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalyzeRequest) (*models.AnalysisReport, error) {
	if s.generator == nil || s.embedder == nil || s.precedents == nil {
		return nil, fmt.Errorf("analysis service is not fully configured")
	}

	text, err := ingestion.ExtractText(req.Filename, req.ContentType, req.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	contract, err := s.extractContract(ctx, text)
	if err != nil {
		return nil, err
	}

	// The declared contract type is a hint; when the model identifies a
	// supported type from the text itself, that wins.
	contractType := req.ContractType
	if contract.ContractType != nil {
		if extracted := models.ContractType(*contract.ContractType); extracted.IsValid() {
			contractType = extracted
		}
	}

	clauseReports := make([]models.ClauseReport, 0, len(contract.Clauses))
	for i := range contract.Clauses {
		clause := &contract.Clauses[i]
		if !risk.AnalyzedLabels[clause.Label] {
			continue
		}

		assessment, err := s.engine.Assess(clause)
		if err != nil {
			return nil, err
		}

		matches, err := s.findPrecedents(ctx, clause, contractType)
		if err != nil {
			return nil, err
		}

		clauseReports = append(clauseReports, models.ClauseReport{
			ClauseLabel:   clause.Label,
			RiskLevel:     assessment.RiskLevel,
			Explanation:   assessment.Explanation,
			SuggestedText: assessment.SuggestedText,
			Precedents:    matches,
		})
	}

	summary, err := s.buildSummary(ctx, contract, clauseReports)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisReport{
		ReportID:     uuid.NewString(),
		ContractType: contractType,
		RiskProfile:  req.RiskProfile,
		Summary:      summary.Summary,
		KeyTerms:     summary.KeyTerms,
		Contract:     *contract,
		Clauses:      clauseReports,
		GeneratedAt:  time.Now().UTC(),
	}, nil
}

func (s *AnalysisService) findPrecedents(ctx context.Context, clause *models.Clause, contractType models.ContractType) ([]models.PrecedentMatch, error) {
	vector, err := s.embedder.EmbedText(ctx, clause.RawText, genai.TaskTypeRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}

	matches, err := s.precedents.SearchSimilar(ctx, vector, string(clause.Label), string(contractType), s.precedentLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrecedentSearchFailed, err)
	}
	return matches, nil
}
