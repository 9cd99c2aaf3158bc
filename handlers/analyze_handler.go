package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"contractlens-backend/models"
	"contractlens-backend/risk"
	"contractlens-backend/service"

	"github.com/gin-gonic/gin"
)

// AnalyzeHandler handles HTTP requests for contract analysis
type AnalyzeHandler struct {
	service          *service.AnalysisService
	maxFileSize      int64
	allowedMimeTypes map[string]bool
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analysisService *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{
		service:     analysisService,
		maxFileSize: 10 * 1024 * 1024, // 10MB
		allowedMimeTypes: map[string]bool{
			"application/pdf": true,
			"text/plain":      true,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true, // .docx
		},
	}
}

// AnalyzeContract handles POST /api/analyze
func (h *AnalyzeHandler) AnalyzeContract(c *gin.Context) {
	contractType := models.ContractType(c.PostForm("contract_type"))
	if contractType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_CONTRACT_TYPE",
				"message": "contract_type is required",
			},
		})
		return
	}
	if !contractType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CONTRACT_TYPE",
				"message": "contract_type must be one of: saas, services, employment",
			},
		})
		return
	}

	riskProfile := models.RiskProfile(c.PostForm("risk_profile"))
	if riskProfile == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_RISK_PROFILE",
				"message": "risk_profile is required",
			},
		})
		return
	}
	if !riskProfile.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_RISK_PROFILE",
				"message": "risk_profile must be one of: conservative, balanced, aggressive",
			},
		})
		return
	}

	// Get file from form
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	// Validate file size
	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	// Determine MIME type
	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		// Try to infer from extension
		filename := strings.ToLower(fileHeader.Filename)
		if strings.HasSuffix(filename, ".pdf") {
			mimeType = "application/pdf"
		} else if strings.HasSuffix(filename, ".txt") {
			mimeType = "text/plain"
		} else if strings.HasSuffix(filename, ".docx") {
			mimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		} else {
			mimeType = "application/octet-stream"
		}
	}

	// Validate MIME type
	if !h.allowedMimeTypes[mimeType] && !strings.HasPrefix(mimeType, "text/") {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "File type not allowed. Allowed types: PDF, DOCX, TXT",
			},
		})
		return
	}

	// Open and read file
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_READ_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	report, err := h.service.Analyze(c.Request.Context(), service.AnalyzeRequest{
		Filename:     fileHeader.Filename,
		ContentType:  mimeType,
		Data:         data,
		ContractType: contractType,
		RiskProfile:  riskProfile,
	})
	if err != nil {
		h.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"report":  report,
	})
}

// writeAnalysisError maps pipeline failures onto HTTP statuses: document
// problems are the client's fault, rule-evaluation gaps are unprocessable,
// and model or search outages are upstream failures.
func (h *AnalyzeHandler) writeAnalysisError(c *gin.Context, err error) {
	var status int
	var code string

	switch {
	case errors.Is(err, service.ErrUnreadableDocument):
		status, code = http.StatusBadRequest, "UNREADABLE_DOCUMENT"
	case errors.Is(err, risk.ErrMissingAttributes), errors.Is(err, risk.ErrUnknownClauseType):
		status, code = http.StatusUnprocessableEntity, "CLAUSE_VALIDATION_FAILED"
	case errors.Is(err, service.ErrExtractionFailed), errors.Is(err, service.ErrInvalidExtraction):
		status, code = http.StatusBadGateway, "EXTRACTION_FAILED"
	case errors.Is(err, service.ErrEmbeddingFailed):
		status, code = http.StatusBadGateway, "EMBEDDING_FAILED"
	case errors.Is(err, service.ErrPrecedentSearchFailed):
		status, code = http.StatusBadGateway, "PRECEDENT_SEARCH_FAILED"
	case errors.Is(err, service.ErrSummaryFailed):
		status, code = http.StatusBadGateway, "SUMMARY_FAILED"
	default:
		status, code = http.StatusInternalServerError, "ANALYSIS_FAILED"
	}

	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
