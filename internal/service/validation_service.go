package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"veridoc/internal/domain"
	"veridoc/internal/parser"
	"veridoc/internal/port"
	"veridoc/internal/prompt"
)

// ValidateInput is the DTO for one validation request.
type ValidateInput struct {
	ExtractedData string
	DocumentType  string
	Fields        []string
	ReferenceJSON string
}

// Validator defines the analysis orchestration contract. All failures,
// including provider and parse failures, terminate in a Success=false
// result rather than an error.
type Validator interface {
	Validate(ctx context.Context, input *ValidateInput) *domain.ValidationResult
}

type validationService struct {
	analysis ProviderChain
}

// NewValidationService creates the analysis-phase orchestrator.
func NewValidationService(analysis ProviderChain) Validator {
	return &validationService{analysis: analysis}
}

func (s *validationService) Validate(ctx context.Context, input *ValidateInput) *domain.ValidationResult {
	start := time.Now()
	result := &domain.ValidationResult{Discrepancies: []domain.Discrepancy{}}
	defer func() { result.ProcessingTime = time.Since(start) }()

	// Preconditions checked before any network call.
	if strings.TrimSpace(input.ExtractedData) == "" {
		result.ErrorMessage = "extracted data is blank; nothing to validate"
		return result
	}
	if strings.TrimSpace(input.DocumentType) == "" {
		result.ErrorMessage = "document type is required for validation"
		return result
	}

	validationPrompt := prompt.BuildValidation(input.DocumentType, input.Fields, input.ExtractedData, input.ReferenceJSON)

	out, err := s.analysis.Invoke(ctx, port.InvokeInput{Prompt: validationPrompt})
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}

	result.ModelUsed = out.Model
	result.ProviderName = out.Provider

	parsed, err := parser.ParseAnalysis(out.RawText)
	if err != nil {
		// The API call succeeded but its payload is unusable: that is a
		// pipeline failure. Keep the raw payload as the audit trail.
		result.AnalysisText = out.RawText
		result.ErrorMessage = fmt.Sprintf("parsing analysis response: %v", err)
		return result
	}

	result.Success = true
	result.IsValid = parsed.IsValid
	result.AnalysisText = parsed.Analysis
	result.ConfidenceScore = parsed.ConfidenceScore
	result.Discrepancies = parsed.Discrepancies
	return result
}
