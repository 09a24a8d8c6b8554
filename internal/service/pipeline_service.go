package service

import (
	"context"

	"veridoc/internal/domain"
)

// RunInput is the DTO for one full verification run.
type RunInput struct {
	Document      []byte
	FileName      string
	DocumentType  string
	Fields        []string
	ReferenceJSON string
}

// Pipeline sequences extraction then validation. It is the only contract
// the HTTP layer calls.
type Pipeline interface {
	Run(ctx context.Context, input *RunInput) (*domain.PipelineResult, error)
}

type pipelineService struct {
	extractor Extractor
	validator Validator
}

// NewPipelineService creates the two-phase pipeline facade.
func NewPipelineService(extractor Extractor, validator Validator) Pipeline {
	return &pipelineService{extractor: extractor, validator: validator}
}

func (s *pipelineService) Run(ctx context.Context, input *RunInput) (*domain.PipelineResult, error) {
	extraction, err := s.extractor.Extract(ctx, &ExtractInput{
		Document:     input.Document,
		FileName:     input.FileName,
		DocumentType: input.DocumentType,
		Fields:       input.Fields,
	})
	if err != nil {
		return nil, err
	}

	result := &domain.PipelineResult{Extraction: *extraction}

	// Validation depends on extraction's output; never attempted when
	// extraction failed.
	if !extraction.Success {
		result.Validation = domain.ValidationResult{
			Success:       false,
			Discrepancies: []domain.Discrepancy{},
			ErrorMessage:  "validation skipped: extraction failed",
		}
		return result, nil
	}

	validation := s.validator.Validate(ctx, &ValidateInput{
		ExtractedData: extraction.ExtractedData,
		DocumentType:  input.DocumentType,
		Fields:        input.Fields,
		ReferenceJSON: input.ReferenceJSON,
	})
	result.Validation = *validation
	return result, nil
}
