package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/service"
	"veridoc/mocks"
)

func TestPipelineRun_BothPhasesSucceed(t *testing.T) {
	extractor := &mocks.MockExtractor{}
	validator := &mocks.MockValidator{}

	doc := []byte("%PDF-1.7")
	extractor.On("Extract", mock.Anything, &service.ExtractInput{
		Document:     doc,
		FileName:     "invoice.pdf",
		DocumentType: "invoice",
		Fields:       []string{"total"},
	}).Return(&domain.ExtractionResult{
		Success:       true,
		ExtractedData: "total: 450.00",
		ModelUsed:     "gpt-4o",
		ProviderName:  "openai",
	}, nil)
	validator.On("Validate", mock.Anything, &service.ValidateInput{
		ExtractedData: "total: 450.00",
		DocumentType:  "invoice",
		Fields:        []string{"total"},
		ReferenceJSON: `{"total": "450.00"}`,
	}).Return(&domain.ValidationResult{Success: true, IsValid: true})

	pipe := service.NewPipelineService(extractor, validator)
	result, err := pipe.Run(context.Background(), &service.RunInput{
		Document:      doc,
		FileName:      "invoice.pdf",
		DocumentType:  "invoice",
		Fields:        []string{"total"},
		ReferenceJSON: `{"total": "450.00"}`,
	})
	require.NoError(t, err)

	assert.True(t, result.Succeeded())
	assert.True(t, result.Validation.IsValid)
}

func TestPipelineRun_ExtractionFailureSkipsValidation(t *testing.T) {
	extractor := &mocks.MockExtractor{}
	validator := &mocks.MockValidator{}

	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&domain.ExtractionResult{Success: false, ErrorMessage: "all 2 page(s) failed"}, nil)

	pipe := service.NewPipelineService(extractor, validator)
	result, err := pipe.Run(context.Background(), &service.RunInput{
		Document: []byte("%PDF-1.7"),
		FileName: "scan.pdf",
	})
	require.NoError(t, err)

	assert.False(t, result.Succeeded())
	assert.False(t, result.Validation.Success)
	assert.Equal(t, "validation skipped: extraction failed", result.Validation.ErrorMessage)
	validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestPipelineRun_ExtractionErrorPropagates(t *testing.T) {
	extractor := &mocks.MockExtractor{}
	validator := &mocks.MockValidator{}

	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, errors.New("internal error: rendering pdf pages"))

	pipe := service.NewPipelineService(extractor, validator)
	_, err := pipe.Run(context.Background(), &service.RunInput{
		Document: []byte("%PDF-1.7"),
		FileName: "scan.pdf",
	})
	require.Error(t, err)
	validator.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
}

func TestPipelineRun_ValidationFailureIsNotPipelineSuccess(t *testing.T) {
	extractor := &mocks.MockExtractor{}
	validator := &mocks.MockValidator{}

	extractor.On("Extract", mock.Anything, mock.Anything).
		Return(&domain.ExtractionResult{Success: true, ExtractedData: "total: 450.00"}, nil)
	validator.On("Validate", mock.Anything, mock.Anything).
		Return(&domain.ValidationResult{Success: false, ErrorMessage: "parsing analysis response: not JSON"})

	pipe := service.NewPipelineService(extractor, validator)
	result, err := pipe.Run(context.Background(), &service.RunInput{
		Document: []byte("%PDF-1.7"),
		FileName: "invoice.pdf",
	})
	require.NoError(t, err)

	assert.False(t, result.Succeeded())
	assert.True(t, result.Extraction.Success)
}
