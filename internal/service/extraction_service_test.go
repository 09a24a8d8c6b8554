package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"veridoc/internal/domain"
	"veridoc/internal/port"
	"veridoc/internal/prompt"
	"veridoc/internal/provider"
	"veridoc/internal/service"
	"veridoc/mocks"
)

func visionInput(docType string, fields []string, page port.PageImage) port.InvokeInput {
	return port.InvokeInput{
		Prompt:      prompt.BuildExtraction(docType, fields),
		ImageData:   page.Data,
		ContentType: page.ContentType,
	}
}

func TestExtract_TextBasedPDFSkipsVision(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 fake")
	extracted := strings.Repeat("invoice line item ", 40)
	text.On("ExtractText", mock.Anything, doc).Return(extracted, nil)
	text.On("Name").Return("pdftotext")

	svc := service.NewExtractionService(chain, rasterizer, text, 4)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document: doc,
		FileName: "invoice.pdf",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, strings.TrimSpace(extracted), result.ExtractedData)
	assert.Equal(t, "native-text-extraction", result.ModelUsed)
	assert.Equal(t, "pdftotext", result.ProviderName)
	assert.Equal(t, "text-layer", result.Metadata["source"])

	// The whole point of classification: no provider inference was spent.
	chain.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
	rasterizer.AssertNotCalled(t, "RenderPages", mock.Anything, mock.Anything)
}

func TestExtract_ScannedPDFTakesVisionPath(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 scanned")
	pages := []port.PageImage{
		{PageNumber: 1, Data: []byte("png-1"), ContentType: "image/png"},
		{PageNumber: 2, Data: []byte("png-2"), ContentType: "image/png"},
	}
	text.On("ExtractText", mock.Anything, doc).Return("barely any text", nil)
	rasterizer.On("RenderPages", mock.Anything, doc).Return(pages, nil)

	chain.On("Invoke", mock.Anything, visionInput("invoice", nil, pages[0])).
		Return(&provider.Outcome{RawText: "alpha", Provider: "openai", Model: "gpt-4o"}, nil)
	chain.On("Invoke", mock.Anything, visionInput("invoice", nil, pages[1])).
		Return(&provider.Outcome{RawText: "beta", Provider: "openai", Model: "gpt-4o"}, nil)

	svc := service.NewExtractionService(chain, rasterizer, text, 4)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document:     doc,
		FileName:     "scan.pdf",
		DocumentType: "invoice",
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "// Page 1\nalpha\n\n// Page 2\nbeta", result.ExtractedData)
	assert.Equal(t, "openai", result.ProviderName)
	assert.Equal(t, "gpt-4o", result.ModelUsed)
	assert.Equal(t, "vision", result.Metadata["source"])
	assert.Equal(t, 2, result.Metadata["pages"])
	assert.Equal(t, 2, result.Metadata["pages_succeeded"])
}

func TestExtract_PageOrderPreservedUnderConcurrency(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 scanned")
	pages := []port.PageImage{
		{PageNumber: 1, Data: []byte("png-1"), ContentType: "image/png"},
		{PageNumber: 2, Data: []byte("png-2"), ContentType: "image/png"},
		{PageNumber: 3, Data: []byte("png-3"), ContentType: "image/png"},
	}
	text.On("ExtractText", mock.Anything, doc).Return("", nil)
	rasterizer.On("RenderPages", mock.Anything, doc).Return(pages, nil)

	// Page 1 finishes last; the aggregate must still lead with it.
	chain.On("Invoke", mock.Anything, visionInput("document", nil, pages[0])).
		Run(func(mock.Arguments) { time.Sleep(30 * time.Millisecond) }).
		Return(&provider.Outcome{RawText: "first", Provider: "openai", Model: "gpt-4o"}, nil)
	chain.On("Invoke", mock.Anything, visionInput("document", nil, pages[1])).
		Return(&provider.Outcome{RawText: "second", Provider: "openai", Model: "gpt-4o"}, nil)
	chain.On("Invoke", mock.Anything, visionInput("document", nil, pages[2])).
		Return(&provider.Outcome{RawText: "third", Provider: "openai", Model: "gpt-4o"}, nil)

	svc := service.NewExtractionService(chain, rasterizer, text, 3)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document:     doc,
		FileName:     "scan.pdf",
		DocumentType: "document",
	})
	require.NoError(t, err)

	assert.Equal(t, "// Page 1\nfirst\n\n// Page 2\nsecond\n\n// Page 3\nthird", result.ExtractedData)
}

func TestExtract_PartialPageFailureStillSucceeds(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 scanned")
	pages := []port.PageImage{
		{PageNumber: 1, Data: []byte("png-1"), ContentType: "image/png"},
		{PageNumber: 2, Data: []byte("png-2"), ContentType: "image/png"},
	}
	text.On("ExtractText", mock.Anything, doc).Return("", nil)
	rasterizer.On("RenderPages", mock.Anything, doc).Return(pages, nil)

	chain.On("Invoke", mock.Anything, visionInput("document", nil, pages[0])).
		Return(nil, errors.New("primary provider openai failed: refusal (1 alternative(s) also attempted)"))
	chain.On("Invoke", mock.Anything, visionInput("document", nil, pages[1])).
		Return(&provider.Outcome{RawText: "page two text", Provider: "claude", Model: "claude-sonnet-4-20250514"}, nil)

	svc := service.NewExtractionService(chain, rasterizer, text, 2)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document:     doc,
		FileName:     "scan.pdf",
		DocumentType: "document",
	})
	require.NoError(t, err)

	assert.True(t, result.Success, "one successful page is enough")
	assert.Equal(t, "// Page 2\npage two text", result.ExtractedData)
	assert.NotContains(t, result.ExtractedData, "// Page 1")
	assert.Equal(t, "claude", result.ProviderName)
	assert.Equal(t, 1, result.Metadata["pages_succeeded"])
}

func TestExtract_AllPagesFail(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 scanned")
	pages := []port.PageImage{
		{PageNumber: 1, Data: []byte("png-1"), ContentType: "image/png"},
		{PageNumber: 2, Data: []byte("png-2"), ContentType: "image/png"},
	}
	text.On("ExtractText", mock.Anything, doc).Return("", nil)
	rasterizer.On("RenderPages", mock.Anything, doc).Return(pages, nil)
	chain.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("everything is down"))

	svc := service.NewExtractionService(chain, rasterizer, text, 2)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document: doc,
		FileName: "scan.pdf",
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "all 2 page(s) failed")
	assert.Empty(t, result.ExtractedData)
}

func TestExtract_TextExtractionErrorFallsToVision(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 broken text layer")
	pages := []port.PageImage{{PageNumber: 1, Data: []byte("png-1"), ContentType: "image/png"}}
	text.On("ExtractText", mock.Anything, doc).Return("", errors.New("pdftotext: exit 1"))
	rasterizer.On("RenderPages", mock.Anything, doc).Return(pages, nil)
	chain.On("Invoke", mock.Anything, mock.Anything).
		Return(&provider.Outcome{RawText: "visual text", Provider: "openai", Model: "gpt-4o"}, nil)

	svc := service.NewExtractionService(chain, rasterizer, text, 1)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document: doc,
		FileName: "scan.pdf",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "vision", result.Metadata["source"])
}

func TestExtract_RasterizationFailureIsInternal(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("%PDF-1.7 corrupt")
	text.On("ExtractText", mock.Anything, doc).Return("", nil)
	rasterizer.On("RenderPages", mock.Anything, doc).Return(nil, errors.New("pdftoppm: exit 1"))

	svc := service.NewExtractionService(chain, rasterizer, text, 2)
	_, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document: doc,
		FileName: "scan.pdf",
	})
	require.ErrorIs(t, err, domain.ErrInternal)
	chain.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything)
}

func TestExtract_SingleImage(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("fake-png-bytes")
	fields := []string{"name", "date_of_birth"}
	chain.On("Invoke", mock.Anything, port.InvokeInput{
		Prompt:      prompt.BuildExtraction("passport", fields),
		ImageData:   doc,
		ContentType: "image/png",
	}).Return(&provider.Outcome{RawText: "```\nname: Jane\n```", Provider: "gemini", Model: "gemini-2.0-flash"}, nil)

	svc := service.NewExtractionService(chain, rasterizer, text, 2)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document:     doc,
		FileName:     "passport.png",
		DocumentType: "passport",
		Fields:       fields,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "name: Jane", result.ExtractedData, "code fences stripped before aggregation")
	assert.Equal(t, "gemini", result.ProviderName)
	text.AssertNotCalled(t, "ExtractText", mock.Anything, mock.Anything)
}

func TestExtract_SingleImageProviderFailure(t *testing.T) {
	chain := &mocks.MockProviderChain{}
	rasterizer := &mocks.MockPageRasterizer{}
	text := &mocks.MockTextExtractor{}

	doc := []byte("fake-jpeg-bytes")
	chainErr := fmt.Errorf("primary provider openai failed: %w (1 alternative(s) also attempted)",
		provider.NewBusinessError("openai", "refusal", errors.New("cannot comply")))
	chain.On("Invoke", mock.Anything, mock.Anything).Return(nil, chainErr)

	svc := service.NewExtractionService(chain, rasterizer, text, 2)
	result, err := svc.Extract(context.Background(), &service.ExtractInput{
		Document: doc,
		FileName: "photo.jpg",
	})
	require.NoError(t, err, "provider failure is a result, not an error")

	assert.False(t, result.Success)
	assert.Contains(t, result.ErrorMessage, "primary provider openai failed")
}
