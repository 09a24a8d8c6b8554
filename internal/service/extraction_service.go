package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"veridoc/internal/classifier"
	"veridoc/internal/domain"
	"veridoc/internal/parser"
	"veridoc/internal/port"
	"veridoc/internal/prompt"
	"veridoc/internal/provider"
)

// nativeTextModel is the model attribution for the no-AI text-layer branch.
const nativeTextModel = "native-text-extraction"

// ProviderChain is the fallback-invoke capability consumed by both
// orchestrators. *provider.Chain satisfies it.
type ProviderChain interface {
	Invoke(ctx context.Context, input port.InvokeInput) (*provider.Outcome, error)
}

// ExtractInput is the DTO for one extraction request.
type ExtractInput struct {
	Document     []byte
	FileName     string
	DocumentType string
	Fields       []string
}

// Extractor defines the extraction orchestration contract. Provider-side
// failures come back as Success=false results; the error return is
// reserved for unexpected internal faults (wrapping domain.ErrInternal).
type Extractor interface {
	Extract(ctx context.Context, input *ExtractInput) (*domain.ExtractionResult, error)
}

type extractionService struct {
	vision      ProviderChain
	rasterizer  port.PageRasterizer
	text        port.TextExtractor
	pageWorkers int
}

// NewExtractionService creates the vision-phase orchestrator.
func NewExtractionService(vision ProviderChain, rasterizer port.PageRasterizer, text port.TextExtractor, pageWorkers int) Extractor {
	if pageWorkers < 1 {
		pageWorkers = 1
	}
	return &extractionService{
		vision:      vision,
		rasterizer:  rasterizer,
		text:        text,
		pageWorkers: pageWorkers,
	}
}

func (s *extractionService) Extract(ctx context.Context, input *ExtractInput) (*domain.ExtractionResult, error) {
	start := time.Now()

	var result *domain.ExtractionResult
	var err error

	contentType := ResolveContentType(input.FileName, input.Document)
	if contentType == "application/pdf" {
		result, err = s.extractPDF(ctx, input)
	} else {
		result, err = s.extractImage(ctx, input, contentType)
	}

	if result != nil {
		result.ProcessingTime = time.Since(start)
	}
	return result, err
}

// extractPDF classifies the document on its text layer and either returns
// the text directly or rasterizes and runs the vision path per page. Only
// the image-based branch ever spends provider inference.
func (s *extractionService) extractPDF(ctx context.Context, input *ExtractInput) (*domain.ExtractionResult, error) {
	text, err := s.text.ExtractText(ctx, input.Document)
	if err != nil {
		// An unreadable text layer is the scanned-document signature;
		// fall through to the vision path with empty text.
		log.Printf("service.Extraction: text extraction failed for %s, taking vision path: %v", input.FileName, err)
		text = ""
	}

	if !classifier.IsImageBased(text) {
		trimmed := strings.TrimSpace(text)
		result := &domain.ExtractionResult{
			Success:       trimmed != "",
			ExtractedData: trimmed,
			ModelUsed:     nativeTextModel,
			ProviderName:  s.text.Name(),
			Metadata: map[string]any{
				"source":     "text-layer",
				"word_count": classifier.WordCount(text),
			},
		}
		if !result.Success {
			result.ErrorMessage = "no extractable text in document"
		}
		return result, nil
	}

	pages, err := s.rasterizer.RenderPages(ctx, input.Document)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering pdf pages: %v", domain.ErrInternal, err)
	}
	return s.extractPages(ctx, input, pages), nil
}

// extractPages fans one vision call out per page, bounded by pageWorkers,
// and aggregates results strictly by page number. The aggregate succeeds
// when at least one page succeeded; model and provider attribution follow
// the last successful page.
func (s *extractionService) extractPages(ctx context.Context, input *ExtractInput, pages []port.PageImage) *domain.ExtractionResult {
	extractionPrompt := prompt.BuildExtraction(input.DocumentType, input.Fields)

	type pageOutcome struct {
		text     string
		provider string
		model    string
		err      error
	}
	outcomes := make([]pageOutcome, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pageWorkers)
	for i := range pages {
		g.Go(func() error {
			out, err := s.vision.Invoke(gctx, port.InvokeInput{
				Prompt:      extractionPrompt,
				ImageData:   pages[i].Data,
				ContentType: pages[i].ContentType,
			})
			if err != nil {
				// Per-page provider failure: recorded, never aborts siblings.
				outcomes[i] = pageOutcome{err: err}
				return nil
			}
			outcomes[i] = pageOutcome{
				text:     parser.CleanExtractionOutput(out.RawText),
				provider: out.Provider,
				model:    out.Model,
			}
			return nil
		})
	}
	_ = g.Wait()

	var sb strings.Builder
	var pageErrs []string
	succeeded := 0
	result := &domain.ExtractionResult{}
	for i, out := range outcomes {
		pageNum := pages[i].PageNumber
		if out.err != nil {
			log.Printf("service.Extraction: page %d failed: %v", pageNum, out.err)
			pageErrs = append(pageErrs, fmt.Sprintf("page %d: %v", pageNum, out.err))
			continue
		}
		fmt.Fprintf(&sb, "// Page %d\n%s\n\n", pageNum, out.text)
		result.ModelUsed = out.model
		result.ProviderName = out.provider
		succeeded++
	}

	result.Success = succeeded > 0
	result.ExtractedData = strings.TrimSpace(sb.String())
	result.Metadata = map[string]any{
		"source":          "vision",
		"pages":           len(pages),
		"pages_succeeded": succeeded,
	}
	if !result.Success {
		result.ErrorMessage = fmt.Sprintf("all %d page(s) failed: %s", len(pages), strings.Join(pageErrs, "; "))
	}
	return result
}

// extractImage runs the single-image vision path.
func (s *extractionService) extractImage(ctx context.Context, input *ExtractInput, contentType string) (*domain.ExtractionResult, error) {
	out, err := s.vision.Invoke(ctx, port.InvokeInput{
		Prompt:      prompt.BuildExtraction(input.DocumentType, input.Fields),
		ImageData:   input.Document,
		ContentType: contentType,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return &domain.ExtractionResult{
			Success:      false,
			ErrorMessage: err.Error(),
			Metadata:     map[string]any{"source": "vision", "content_type": contentType},
		}, nil
	}

	return &domain.ExtractionResult{
		Success:       true,
		ExtractedData: parser.CleanExtractionOutput(out.RawText),
		ModelUsed:     out.Model,
		ProviderName:  out.Provider,
		Metadata:      map[string]any{"source": "vision", "content_type": contentType},
	}, nil
}
