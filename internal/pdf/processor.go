// Package pdf provides the page rasterization and text extraction
// capabilities consumed by the extraction pipeline.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"veridoc/internal/port"
)

// Processor implements port.PageRasterizer and port.TextExtractor on top
// of pdfcpu (page bookkeeping) and the poppler tools pdftoppm/pdftotext
// (rendering and text extraction).
type Processor struct {
	dpi int
}

// NewProcessor creates a Processor rendering pages at the given DPI.
func NewProcessor(dpi int) *Processor {
	if dpi <= 0 {
		dpi = 300
	}
	return &Processor{dpi: dpi}
}

// Name identifies the text-extraction backend for result attribution.
func (p *Processor) Name() string { return "pdftotext" }

// PageCount returns the number of pages in the PDF.
func (p *Processor) PageCount(pdfBytes []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(pdfBytes), nil)
	if err != nil {
		return 0, fmt.Errorf("counting pdf pages: %w", err)
	}
	return count, nil
}

// ExtractText extracts the raw embedded text layer of the whole PDF.
// Scanned PDFs typically yield little or no text here, which is exactly
// the signal the document classifier keys on.
func (p *Processor) ExtractText(ctx context.Context, pdfBytes []byte) (string, error) {
	pdfPath, cleanup, err := writeTemp(pdfBytes)
	if err != nil {
		return "", err
	}
	defer cleanup()

	// -layout preserves the physical column layout; output goes to stdout.
	cmd := exec.CommandContext(ctx, "pdftotext", "-layout", pdfPath, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext failed: %w (output: %s)", err, stderr.String())
	}
	return stdout.String(), nil
}

// RenderPages rasterizes every page to PNG, in page order. Pages are
// rendered concurrently but collected by page number. A page that fails
// to render is logged and omitted; RenderPages fails only when the
// document is unreadable or no page could be rendered at all.
func (p *Processor) RenderPages(ctx context.Context, pdfBytes []byte) ([]port.PageImage, error) {
	pageCount, err := p.PageCount(pdfBytes)
	if err != nil {
		return nil, err
	}
	if pageCount == 0 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	pdfPath, cleanup, err := writeTemp(pdfBytes)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	rendered := make([][]byte, pageCount)
	errs := make([]error, pageCount)
	sem := make(chan struct{}, runtime.NumCPU())
	done := make(chan int, pageCount)

	for page := 1; page <= pageCount; page++ {
		sem <- struct{}{} // acquire
		go func(pageNum int) {
			defer func() { <-sem }() // release
			data, err := p.renderPage(ctx, pdfPath, pageNum)
			if err != nil {
				errs[pageNum-1] = err
			} else {
				rendered[pageNum-1] = data
			}
			done <- pageNum
		}(page)
	}
	for i := 0; i < pageCount; i++ {
		<-done
	}

	images := make([]port.PageImage, 0, pageCount)
	for i := 0; i < pageCount; i++ {
		if errs[i] != nil {
			log.Printf("pdf.Processor: rendering page %d failed: %v", i+1, errs[i])
			continue
		}
		images = append(images, port.PageImage{
			PageNumber:  i + 1,
			Data:        rendered[i],
			ContentType: "image/png",
		})
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("rendering pdf pages: all %d page(s) failed, first error: %w", pageCount, firstError(errs))
	}
	return images, nil
}

func (p *Processor) renderPage(ctx context.Context, pdfPath string, pageNum int) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "veridoc-page-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPrefix := filepath.Join(tmpDir, "page")
	pageStr := fmt.Sprintf("%d", pageNum)
	cmd := exec.CommandContext(ctx, "pdftoppm",
		"-png",
		"-f", pageStr,
		"-l", pageStr,
		"-r", fmt.Sprintf("%d", p.dpi),
		"-singlefile",
		pdfPath,
		outputPrefix,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (output: %s)", err, string(output))
	}

	data, err := os.ReadFile(outputPrefix + ".png")
	if err != nil {
		return nil, fmt.Errorf("reading rendered page: %w", err)
	}
	return data, nil
}

func writeTemp(pdfBytes []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "veridoc-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp pdf: %w", err)
	}
	if _, err := f.Write(pdfBytes); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("writing temp pdf: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("closing temp pdf: %w", err)
	}
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
