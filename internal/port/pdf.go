package port

import "context"

// PageImage is a single rasterized PDF page. PageNumber is 1-indexed.
type PageImage struct {
	PageNumber  int
	Data        []byte
	ContentType string
}

// PageRasterizer converts a PDF's pages into raster images, in page order.
type PageRasterizer interface {
	RenderPages(ctx context.Context, pdfBytes []byte) ([]PageImage, error)
}

// TextExtractor extracts the raw embedded text layer from a PDF. Name
// identifies the backend for result attribution.
type TextExtractor interface {
	Name() string
	ExtractText(ctx context.Context, pdfBytes []byte) (string, error)
}
