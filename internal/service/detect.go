package service

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"veridoc/internal/domain"
)

// ResolveContentType resolves a document's MIME type from its declared
// file extension, falling back to content sniffing and finally to
// application/octet-stream when nothing is recognized.
func ResolveContentType(fileName string, data []byte) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ft, ok := domain.AllowedExtensions[ext]; ok {
		return domain.AllowedFileTypes[ft]
	}
	if mt := mimetype.Detect(data); mt != nil {
		if _, ok := domain.AllowedContentTypes[mt.String()]; ok {
			return mt.String()
		}
	}
	return "application/octet-stream"
}
