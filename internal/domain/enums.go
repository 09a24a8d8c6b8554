package domain

import "strings"

// FileType represents the allowed file types for verification.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// AllowedExtensions maps file extensions (without dot) to FileType.
var AllowedExtensions = map[string]FileType{
	"pdf":  FileTypePDF,
	"jpg":  FileTypeJPG,
	"jpeg": FileTypeJPG,
	"png":  FileTypePNG,
}

// DiscrepancyType classifies a field-level discrepancy.
type DiscrepancyType string

const (
	DiscrepancyMismatch DiscrepancyType = "mismatch"
	DiscrepancyMissing  DiscrepancyType = "missing"
	DiscrepancyFormat   DiscrepancyType = "format"
	DiscrepancyOther    DiscrepancyType = "other"
)

// NormalizeDiscrepancyType maps a provider-supplied type string onto the
// known enum, defaulting to DiscrepancyOther for anything unrecognized.
func NormalizeDiscrepancyType(s string) DiscrepancyType {
	switch DiscrepancyType(strings.ToLower(strings.TrimSpace(s))) {
	case DiscrepancyMismatch:
		return DiscrepancyMismatch
	case DiscrepancyMissing:
		return DiscrepancyMissing
	case DiscrepancyFormat:
		return DiscrepancyFormat
	default:
		return DiscrepancyOther
	}
}
