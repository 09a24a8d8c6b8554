package domain

import "errors"

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrEmptyDocument       = errors.New("document is empty")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrMissingReference    = errors.New("reference data is required")

	// ErrInternal marks truly unexpected internal faults (e.g. the page
	// rasterizer crashing), as opposed to provider-side failures which are
	// reported through result types.
	ErrInternal = errors.New("internal processing fault")
)
