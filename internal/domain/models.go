package domain

import "time"

// ExtractionResult is the outcome of the vision (extraction) phase for one
// document. For multi-page PDFs it is a synthetic aggregate whose
// ExtractedData is the ordered concatenation of per-page results, each
// preceded by a "// Page N" marker.
type ExtractionResult struct {
	Success        bool           `json:"success"`
	ExtractedData  string         `json:"extracted_data"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	ModelUsed      string         `json:"model_used"`
	ProviderName   string         `json:"provider_name"`
	ProcessingTime time.Duration  `json:"processing_time"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// ValidationResult is the outcome of the analysis (validation) phase.
// IsValid, ConfidenceScore and Discrepancies are meaningful only when
// Success is true. When parsing of the provider's response fails, Success
// is false and AnalysisText retains the raw unparsed payload so the
// failure stays diagnosable.
type ValidationResult struct {
	Success         bool          `json:"success"`
	IsValid         bool          `json:"is_valid"`
	AnalysisText    string        `json:"analysis_text"`
	Discrepancies   []Discrepancy `json:"discrepancies"`
	ConfidenceScore float64       `json:"confidence_score"`
	ErrorMessage    string        `json:"error_message,omitempty"`
	ModelUsed       string        `json:"model_used"`
	ProviderName    string        `json:"provider_name"`
	ProcessingTime  time.Duration `json:"processing_time"`
}

// Discrepancy is a single field-level mismatch between extracted and
// reference data.
type Discrepancy struct {
	Field          string          `json:"field"`
	ExtractedValue string          `json:"extracted_value"`
	ProvidedValue  string          `json:"provided_value"`
	Type           DiscrepancyType `json:"type"`
	Description    string          `json:"description"`
	Severity       float64         `json:"severity"`
}

// PipelineResult combines both phases for one document verification run.
type PipelineResult struct {
	Extraction ExtractionResult `json:"extraction"`
	Validation ValidationResult `json:"validation"`
}

// Succeeded reports whether both phases completed successfully.
func (r *PipelineResult) Succeeded() bool {
	return r.Extraction.Success && r.Validation.Success
}
