package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"veridoc/internal/domain"
	"veridoc/internal/service"
)

// VerifyHandler handles document verification endpoints.
type VerifyHandler struct {
	pipeline    service.Pipeline
	extractor   service.Extractor
	maxFileSize int64
}

// NewVerifyHandler creates a new VerifyHandler.
func NewVerifyHandler(pipeline service.Pipeline, extractor service.Extractor, maxFileSizeMB int64) *VerifyHandler {
	return &VerifyHandler{
		pipeline:    pipeline,
		extractor:   extractor,
		maxFileSize: maxFileSizeMB * 1024 * 1024,
	}
}

// ExtractionPhase is the wire form of the extraction result.
type ExtractionPhase struct {
	ModelUsed      string         `json:"model_used"`
	ProviderName   string         `json:"provider_name"`
	ExtractedData  string         `json:"extracted_data"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
	ProcessingMsec int64          `json:"processing_msec"`
}

// ValidationPhase is the wire form of the validation result.
type ValidationPhase struct {
	ModelUsed      string               `json:"model_used"`
	ProviderName   string               `json:"provider_name"`
	IsValid        bool                 `json:"is_valid"`
	Analysis       string               `json:"analysis"`
	Discrepancies  []domain.Discrepancy `json:"discrepancies"`
	Confidence     float64              `json:"confidence"`
	ErrorMessage   string               `json:"error_message,omitempty"`
	ProcessingMsec int64                `json:"processing_msec"`
}

// VerifyResponse is the combined pipeline outcome returned to the caller.
type VerifyResponse struct {
	Success         bool            `json:"success"`
	ExtractionPhase ExtractionPhase `json:"extraction_phase"`
	ValidationPhase ValidationPhase `json:"validation_phase"`
}

// Verify handles POST /api/v1/verify. Multipart form fields: file
// (required), reference (required, JSON), document_type, fields
// (comma-separated).
func (h *VerifyHandler) Verify(c *gin.Context) {
	document, fileName, ok := h.readDocument(c)
	if !ok {
		return
	}

	reference := c.PostForm("reference")
	if strings.TrimSpace(reference) == "" {
		HandleError(c, domain.ErrMissingReference)
		return
	}
	if !json.Valid([]byte(reference)) {
		RespondError(c, http.StatusBadRequest, "INVALID_REFERENCE", "reference data must be valid JSON")
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), &service.RunInput{
		Document:      document,
		FileName:      fileName,
		DocumentType:  documentType(c),
		Fields:        splitFields(c.PostForm("fields")),
		ReferenceJSON: reference,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyResponse{
		Success:         result.Succeeded(),
		ExtractionPhase: toExtractionPhase(&result.Extraction),
		ValidationPhase: toValidationPhase(&result.Validation),
	})
}

// Extract handles POST /api/v1/extract, exposing the extraction phase alone.
func (h *VerifyHandler) Extract(c *gin.Context) {
	document, fileName, ok := h.readDocument(c)
	if !ok {
		return
	}

	result, err := h.extractor.Extract(c.Request.Context(), &service.ExtractInput{
		Document:     document,
		FileName:     fileName,
		DocumentType: documentType(c),
		Fields:       splitFields(c.PostForm("fields")),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, toExtractionPhase(result))
}

func (h *VerifyHandler) readDocument(c *gin.Context) (data []byte, fileName string, ok bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "FILE_REQUIRED", "multipart field 'file' is required")
		return nil, "", false
	}
	if fileHeader.Size > h.maxFileSize {
		HandleError(c, domain.ErrFileTooLarge)
		return nil, "", false
	}

	data, err = readAll(fileHeader)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "FILE_UNREADABLE", "could not read uploaded file")
		return nil, "", false
	}
	if len(data) == 0 {
		HandleError(c, domain.ErrEmptyDocument)
		return nil, "", false
	}
	return data, fileHeader.Filename, true
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func documentType(c *gin.Context) string {
	dt := strings.TrimSpace(c.PostForm("document_type"))
	if dt == "" {
		dt = "document"
	}
	return dt
}

func splitFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func toExtractionPhase(r *domain.ExtractionResult) ExtractionPhase {
	return ExtractionPhase{
		ModelUsed:      r.ModelUsed,
		ProviderName:   r.ProviderName,
		ExtractedData:  r.ExtractedData,
		Metadata:       r.Metadata,
		ErrorMessage:   r.ErrorMessage,
		ProcessingMsec: r.ProcessingTime.Milliseconds(),
	}
}

func toValidationPhase(r *domain.ValidationResult) ValidationPhase {
	discrepancies := r.Discrepancies
	if discrepancies == nil {
		discrepancies = []domain.Discrepancy{}
	}
	return ValidationPhase{
		ModelUsed:      r.ModelUsed,
		ProviderName:   r.ProviderName,
		IsValid:        r.IsValid,
		Analysis:       r.AnalysisText,
		Discrepancies:  discrepancies,
		Confidence:     r.ConfidenceScore,
		ErrorMessage:   r.ErrorMessage,
		ProcessingMsec: r.ProcessingTime.Milliseconds(),
	}
}
