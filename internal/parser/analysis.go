// Package parser decodes raw AI provider responses into typed results,
// rejecting or down-converting malformed output rather than propagating it.
package parser

import (
	"encoding/json"
	"fmt"
	"log"

	"veridoc/internal/domain"
)

// AnalysisResult is the decoded form of an analysis provider's validity
// judgement. Warnings records every defensive down-conversion applied
// during parsing (clamped scores, skipped discrepancies).
type AnalysisResult struct {
	IsValid         bool
	Analysis        string
	ConfidenceScore float64
	Discrepancies   []domain.Discrepancy
	Warnings        []string
}

// ParseAnalysis decodes the raw analysis response text. Required fields
// (isValid, analysis) produce typed errors when missing or mistyped;
// optional fields default rather than fail; out-of-range scores are
// clamped to 0.0 with a recorded warning; malformed individual
// discrepancies are skipped without discarding their siblings. The caller
// retains the raw text, so any returned error is diagnosable against it.
func ParseAnalysis(raw string) (*AnalysisResult, error) {
	text := StripCodeFences(raw)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return nil, fmt.Errorf("analysis response is not a JSON object: %w", err)
	}

	var missing []string
	for _, field := range []string{"isValid", "analysis"} {
		if _, ok := top[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}

	result := &AnalysisResult{Discrepancies: []domain.Discrepancy{}}

	if err := json.Unmarshal(top["isValid"], &result.IsValid); err != nil {
		return nil, &WrongTypeError{Field: "isValid", Expected: "boolean"}
	}
	if err := json.Unmarshal(top["analysis"], &result.Analysis); err != nil {
		return nil, &WrongTypeError{Field: "analysis", Expected: "string"}
	}

	if rawScore, ok := top["confidenceScore"]; ok {
		var score float64
		if err := json.Unmarshal(rawScore, &score); err != nil {
			return nil, &WrongTypeError{Field: "confidenceScore", Expected: "number"}
		}
		result.ConfidenceScore = clampScore(score, "confidenceScore", result)
	}

	if rawList, ok := top["discrepancies"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(rawList, &items); err != nil {
			return nil, &WrongTypeError{Field: "discrepancies", Expected: "array"}
		}
		for i, item := range items {
			d, err := parseDiscrepancy(item, result)
			if err != nil {
				warn := fmt.Sprintf("skipping malformed discrepancy at index %d: %v", i, err)
				result.Warnings = append(result.Warnings, warn)
				log.Printf("parser.ParseAnalysis: %s", warn)
				continue
			}
			result.Discrepancies = append(result.Discrepancies, d)
		}
	}

	return result, nil
}

// parseDiscrepancy decodes one discrepancy object. Omitted fields default
// to empty string / 0.0 so a partial discrepancy is kept, not dropped.
func parseDiscrepancy(raw json.RawMessage, result *AnalysisResult) (domain.Discrepancy, error) {
	var item struct {
		Field          string  `json:"field"`
		ExtractedValue string  `json:"extractedValue"`
		ProvidedValue  string  `json:"providedValue"`
		Type           string  `json:"type"`
		Description    string  `json:"description"`
		Severity       float64 `json:"severity"`
	}
	if err := json.Unmarshal(raw, &item); err != nil {
		return domain.Discrepancy{}, err
	}

	return domain.Discrepancy{
		Field:          item.Field,
		ExtractedValue: item.ExtractedValue,
		ProvidedValue:  item.ProvidedValue,
		Type:           domain.NormalizeDiscrepancyType(item.Type),
		Description:    item.Description,
		Severity:       clampScore(item.Severity, "severity of "+item.Field, result),
	}, nil
}

// clampScore forces out-of-range scores to 0.0 and records a warning.
func clampScore(v float64, field string, result *AnalysisResult) float64 {
	if v < 0.0 || v > 1.0 {
		warn := fmt.Sprintf("%s out of range [0,1]: %g, clamped to 0.0", field, v)
		result.Warnings = append(result.Warnings, warn)
		log.Printf("parser.ParseAnalysis: %s", warn)
		return 0.0
	}
	return v
}
