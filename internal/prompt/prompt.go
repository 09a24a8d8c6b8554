// Package prompt builds the instruction text sent to AI providers.
package prompt

import (
	"fmt"
	"strings"
)

// BuildExtraction returns the vision-phase prompt for extracting the given
// fields from a document image.
func BuildExtraction(documentType string, fields []string) string {
	fieldScope := "all identifiable fields"
	if len(fields) > 0 {
		fieldScope = strings.Join(fields, ", ")
	}
	return `You are a document data extraction assistant. Analyze the provided ` + documentType + ` document image and extract the following fields: ` + fieldScope + `.

IMPORTANT INSTRUCTIONS:
- Extract every requested field you can find. Transcribe values exactly as they appear in the document.
- If a field is not present in the document, report it with an empty value. Do not invent data.
- Preserve the reading order of the document.

Return the extracted data as plain "field: value" lines with no markdown formatting, no code fences, and no commentary.`
}

// BuildValidation returns the analysis-phase prompt comparing extracted
// document data against caller-supplied reference data.
func BuildValidation(documentType string, fields []string, extractedData, referenceJSON string) string {
	fieldScope := "all fields present in the reference data"
	if len(fields) > 0 {
		fieldScope = strings.Join(fields, ", ")
	}
	return fmt.Sprintf(`You are a document verification assistant. Compare the data extracted from a %s document against the reference data supplied by the caller and judge whether the document matches.

Fields to compare: %s.

EXTRACTED DATA:
%s

REFERENCE DATA (JSON):
%s

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation, just the raw JSON object, with this structure:
{
  "isValid": true,
  "analysis": "short overall assessment",
  "confidenceScore": 0.0,
  "discrepancies": [
    {
      "field": "",
      "extractedValue": "",
      "providedValue": "",
      "type": "mismatch|missing|format|other",
      "description": "",
      "severity": 0.0
    }
  ]
}

"isValid" is false if any material discrepancy exists. "confidenceScore" and each "severity" are floats between 0.0 and 1.0. Report one discrepancy entry per mismatching field; return an empty "discrepancies" array when everything matches.`,
		documentType, fieldScope, extractedData, referenceJSON)
}
