// Package classifier decides whether a PDF is text-bearing or image-based.
package classifier

import "strings"

// imageWordThreshold is the minimum extracted word count for a PDF to be
// treated as text-native. Anything below it is almost certainly a scan.
const imageWordThreshold = 50

// IsImageBased reports whether a PDF should take the vision path, based on
// the word count of its extracted text layer. The heuristic tolerates
// misclassification in both directions: a text-native page still works
// through the vision path (at higher cost), and a scan misread as
// text-based simply yields little data. This function never fails.
func IsImageBased(rawText string) bool {
	return WordCount(rawText) < imageWordThreshold
}

// WordCount returns the number of whitespace-separated tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
