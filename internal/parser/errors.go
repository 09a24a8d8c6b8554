package parser

import (
	"fmt"
	"strings"
)

// MissingFieldsError indicates required top-level fields were absent from
// a provider's structured response.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("analysis response missing required field(s): %s", strings.Join(e.Fields, ", "))
}

// WrongTypeError indicates a field was present but carried the wrong JSON type.
type WrongTypeError struct {
	Field    string
	Expected string
}

func (e *WrongTypeError) Error() string {
	return fmt.Sprintf("analysis response field %q is not of expected type %s", e.Field, e.Expected)
}
