package validate

import (
	"fmt"
	"strings"
)

// FieldError is a single field-keyed validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Rule    string `json:"rule,omitempty"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// FieldErrors is a collection of field errors.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	switch len(fe) {
	case 0:
		return "validation failed"
	case 1:
		return fmt.Sprintf("validation failed: %s %s", fe[0].Field, fe[0].Message)
	}
	fields := make([]string, len(fe))
	for i, e := range fe {
		fields[i] = e.Field
	}
	return fmt.Sprintf("validation failed: %d field errors (%s)", len(fe), strings.Join(fields, ", "))
}

// Map returns the errors keyed by field. When a field appears more than once
// the last message wins.
func (fe FieldErrors) Map() map[string]string {
	m := make(map[string]string, len(fe))
	for _, e := range fe {
		m[e.Field] = e.Message
	}
	return m
}

// Result is the outcome of validating one field.
type Result struct {
	Valid   bool
	Message string
	Rule    string
}

func ok() Result { return Result{Valid: true} }

func fail(rule, message string) Result {
	return Result{Message: message, Rule: rule}
}

// Err converts an invalid result into a FieldError for field. It returns nil
// for valid results.
func (r Result) Err(field string) *FieldError {
	if r.Valid {
		return nil
	}
	return &FieldError{Field: field, Message: r.Message, Rule: r.Rule}
}
