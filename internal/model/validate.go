package model

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ValidationError holds a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation failure on a named field.
type FieldError struct {
	Field   string
	Message string
}

// Error formats the validation error as a semicolon-separated list of field messages.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// HasErrors reports whether the validation error contains any field errors.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

// ValidateRecord checks a Record for constraint violations.
func ValidateRecord(r *Record) error {
	var ve ValidationError

	title := strings.TrimSpace(r.Title)
	if title == "" {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "is required"})
	} else if len([]rune(title)) > 500 {
		ve.Errors = append(ve.Errors, FieldError{Field: "title", Message: "must be 500 characters or fewer"})
	}

	if r.Priority < 0 || r.Priority > 3 {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("must be between 0 and 3, got %d", r.Priority),
		})
	}

	if !r.Status.IsValid() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid value %q", r.Status),
		})
	}

	if len(r.Fields) > 0 {
		var obj map[string]any
		if err := json.Unmarshal(r.Fields, &obj); err != nil {
			ve.Errors = append(ve.Errors, FieldError{Field: "fields", Message: "must be a JSON object"})
		}
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// ValidateView checks a View for constraint violations.
func ValidateView(v *View) error {
	var ve ValidationError

	name := strings.TrimSpace(v.Name)
	switch {
	case name == "":
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "is required"})
	case len([]rune(name)) > 100:
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must be 100 characters or fewer"})
	case strings.ContainsAny(name, "/?#"):
		ve.Errors = append(ve.Errors, FieldError{Field: "name", Message: "must not contain '/', '?' or '#'"})
	}

	if _, err := url.ParseQuery(v.Query); err != nil {
		ve.Errors = append(ve.Errors, FieldError{Field: "query", Message: "is not a valid query string"})
	}

	if ve.HasErrors() {
		return &ve
	}
	return nil
}
