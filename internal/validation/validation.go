// Package validation decides admission of parsed skill candidates into a
// registry and provides standalone manifest checks for CLI validation.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/registry"
)

// Error represents a validation failure with context.
type Error struct {
	// Field is the name of the field or component that failed validation
	Field string
	// Message describes the validation failure
	Message string
	// Err is the underlying error (if any)
	Err error
}

// Error returns a formatted validation error message.
func (ve *Error) Error() string {
	if ve.Err != nil {
		return fmt.Sprintf("validation failed for %q: %s: %v", ve.Field, ve.Message, ve.Err)
	}
	return fmt.Sprintf("validation failed for %q: %s", ve.Field, ve.Message)
}

// Unwrap returns the underlying error for errors.Is/As.
func (ve *Error) Unwrap() error {
	return ve.Err
}

// Errors collects multiple validation errors.
type Errors []error

// Error returns a formatted error message for all validation failures.
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}
	return fmt.Sprintf("%d validation errors:\n- %s", len(ve), errors.Join(ve...))
}

// Result contains the outcome of a validation check.
type Result struct {
	// Valid indicates whether all validations passed
	Valid bool
	// Warnings contains non-fatal validation issues
	Warnings []string
	// Errors contains validation failures that prevent the operation
	Errors []error
}

// AddError adds an error to the validation result.
func (r *Result) AddError(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

// AddWarning adds a warning to the validation result.
func (r *Result) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// Error returns the combined validation error message.
func (r *Result) Error() error {
	if !r.HasErrors() {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return Errors(r.Errors)
}

// Summary returns a human-readable summary of the validation result.
func (r *Result) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "All validations passed"
	}
	var msg string
	if r.Valid {
		msg = "Validation passed with warnings"
	} else {
		msg = "Validation failed"
	}
	if len(r.Warnings) > 0 {
		msg += fmt.Sprintf(" (%d warning(s))", len(r.Warnings))
	}
	return msg
}

// CheckAdmission applies the admission rules, in order, to one parsed
// candidate. It returns nil to accept, or the diagnostic explaining the
// rejection. Rules:
//
//  1. DuplicateName if the name is already registered. First discovered
//     wins; the duplicate never replaces the existing entry.
//  2. MissingRequiredField if name or description is empty after trimming.
func CheckAdmission(reg *registry.Registry, path string, m model.Manifest) *model.Diagnostic {
	name := strings.TrimSpace(m.Name)
	description := strings.TrimSpace(m.Description)

	if name != "" && reg.Contains(name) {
		return &model.Diagnostic{
			Path:    path,
			Code:    model.CodeDuplicateName,
			Message: fmt.Sprintf("name %q already claimed by an earlier skill", name),
		}
	}

	if name == "" {
		return &model.Diagnostic{
			Path:    path,
			Code:    model.CodeMissingRequiredField,
			Message: "missing name",
		}
	}
	if description == "" {
		return &model.Diagnostic{
			Path:    path,
			Code:    model.CodeMissingRequiredField,
			Message: "missing description",
		}
	}

	return nil
}

// ValidateManifest performs standalone checks on a parsed manifest, beyond
// the admission rules. Used by the validate command to surface convention
// issues without rejecting the skill.
func ValidateManifest(m model.Manifest) (*Result, error) {
	result := &Result{Valid: true}

	if strings.TrimSpace(m.Name) == "" {
		result.AddError(&Error{Field: "name", Message: "name cannot be empty"})
	} else if err := manifest.ValidateName(m.Name); err != nil {
		result.AddError(&Error{Field: "name", Message: "invalid name", Err: err})
	} else if m.Name != strings.ToLower(m.Name) {
		result.AddWarning(fmt.Sprintf("name %q is not kebab-case", m.Name))
	}

	if strings.TrimSpace(m.Description) == "" {
		result.AddError(&Error{Field: "description", Message: "description cannot be empty"})
	} else if len(m.Description) > 1024 {
		result.AddWarning("description is unusually long; consumers may truncate it")
	}

	for key := range m.Extra {
		if strings.TrimSpace(key) == "" {
			result.AddError(&Error{
				Field:   "extra",
				Message: "metadata key cannot be empty",
			})
		}
	}

	return result, nil
}
