package model

import "fmt"

// DiagnosticCode classifies why a candidate skill was rejected during loading.
type DiagnosticCode string

const (
	// CodeMissingMetadataBlock means the manifest has no opening delimiter,
	// or the opening delimiter is never closed.
	CodeMissingMetadataBlock DiagnosticCode = "missing-metadata-block"

	// CodeMissingRequiredField means the metadata block lacks a non-empty
	// name or description.
	CodeMissingRequiredField DiagnosticCode = "missing-required-field"

	// CodeMalformedField means a metadata line is not parseable as a
	// key/value pair.
	CodeMalformedField DiagnosticCode = "malformed-field"

	// CodeDuplicateName means an earlier candidate already claimed the name.
	// First discovered wins; the duplicate is reported, never admitted.
	CodeDuplicateName DiagnosticCode = "duplicate-name"
)

// IsValid returns true if the code is recognized.
func (c DiagnosticCode) IsValid() bool {
	switch c {
	case CodeMissingMetadataBlock, CodeMissingRequiredField, CodeMalformedField, CodeDuplicateName:
		return true
	default:
		return false
	}
}

// String returns the string representation of the code.
func (c DiagnosticCode) String() string {
	return string(c)
}

// Diagnostic records why one candidate was rejected. Diagnostics are
// per-candidate and non-fatal: a rejection never aborts the load pass.
type Diagnostic struct {
	// Path is the candidate skill directory.
	Path string `json:"path" yaml:"path"`
	// Code classifies the rejection.
	Code DiagnosticCode `json:"code" yaml:"code"`
	// Message is a human-readable explanation.
	Message string `json:"message" yaml:"message"`
}

// String formats the diagnostic for user-facing reports.
func (d Diagnostic) String() string {
	return fmt.Sprintf("skill at %s rejected: %s (%s)", d.Path, d.Message, d.Code)
}
