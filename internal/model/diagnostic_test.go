package model

import (
	"strings"
	"testing"
)

func TestDiagnosticCodeIsValid(t *testing.T) {
	valid := []DiagnosticCode{
		CodeMissingMetadataBlock,
		CodeMissingRequiredField,
		CodeMalformedField,
		CodeDuplicateName,
	}
	for _, code := range valid {
		if !code.IsValid() {
			t.Errorf("%q reported invalid", code)
		}
	}
	if DiagnosticCode("made-up").IsValid() {
		t.Error("unknown code reported valid")
	}
}

func TestDiagnosticString(t *testing.T) {
	diag := Diagnostic{
		Path:    "/skills/broken",
		Code:    CodeMissingRequiredField,
		Message: "missing name",
	}

	got := diag.String()
	for _, want := range []string{"/skills/broken", "missing name", "missing-required-field"} {
		if !strings.Contains(got, want) {
			t.Errorf("String() = %q, want substring %q", got, want)
		}
	}
}

func TestEntryAccessors(t *testing.T) {
	entry := Entry{
		Manifest: Manifest{Name: "deploy", Description: "Deploys things"},
	}
	if entry.Name() != "deploy" {
		t.Errorf("Name() = %q", entry.Name())
	}
	if entry.Description() != "Deploys things" {
		t.Errorf("Description() = %q", entry.Description())
	}
}
