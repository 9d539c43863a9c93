package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/klauern/openskills/internal/model"
)

func TestSplit(t *testing.T) {
	tests := map[string]struct {
		content      string
		wantMetadata string
		wantBody     string
		wantHas      bool
		wantDelim    string
	}{
		"yaml frontmatter": {
			content:      "---\nname: test\n---\nBody content",
			wantMetadata: "name: test",
			wantBody:     "Body content",
			wantHas:      true,
			wantDelim:    "---",
		},
		"toml frontmatter": {
			content:      "+++\nname = \"test\"\n+++\nBody content",
			wantMetadata: "name = \"test\"",
			wantBody:     "Body content",
			wantHas:      true,
			wantDelim:    "+++",
		},
		"no frontmatter": {
			content:  "Just plain content",
			wantBody: "Just plain content",
			wantHas:  false,
		},
		"unclosed fence": {
			content:  "---\nname: test\nno closing marker",
			wantBody: "---\nname: test\nno closing marker",
			wantHas:  false,
		},
		"empty metadata block": {
			content:      "---\n---\nBody",
			wantMetadata: "",
			wantBody:     "Body",
			wantHas:      true,
			wantDelim:    "---",
		},
		"windows line endings": {
			content:      "---\r\nname: test\r\n---\r\nBody",
			wantMetadata: "name: test",
			wantBody:     "Body",
			wantHas:      true,
			wantDelim:    "---",
		},
		"empty body": {
			content:      "---\nname: test\n---\n",
			wantMetadata: "name: test",
			wantBody:     "",
			wantHas:      true,
			wantDelim:    "---",
		},
		"body preserved byte for byte": {
			content:      "---\nname: test\n---\n\n  indented\n\ntrailing\n",
			wantMetadata: "name: test",
			wantBody:     "\n  indented\n\ntrailing\n",
			wantHas:      true,
			wantDelim:    "---",
		},
		"delimiter-like line inside body": {
			content:      "---\nname: test\n---\nfirst\n---\nsecond",
			wantMetadata: "name: test",
			wantBody:     "first\n---\nsecond",
			wantHas:      true,
			wantDelim:    "---",
		},
		"longer dash line is metadata not a fence": {
			content:      "---\nname: test\n----\nstill metadata\n---\nBody",
			wantMetadata: "name: test\n----\nstill metadata",
			wantBody:     "Body",
			wantHas:      true,
			wantDelim:    "---",
		},
		"longer dash line alone never closes": {
			content:  "---\nname: test\n----\n",
			wantBody: "---\nname: test\n----\n",
			wantHas:  false,
		},
		"closing fence at end of file": {
			content:      "---\nname: test\n---",
			wantMetadata: "name: test",
			wantBody:     "",
			wantHas:      true,
			wantDelim:    "---",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result := Split([]byte(tt.content))

			if result.HasMetadata != tt.wantHas {
				t.Errorf("HasMetadata = %v, want %v", result.HasMetadata, tt.wantHas)
			}
			if string(result.Metadata) != tt.wantMetadata {
				t.Errorf("Metadata = %q, want %q", result.Metadata, tt.wantMetadata)
			}
			if result.Body != tt.wantBody {
				t.Errorf("Body = %q, want %q", result.Body, tt.wantBody)
			}
			if tt.wantHas && result.Delimiter != tt.wantDelim {
				t.Errorf("Delimiter = %q, want %q", result.Delimiter, tt.wantDelim)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		content   string
		wantName  string
		wantDesc  string
		wantExtra map[string]string
		wantBody  string
		wantErr   error
	}{
		"minimal valid skill": {
			content:  "---\nname: greeting\ndescription: Says hello\n---\nHello",
			wantName: "greeting",
			wantDesc: "Says hello",
			wantBody: "Hello",
		},
		"extra fields preserved": {
			content:  "---\nname: deploy\ndescription: Deploy helper\nversion: 1.2.0\nauthor: dev\n---\nSteps",
			wantName: "deploy",
			wantDesc: "Deploy helper",
			wantExtra: map[string]string{
				"version": "1.2.0",
				"author":  "dev",
			},
			wantBody: "Steps",
		},
		"toml metadata": {
			content:  "+++\nname = \"toml-skill\"\ndescription = \"Uses TOML\"\n+++\nBody",
			wantName: "toml-skill",
			wantDesc: "Uses TOML",
			wantBody: "Body",
		},
		"no metadata block": {
			content: "just a document",
			wantErr: ErrMissingMetadataBlock,
		},
		"unclosed fence": {
			content: "---\nname: broken\ndescription: never closed",
			wantErr: ErrMissingMetadataBlock,
		},
		"missing name": {
			content: "---\ndescription: No name here\n---\nBody",
			wantErr: ErrMissingRequiredField,
		},
		"missing description": {
			content: "---\nname: no-desc\n---\nBody",
			wantErr: ErrMissingRequiredField,
		},
		"whitespace-only name": {
			content: "---\nname: \"   \"\ndescription: Something\n---\nBody",
			wantErr: ErrMissingRequiredField,
		},
		"nested value rejected": {
			content: "---\nname: nested\ndescription: Has a list\ntags:\n  - one\n  - two\n---\nBody",
			wantErr: ErrMalformedField,
		},
		"unparseable metadata": {
			content: "---\nname: [unclosed\n---\nBody",
			wantErr: ErrMalformedField,
		},
		"name and description trimmed": {
			content:  "---\nname: \"  padded  \"\ndescription: \"  spaced  \"\n---\nBody",
			wantName: "padded",
			wantDesc: "spaced",
			wantBody: "Body",
		},
		"numeric extra value stringified": {
			content:  "---\nname: versioned\ndescription: Carries a number\npriority: 7\n---\nBody",
			wantName: "versioned",
			wantDesc: "Carries a number",
			wantExtra: map[string]string{
				"priority": "7",
			},
			wantBody: "Body",
		},
		"body never trimmed": {
			content:  "---\nname: raw\ndescription: Raw body\n---\n\n  leading blank and indent\n",
			wantName: "raw",
			wantDesc: "Raw body",
			wantBody: "\n  leading blank and indent\n",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m, body, err := Parse([]byte(tt.content))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() unexpected error: %v", err)
			}

			if m.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", m.Name, tt.wantName)
			}
			if m.Description != tt.wantDesc {
				t.Errorf("Description = %q, want %q", m.Description, tt.wantDesc)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}

			if len(m.Extra) != len(tt.wantExtra) {
				t.Errorf("Extra = %v, want %v", m.Extra, tt.wantExtra)
			}
			for key, want := range tt.wantExtra {
				if got := m.Extra[key]; got != want {
					t.Errorf("Extra[%q] = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestDiagnosticCode(t *testing.T) {
	tests := map[string]struct {
		err      error
		wantCode model.DiagnosticCode
		wantOK   bool
	}{
		"missing metadata block": {
			err:      ErrMissingMetadataBlock,
			wantCode: model.CodeMissingMetadataBlock,
			wantOK:   true,
		},
		"missing required field wrapped": {
			err:      errors.Join(errors.New("context"), ErrMissingRequiredField),
			wantCode: model.CodeMissingRequiredField,
			wantOK:   true,
		},
		"malformed field": {
			err:      ErrMalformedField,
			wantCode: model.CodeMalformedField,
			wantOK:   true,
		},
		"unrelated error": {
			err:    errors.New("disk on fire"),
			wantOK: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			code, ok := DiagnosticCode(tt.err)
			if ok != tt.wantOK {
				t.Fatalf("DiagnosticCode() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && code != tt.wantCode {
				t.Errorf("DiagnosticCode() = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestRenderRoundTrip(t *testing.T) {
	tests := map[string]struct {
		manifest model.Manifest
		body     string
	}{
		"simple": {
			manifest: model.Manifest{Name: "simple", Description: "A simple skill"},
			body:     "Do the thing.\n",
		},
		"extra fields": {
			manifest: model.Manifest{
				Name:        "rich",
				Description: "Carries metadata",
				Extra:       map[string]string{"version": "2.0", "author": "dev"},
			},
			body: "Body with\nmultiple lines\n",
		},
		"value needing quoting": {
			manifest: model.Manifest{
				Name:        "quoted",
				Description: "Includes: a colon",
			},
			body: "Body\n",
		},
		"empty body": {
			manifest: model.Manifest{Name: "bare", Description: "No body"},
			body:     "",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			rendered := Render(tt.manifest, tt.body)

			m, body, err := Parse(rendered)
			if err != nil {
				t.Fatalf("Parse(Render()) failed: %v\nrendered:\n%s", err, rendered)
			}

			if m.Name != tt.manifest.Name {
				t.Errorf("Name = %q, want %q", m.Name, tt.manifest.Name)
			}
			if m.Description != tt.manifest.Description {
				t.Errorf("Description = %q, want %q", m.Description, tt.manifest.Description)
			}
			if body != tt.body {
				t.Errorf("body = %q, want %q", body, tt.body)
			}
			for key, want := range tt.manifest.Extra {
				if got := m.Extra[key]; got != want {
					t.Errorf("Extra[%q] = %q, want %q", key, got, want)
				}
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	tests := map[string]struct {
		skillName string
		wantErr   bool
	}{
		"valid kebab-case":       {skillName: "code-review", wantErr: false},
		"valid with underscore":  {skillName: "data_export", wantErr: false},
		"valid with digits":      {skillName: "v2-migration", wantErr: false},
		"empty":                  {skillName: "", wantErr: true},
		"leading whitespace":     {skillName: " padded", wantErr: true},
		"contains space":         {skillName: "two words", wantErr: true},
		"contains slash":         {skillName: "a/b", wantErr: true},
		"contains unicode":       {skillName: "café", wantErr: true},
		"uppercase still valid":  {skillName: "MySkill", wantErr: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			err := ValidateName(tt.skillName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.skillName, err, tt.wantErr)
			}
		})
	}
}

func TestParseLargeBody(t *testing.T) {
	body := strings.Repeat("A line of instructions.\n", 5000)
	content := "---\nname: big\ndescription: Large body\n---\n" + body

	m, parsedBody, err := Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if m.Name != "big" {
		t.Errorf("Name = %q, want %q", m.Name, "big")
	}
	if parsedBody != body {
		t.Errorf("body not preserved verbatim: got %d bytes, want %d", len(parsedBody), len(body))
	}
}
