// Package template generates SKILL.md scaffolding for new skills.
package template

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
)

// Type represents the type of skill template
type Type string

const (
	// Guide scaffolds an instructional skill.
	Guide Type = "guide"
	// Workflow scaffolds a multi-step workflow skill.
	Workflow Type = "workflow"
	// Reference scaffolds a skill built around reference material.
	Reference Type = "reference"
)

// Data holds the data passed to templates
type Data struct {
	Name        string
	Description string
	Author      string
	Year        int
}

// Generator handles skill template generation
type Generator struct {
	templates map[Type]*template.Template
}

// New creates a new template generator with built-in templates
func New() (*Generator, error) {
	g := &Generator{
		templates: make(map[Type]*template.Template),
	}

	if err := g.loadBuiltinTemplates(); err != nil {
		return nil, fmt.Errorf("failed to load built-in templates: %w", err)
	}

	return g, nil
}

// loadBuiltinTemplates loads all built-in templates
func (g *Generator) loadBuiltinTemplates() error {
	templates := map[Type]string{
		Guide:     guideTemplate,
		Workflow:  workflowTemplate,
		Reference: referenceTemplate,
	}

	for typ, content := range templates {
		tmpl, err := template.New(string(typ)).Parse(content)
		if err != nil {
			return fmt.Errorf("failed to parse %s template: %w", typ, err)
		}
		g.templates[typ] = tmpl
	}

	return nil
}

// LoadCustomTemplate loads a custom template from a file
func (g *Generator) LoadCustomTemplate(name string, path string) error {
	// #nosec G304 - path is the user-provided template file
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read template file: %w", err)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	g.templates[Type(name)] = tmpl
	return nil
}

// Generate generates SKILL.md content from a template
func (g *Generator) Generate(typ Type, data Data) (string, error) {
	tmpl, exists := g.templates[typ]
	if !exists {
		return "", fmt.Errorf("template %s not found", typ)
	}

	if data.Year == 0 {
		data.Year = time.Now().Year()
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// ValidateGenerated checks that generated content parses as a loadable skill
func (g *Generator) ValidateGenerated(content string) error {
	if _, _, err := manifest.Parse([]byte(content)); err != nil {
		return fmt.Errorf("generated content is not a loadable skill: %w", err)
	}
	return nil
}

// CreateSkillDir scaffolds a skill directory beneath root: the generated
// SKILL.md plus empty references/ and scripts/ stubs for the guide and
// workflow templates.
func (g *Generator) CreateSkillDir(typ Type, data Data, root string) (string, error) {
	content, err := g.Generate(typ, data)
	if err != nil {
		return "", err
	}

	if err := g.ValidateGenerated(content); err != nil {
		return "", err
	}

	skillDir := filepath.Join(root, data.Name)
	if err := os.MkdirAll(skillDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create skill directory: %w", err)
	}

	skillPath := filepath.Join(skillDir, model.ManifestFileName)
	// #nosec G306 - skill files should be readable by user
	if err := os.WriteFile(skillPath, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write skill file: %w", err)
	}

	var subdirs []string
	switch typ {
	case Reference:
		subdirs = []string{"references"}
	case Workflow:
		subdirs = []string{"references", "scripts"}
	case Guide:
		subdirs = []string{"references"}
	}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(skillDir, subdir), 0o750); err != nil {
			return "", fmt.Errorf("failed to create %s directory: %w", subdir, err)
		}
	}

	return skillPath, nil
}

// ListTemplates returns a list of available template types
func (g *Generator) ListTemplates() []string {
	templates := make([]string, 0, len(g.templates))
	for typ := range g.templates {
		templates = append(templates, string(typ))
	}
	return templates
}

// ParseType parses a template type string
func ParseType(s string) (Type, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "guide", "instructions":
		return Guide, nil
	case "workflow", "flow":
		return Workflow, nil
	case "reference", "ref":
		return Reference, nil
	default:
		return "", fmt.Errorf("unknown template type %q (valid: guide, workflow, reference)", s)
	}
}
