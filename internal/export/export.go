// Package export serializes registry entries for consumption by external
// tools.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/klauern/openskills/internal/logging"
	"github.com/klauern/openskills/internal/model"
)

// Format represents the output format for exported skills.
type Format string

const (
	// FormatJSON exports skills as JSON.
	FormatJSON Format = "json"
	// FormatYAML exports skills as YAML.
	FormatYAML Format = "yaml"
	// FormatTOML exports skills as TOML.
	FormatTOML Format = "toml"
	// FormatMarkdown exports skills as Markdown.
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is recognized.
func (f Format) IsValid() bool {
	switch f {
	case FormatJSON, FormatYAML, FormatTOML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// AllFormats returns all supported export formats.
func AllFormats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatTOML, FormatMarkdown}
}

// ParseFormat parses a string into a Format.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	if format == "md" {
		format = FormatMarkdown
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported format %q (valid: json, yaml, toml, markdown)", s)
	}
	return format, nil
}

// Options configures export behavior.
type Options struct {
	// Format specifies the output format.
	Format Format
	// IncludeBody includes the verbatim skill body in the export.
	IncludeBody bool
	// IncludeDiagnostics appends load diagnostics to the export.
	IncludeDiagnostics bool
}

// DefaultOptions returns the default export options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatJSON,
		IncludeBody: true,
	}
}

// Exporter handles exporting skills to different formats.
type Exporter struct {
	opts Options
}

// New creates a new Exporter with the given options.
func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// document is the serialized export shape.
type document struct {
	Skills      []entryView        `json:"skills" yaml:"skills" toml:"skills"`
	Diagnostics []model.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty" toml:"diagnostics,omitempty"`
}

// entryView flattens a registry entry for serialization.
type entryView struct {
	Name        string            `json:"name" yaml:"name" toml:"name"`
	Description string            `json:"description" yaml:"description" toml:"description"`
	SourcePath  string            `json:"source_path" yaml:"source_path" toml:"source_path"`
	Extra       map[string]string `json:"extra,omitempty" yaml:"extra,omitempty" toml:"extra,omitempty"`
	References  []string          `json:"references,omitempty" yaml:"references,omitempty" toml:"references,omitempty"`
	Scripts     []string          `json:"scripts,omitempty" yaml:"scripts,omitempty" toml:"scripts,omitempty"`
	Assets      []string          `json:"assets,omitempty" yaml:"assets,omitempty" toml:"assets,omitempty"`
	Content     string            `json:"content,omitempty" yaml:"content,omitempty" toml:"content,omitempty"`
}

// Export writes the given entries to w in the configured format.
func (e *Exporter) Export(entries []model.Entry, diagnostics []model.Diagnostic, w io.Writer) error {
	defer logging.Timer("export")()

	logging.Debug("starting export",
		slog.String("format", string(e.opts.Format)),
		logging.Count(len(entries)),
		logging.Operation("export"),
	)

	doc := document{Skills: make([]entryView, 0, len(entries))}
	for _, entry := range entries {
		view := entryView{
			Name:        entry.Name(),
			Description: entry.Description(),
			SourcePath:  entry.SourcePath,
			Extra:       entry.Manifest.Extra,
			References:  entry.References,
			Scripts:     entry.Scripts,
			Assets:      entry.Assets,
		}
		if e.opts.IncludeBody {
			view.Content = entry.Content
		}
		doc.Skills = append(doc.Skills, view)
	}
	if e.opts.IncludeDiagnostics {
		doc.Diagnostics = diagnostics
	}

	switch e.opts.Format {
	case FormatJSON:
		return e.exportJSON(doc, w)
	case FormatYAML:
		return e.exportYAML(doc, w)
	case FormatTOML:
		return e.exportTOML(doc, w)
	case FormatMarkdown:
		return e.exportMarkdown(doc, w)
	default:
		return fmt.Errorf("unsupported format: %s", e.opts.Format)
	}
}

func (e *Exporter) exportJSON(doc document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func (e *Exporter) exportYAML(doc document, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return nil
}

func (e *Exporter) exportTOML(doc document, w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}

func (e *Exporter) exportMarkdown(doc document, w io.Writer) error {
	var b strings.Builder
	b.WriteString("# Skills\n\n")

	for _, skill := range doc.Skills {
		b.WriteString("## " + skill.Name + "\n\n")
		b.WriteString(skill.Description + "\n\n")
		b.WriteString("- Source: `" + skill.SourcePath + "`\n")
		keys := make([]string, 0, len(skill.Extra))
		for key := range skill.Extra {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			b.WriteString("- " + key + ": " + skill.Extra[key] + "\n")
		}
		b.WriteString("\n")
		if skill.Content != "" {
			b.WriteString(skill.Content)
			if !strings.HasSuffix(skill.Content, "\n") {
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
	}

	if len(doc.Diagnostics) > 0 {
		b.WriteString("# Diagnostics\n\n")
		for _, diag := range doc.Diagnostics {
			b.WriteString("- " + diag.String() + "\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}
