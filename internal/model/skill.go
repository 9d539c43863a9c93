// Package model defines the core data types shared across openskills:
// skill manifests, registry entries, diagnostics, and root layouts.
package model

import "time"

// ManifestFileName is the fixed name of the manifest inside a skill directory.
const ManifestFileName = "SKILL.md"

// SupportDirNames are the well-known subdirectories of a skill that hold
// supplementary material. They are never parsed and never searched for
// nested skills.
var SupportDirNames = []string{"references", "scripts", "assets"}

// Manifest holds the metadata block parsed from the top of a SKILL.md file.
type Manifest struct {
	// Name uniquely identifies the skill within a registry. Kebab-case by
	// convention.
	Name string `json:"name" yaml:"name"`
	// Description tells a consuming tool when to surface the skill.
	Description string `json:"description" yaml:"description"`
	// Extra preserves unrecognized scalar metadata keys. Unknown keys are
	// forward-compatible, not an error.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Entry is a skill admitted into a registry: one manifest, its verbatim body,
// and where it came from. Entries are immutable after admission; a changed
// skill is picked up by rebuilding the registry, never by mutation.
type Entry struct {
	Manifest Manifest `json:"manifest" yaml:"manifest"`

	// Content is the body text after the metadata block, returned verbatim.
	// The loader never interprets it.
	Content string `json:"content" yaml:"content"`

	// SourcePath is the skill directory the entry was loaded from.
	SourcePath string `json:"source_path" yaml:"source_path"`
	// ManifestPath is the full path of the SKILL.md file.
	ManifestPath string `json:"manifest_path" yaml:"manifest_path"`
	// ModifiedAt is the manifest file's modification time.
	ModifiedAt time.Time `json:"modified_at" yaml:"modified_at"`

	// References, Scripts, and Assets list supplementary files relative to
	// SourcePath. Opaque paths only; contents are never read.
	References []string `json:"references,omitempty" yaml:"references,omitempty"`
	Scripts    []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Assets     []string `json:"assets,omitempty" yaml:"assets,omitempty"`
}

// Name returns the entry's unique skill name.
func (e Entry) Name() string {
	return e.Manifest.Name
}

// Description returns the entry's description.
func (e Entry) Description() string {
	return e.Manifest.Description
}
