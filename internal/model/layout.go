package model

import (
	"fmt"
	"strings"
)

// Layout describes how skill directories are organized beneath a root.
// Historically, skill collections shipped with several competing conventions
// (a flat skills directory, grouped subdirectories, tool-prefixed roots).
// The canonical layout is flat; the others are accepted as legacy aliases so
// existing collections keep loading, but new skills are always created flat.
type Layout string

const (
	// LayoutFlat is the canonical layout: <root>/<skill>/SKILL.md.
	LayoutFlat Layout = "flat"

	// LayoutGrouped is a legacy layout with one grouping level:
	// <root>/<group>/<skill>/SKILL.md. Group directories carry no SKILL.md
	// of their own.
	LayoutGrouped Layout = "grouped"
)

// IsValid returns true if the layout is recognized.
func (l Layout) IsValid() bool {
	switch l {
	case LayoutFlat, LayoutGrouped:
		return true
	default:
		return false
	}
}

// IsLegacy returns true for layouts kept only for backward compatibility.
func (l Layout) IsLegacy() bool {
	return l == LayoutGrouped
}

// String returns the string representation of the layout.
func (l Layout) String() string {
	return string(l)
}

// Description returns a human-readable description of the layout.
func (l Layout) Description() string {
	switch l {
	case LayoutFlat:
		return "Flat skill directories directly beneath the root"
	case LayoutGrouped:
		return "Skill directories nested one grouping level beneath the root (legacy)"
	default:
		return "Unknown layout"
	}
}

// MaxDepth returns how many directory levels beneath a root Discovery
// descends when looking for manifests.
func (l Layout) MaxDepth() int {
	if l == LayoutGrouped {
		return 2
	}
	return 1
}

// AllLayouts returns all supported layouts, canonical first.
func AllLayouts() []Layout {
	return []Layout{LayoutFlat, LayoutGrouped}
}

// ParseLayout converts a string to a Layout.
// Returns an error if the layout is not recognized.
func ParseLayout(s string) (Layout, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))

	layout := Layout(normalized)
	if layout.IsValid() {
		return layout, nil
	}

	switch normalized {
	case "canonical", "default":
		return LayoutFlat, nil
	case "nested", "legacy":
		return LayoutGrouped, nil
	default:
		return "", fmt.Errorf("unknown layout %q (valid: flat, grouped)", s)
	}
}
