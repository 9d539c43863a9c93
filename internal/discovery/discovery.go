// Package discovery finds candidate skill directories beneath configured
// roots. A candidate is any directory carrying a SKILL.md manifest at its
// root. Discovery only locates manifests; parsing and admission happen in
// the loader.
package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/klauern/openskills/internal/logging"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/util"
)

// Candidate is one discovered skill directory.
type Candidate struct {
	// Dir is the skill directory path.
	Dir string
	// ManifestPath is Dir joined with the manifest file name.
	ManifestPath string
	// Root is the configured root the candidate was found under.
	Root string
}

// Discovery walks configured roots looking for skill directories.
type Discovery struct {
	roots  []string
	layout model.Layout
}

// Option configures a Discovery.
type Option func(*Discovery) error

// WithRoots sets the root directories to search, in precedence order.
func WithRoots(roots ...string) Option {
	return func(d *Discovery) error {
		if len(roots) == 0 {
			return fmt.Errorf("at least one root is required")
		}
		d.roots = roots
		return nil
	}
}

// WithLayout sets the root directory layout. Defaults to the flat layout.
func WithLayout(layout model.Layout) Option {
	return func(d *Discovery) error {
		if !layout.IsValid() {
			return fmt.Errorf("invalid layout %q", layout)
		}
		d.layout = layout
		return nil
	}
}

// WithDefaultRoots configures the standard search roots: the repo-local
// skills directory (highest precedence) followed by the user-level one.
func WithDefaultRoots() Option {
	return func(d *Discovery) error {
		d.roots = []string{
			util.ProjectSkillsPath("."),
			util.UserSkillsPath(),
		}
		return nil
	}
}

// New creates a Discovery. With no options, the default roots are used.
func New(opts ...Option) (*Discovery, error) {
	d := &Discovery{layout: model.LayoutFlat}

	if len(opts) == 0 {
		opts = []Option{WithDefaultRoots()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Roots returns the configured roots in search order.
func (d *Discovery) Roots() []string {
	return slices.Clone(d.roots)
}

// Each streams candidates in deterministic traversal order: roots in
// configured order, directory entries lexicographically within each root.
// Roots that do not exist are skipped silently. Returning an error from fn
// stops the walk.
func (d *Discovery) Each(fn func(Candidate) error) error {
	for _, root := range d.roots {
		if err := d.walkRoot(root, root, d.layout.MaxDepth(), fn); err != nil {
			return err
		}
	}
	return nil
}

// Candidates collects all candidates into a slice.
func (d *Discovery) Candidates() ([]Candidate, error) {
	var candidates []Candidate
	err := d.Each(func(c Candidate) error {
		candidates = append(candidates, c)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debug("discovery pass completed",
		logging.Count(len(candidates)),
	)
	return candidates, nil
}

// walkRoot descends up to depth levels beneath dir. A directory containing a
// manifest is yielded and never descended into, so skills nested inside
// another skill's references/, scripts/, or assets/ directories are never
// treated as independent skills.
func (d *Discovery) walkRoot(root, dir string, depth int, fn func(Candidate) error) error {
	if depth <= 0 {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("skill root not found", logging.Root(dir))
			return nil
		}
		logging.Warn("skipping unreadable directory",
			logging.Path(dir),
			logging.Err(err),
		)
		return nil
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		entryPath := filepath.Join(dir, entry.Name())

		// Follow symlinked skill directories.
		info, err := os.Stat(entryPath)
		if err != nil || !info.IsDir() {
			continue
		}

		if slices.Contains(model.SupportDirNames, entry.Name()) {
			continue
		}

		manifestPath := filepath.Join(entryPath, model.ManifestFileName)
		if hasManifest(manifestPath) {
			if err := fn(Candidate{Dir: entryPath, ManifestPath: manifestPath, Root: root}); err != nil {
				return err
			}
			continue
		}

		// No manifest here; a grouped layout allows one more level down.
		if err := d.walkRoot(root, entryPath, depth-1, fn); err != nil {
			return err
		}
	}

	return nil
}

// hasManifest reports whether path exists and is a regular file.
func hasManifest(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsSkillDir reports whether a directory carries a manifest at its root.
func IsSkillDir(dir string) bool {
	return hasManifest(filepath.Join(dir, model.ManifestFileName))
}

// SupportFiles lists files beneath the well-known supplementary directories
// of a skill, relative to the skill directory. The files themselves are
// opaque to the loader.
func SupportFiles(skillDir, subdir string) []string {
	entries, err := os.ReadDir(filepath.Join(skillDir, subdir))
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() {
			files = append(files, filepath.Join(subdir, entry.Name()))
		}
	}
	return files
}
