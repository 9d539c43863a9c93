// Package install copies skill directories into a configured root,
// preserving the SKILL.md-at-root convention that discovery relies on.
package install

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauern/openskills/internal/archive"
	"github.com/klauern/openskills/internal/logging"
	"github.com/klauern/openskills/internal/manifest"
	"github.com/klauern/openskills/internal/model"
)

// Options configures an install.
type Options struct {
	// Root is the skills root the skill is installed into.
	Root string
	// Force overwrites an existing skill directory of the same name.
	Force bool
	// DryRun reports what would happen without writing anything.
	DryRun bool
}

// Result describes a completed install.
type Result struct {
	// Manifest is the installed skill's parsed manifest.
	Manifest model.Manifest
	// TargetDir is the directory the skill now lives in.
	TargetDir string
	// Files is the number of files copied.
	Files int
}

// Install copies the skill directory src into opts.Root. The source is
// parsed and validated first; a directory that does not hold a loadable
// manifest is never installed. The target directory is named after the
// skill, so the installed copy follows the flat canonical layout.
func Install(src string, opts Options) (*Result, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("install root is required")
	}

	manifestPath := filepath.Join(src, model.ManifestFileName)
	// #nosec G304 - src is the user-provided skill directory
	content, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%q is not a skill directory: %w", src, err)
	}

	m, _, err := manifest.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("refusing to install %q: %w", src, err)
	}
	if err := manifest.ValidateName(m.Name); err != nil {
		return nil, fmt.Errorf("refusing to install %q: %w", src, err)
	}

	targetDir := filepath.Join(opts.Root, m.Name)

	if _, err := os.Lstat(targetDir); err == nil {
		if !opts.Force {
			return nil, fmt.Errorf("skill %q already installed at %s (use --force to overwrite)", m.Name, targetDir)
		}
		if !opts.DryRun {
			if err := removeExisting(targetDir); err != nil {
				return nil, err
			}
		}
	}

	result := &Result{Manifest: m, TargetDir: targetDir}

	if opts.DryRun {
		err := filepath.WalkDir(src, func(_ string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				result.Files++
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	files, err := copyTree(src, targetDir)
	if err != nil {
		return nil, err
	}
	result.Files = files

	logging.Info("skill installed",
		logging.Skill(m.Name),
		logging.Path(targetDir),
		logging.Count(files),
	)

	return result, nil
}

// InstallBundle extracts a tar.gz bundle into a temporary directory and
// installs the skill it contains.
func InstallBundle(bundlePath string, opts Options) (*Result, error) {
	// #nosec G304 - bundlePath is the user-provided bundle file
	f, err := os.Open(bundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open bundle: %w", err)
	}
	defer func() { _ = f.Close() }()

	staging, err := os.MkdirTemp("", "openskills-install-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(staging) }()

	_, skillDir, err := archive.Extract(f, archive.ExtractOptions{TargetDir: staging})
	if err != nil {
		return nil, fmt.Errorf("failed to extract bundle: %w", err)
	}
	if skillDir == "" {
		return nil, fmt.Errorf("bundle %q contains no skill directory", bundlePath)
	}

	return Install(skillDir, opts)
}

// IsBundlePath reports whether path looks like a skill bundle file.
func IsBundlePath(path string) bool {
	return strings.HasSuffix(path, ".tar.gz") || strings.HasSuffix(path, ".tgz")
}

// copyTree copies all regular files beneath src into dst, preserving
// relative paths. Symlinks inside the source are followed; what gets
// installed is always a plain directory tree.
func copyTree(src, dst string) (int, error) {
	files := 0

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0o750)
		}

		if err := copyFile(p, target); err != nil {
			return err
		}
		files++
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to copy skill directory: %w", err)
	}

	return files, nil
}

// copyFile copies one file's contents.
func copyFile(src, dst string) error {
	// #nosec G304 - src comes from walking the source skill directory
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", dst, err)
	}

	// #nosec G304 - dst is beneath the validated install target
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy %q: %w", src, err)
	}

	return out.Close()
}

// removeExisting removes a file, symlink, or directory at the given path.
// Uses os.Lstat to not follow symlinks, ensuring symlinks are removed as entries.
func removeExisting(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to remove directory %q: %w", path, err)
		}
		logging.Debug("removed existing directory", logging.Path(path))
		return nil
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	logging.Debug("removed existing entry", logging.Path(path))
	return nil
}
