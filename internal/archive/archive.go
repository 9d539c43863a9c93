// Package archive bundles skill directories into portable tar.gz files and
// extracts them back. A bundle preserves the SKILL.md-at-root convention so
// an extracted skill can be installed or discovered without transformation.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauern/openskills/internal/model"
)

// Manifest describes the contents of a bundle.
type Manifest struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Files       []string  `json:"files"`
}

const (
	manifestVersion  = "1.0"
	manifestFileName = "bundle.json"
)

// Create writes a tar.gz bundle of one skill directory to w. The skill's
// directory name becomes the top-level directory inside the archive, with
// its SKILL.md and supplementary files beneath it.
func Create(skillDir string, skill model.Manifest, w io.Writer) error {
	gzWriter := gzip.NewWriter(w)
	defer func() { _ = gzWriter.Close() }()

	tarWriter := tar.NewWriter(gzWriter)
	defer func() { _ = tarWriter.Close() }()

	base := filepath.Base(skillDir)
	manifest := Manifest{
		Version:     manifestVersion,
		CreatedAt:   time.Now(),
		Name:        skill.Name,
		Description: skill.Description,
	}

	err := filepath.WalkDir(skillDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(skillDir, p)
		if err != nil {
			return err
		}
		archivePath := path.Join(base, filepath.ToSlash(rel))

		info, err := d.Info()
		if err != nil {
			return err
		}

		// #nosec G304 - p comes from walking the skill directory
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %q: %w", p, err)
		}

		header := &tar.Header{
			Name:    archivePath,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: info.ModTime(),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %q: %w", archivePath, err)
		}
		if _, err := tarWriter.Write(data); err != nil {
			return fmt.Errorf("failed to write %q: %w", archivePath, err)
		}

		manifest.Files = append(manifest.Files, archivePath)
		return nil
	})
	if err != nil {
		return err
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize bundle manifest: %w", err)
	}

	manifestHeader := &tar.Header{
		Name:    manifestFileName,
		Mode:    0o644,
		Size:    int64(len(manifestData)),
		ModTime: time.Now(),
	}
	if err := tarWriter.WriteHeader(manifestHeader); err != nil {
		return fmt.Errorf("failed to write bundle manifest header: %w", err)
	}
	if _, err := tarWriter.Write(manifestData); err != nil {
		return fmt.Errorf("failed to write bundle manifest: %w", err)
	}

	return nil
}

// ExtractOptions configures bundle extraction.
type ExtractOptions struct {
	// TargetDir is where the bundled skill directory is recreated.
	TargetDir string
	// DryRun lists contents without writing anything.
	DryRun bool
}

// Extract reads a tar.gz bundle and recreates the skill directory beneath
// opts.TargetDir. Returns the bundle manifest and the extracted skill
// directory path (empty on dry runs).
func Extract(r io.Reader, opts ExtractOptions) (*Manifest, string, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gzReader.Close() }()

	tarReader := tar.NewReader(gzReader)

	var manifest *Manifest
	var skillDir string

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to read tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		data, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read entry %q: %w", header.Name, err)
		}

		if header.Name == manifestFileName {
			if err := json.Unmarshal(data, &manifest); err != nil {
				return nil, "", fmt.Errorf("failed to parse bundle manifest: %w", err)
			}
			continue
		}

		cleanName, err := safeArchivePath(header.Name)
		if err != nil {
			return nil, "", err
		}

		if skillDir == "" {
			top := strings.SplitN(cleanName, "/", 2)[0]
			skillDir = filepath.Join(opts.TargetDir, top)
		}

		if opts.DryRun {
			continue
		}

		target := filepath.Join(opts.TargetDir, filepath.FromSlash(cleanName))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return nil, "", fmt.Errorf("failed to create directory for %q: %w", cleanName, err)
		}
		// #nosec G306 - extracted skill files should be readable by user
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return nil, "", fmt.Errorf("failed to write %q: %w", cleanName, err)
		}
	}

	if manifest == nil {
		return nil, "", fmt.Errorf("bundle missing %s", manifestFileName)
	}
	if opts.DryRun {
		return manifest, "", nil
	}

	return manifest, skillDir, nil
}

// safeArchivePath rejects entries that would escape the extraction target.
func safeArchivePath(name string) (string, error) {
	clean := path.Clean(filepath.ToSlash(name))
	if clean == "." || clean == ".." ||
		strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", fmt.Errorf("bundle entry %q escapes the target directory", name)
	}
	return clean, nil
}
