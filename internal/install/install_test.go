package install

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauern/openskills/internal/archive"
	"github.com/klauern/openskills/internal/model"
	"github.com/klauern/openskills/internal/util"
)

func TestInstall(t *testing.T) {
	src := util.CreateTempDir(t)
	skillDir := util.WriteSkill(t, src, "source-dir", "Installable skill", "Body\n")
	util.WriteFile(t, filepath.Join(skillDir, "references", "notes.md"), "notes")

	// The manifest name, not the source directory name, decides the target.
	util.WriteFile(t, filepath.Join(skillDir, model.ManifestFileName),
		"---\nname: installed-name\ndescription: Installable skill\n---\nBody\n")

	root := util.CreateTempDir(t)
	result, err := Install(skillDir, Options{Root: root})
	util.AssertNoError(t, err)

	util.AssertEqual(t, result.Manifest.Name, "installed-name")
	util.AssertEqual(t, result.TargetDir, filepath.Join(root, "installed-name"))
	util.AssertEqual(t, result.Files, 2)

	if _, err := os.Stat(filepath.Join(result.TargetDir, model.ManifestFileName)); err != nil {
		t.Errorf("installed skill missing manifest: %v", err)
	}
	if _, err := os.Stat(filepath.Join(result.TargetDir, "references", "notes.md")); err != nil {
		t.Errorf("installed skill missing reference file: %v", err)
	}
}

func TestInstallRejectsUnloadableSource(t *testing.T) {
	root := util.CreateTempDir(t)

	tests := map[string]struct {
		setup func(t *testing.T) string
	}{
		"no manifest": {
			setup: func(t *testing.T) string {
				dir := util.CreateTempDir(t)
				util.WriteFile(t, filepath.Join(dir, "README.md"), "not a skill")
				return dir
			},
		},
		"unparseable manifest": {
			setup: func(t *testing.T) string {
				dir := util.CreateTempDir(t)
				util.WriteFile(t, filepath.Join(dir, model.ManifestFileName), "no metadata block")
				return dir
			},
		},
		"invalid name": {
			setup: func(t *testing.T) string {
				dir := util.CreateTempDir(t)
				util.WriteFile(t, filepath.Join(dir, model.ManifestFileName),
					"---\nname: \"has spaces\"\ndescription: Bad name\n---\nBody")
				return dir
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			src := tt.setup(t)
			if _, err := Install(src, Options{Root: root}); err == nil {
				t.Error("Install() succeeded, want rejection")
			}
		})
	}
}

func TestInstallExistingSkill(t *testing.T) {
	src := util.CreateTempDir(t)
	skillDir := util.WriteSkill(t, src, "clash", "New version", "New body\n")

	root := util.CreateTempDir(t)
	util.WriteSkill(t, root, "clash", "Old version", "Old body\n")

	// Without force the existing install is preserved.
	_, err := Install(skillDir, Options{Root: root})
	if err == nil || !strings.Contains(err.Error(), "already installed") {
		t.Fatalf("Install() error = %v, want already-installed", err)
	}

	// Force replaces it.
	result, err := Install(skillDir, Options{Root: root, Force: true})
	util.AssertNoError(t, err)

	content, err := os.ReadFile(filepath.Join(result.TargetDir, model.ManifestFileName))
	util.AssertNoError(t, err)
	if !strings.Contains(string(content), "New version") {
		t.Error("forced install did not replace the existing skill")
	}
}

func TestInstallDryRun(t *testing.T) {
	src := util.CreateTempDir(t)
	skillDir := util.WriteSkill(t, src, "preview", "Dry run skill", "Body\n")
	util.WriteFile(t, filepath.Join(skillDir, "scripts", "go.sh"), "#!/bin/sh\n")

	root := util.CreateTempDir(t)
	result, err := Install(skillDir, Options{Root: root, DryRun: true})
	util.AssertNoError(t, err)

	util.AssertEqual(t, result.Files, 2)
	if _, err := os.Stat(result.TargetDir); !os.IsNotExist(err) {
		t.Error("dry run created the target directory")
	}
}

func TestInstallBundle(t *testing.T) {
	src := util.CreateTempDir(t)
	skillDir := util.WriteSkill(t, src, "bundled", "From a bundle", "Bundle body\n")

	var buf bytes.Buffer
	err := archive.Create(skillDir, model.Manifest{Name: "bundled", Description: "From a bundle"}, &buf)
	util.AssertNoError(t, err)

	bundlePath := filepath.Join(util.CreateTempDir(t), "bundled.tar.gz")
	util.AssertNoError(t, os.WriteFile(bundlePath, buf.Bytes(), 0o600))

	root := util.CreateTempDir(t)
	result, err := InstallBundle(bundlePath, Options{Root: root})
	util.AssertNoError(t, err)

	util.AssertEqual(t, result.Manifest.Name, "bundled")
	if _, err := os.Stat(filepath.Join(root, "bundled", model.ManifestFileName)); err != nil {
		t.Errorf("bundle install missing manifest: %v", err)
	}
}

func TestIsBundlePath(t *testing.T) {
	tests := map[string]struct {
		path string
		want bool
	}{
		"tar.gz":    {path: "skill.tar.gz", want: true},
		"tgz":       {path: "skill.tgz", want: true},
		"directory": {path: "/skills/deploy", want: false},
		"tarball":   {path: "skill.tar", want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			util.AssertEqual(t, IsBundlePath(tt.path), tt.want)
		})
	}
}
