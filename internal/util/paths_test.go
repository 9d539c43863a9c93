package util

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestPaths(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Skip("no home directory available")
	}

	if got := ConfigDir(); got != filepath.Join(home, ".openskills") {
		t.Errorf("ConfigDir() = %q", got)
	}
	if got := ConfigFilePath(); !strings.HasSuffix(got, "config.yaml") {
		t.Errorf("ConfigFilePath() = %q", got)
	}
	if got := UserSkillsPath(); got != filepath.Join(home, ".openskills", "skills") {
		t.Errorf("UserSkillsPath() = %q", got)
	}
	if got := CacheDir(); got != filepath.Join(home, ".openskills", "cache") {
		t.Errorf("CacheDir() = %q", got)
	}
	if got := ProjectSkillsPath("/repo"); got != filepath.Join("/repo", "skills") {
		t.Errorf("ProjectSkillsPath() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home := HomeDir()
	if home == "" {
		t.Skip("no home directory available")
	}

	tests := map[string]struct {
		input string
		want  string
	}{
		"bare tilde":    {input: "~", want: home},
		"tilde slash":   {input: "~/skills", want: filepath.Join(home, "skills")},
		"absolute path": {input: "/opt/skills", want: "/opt/skills"},
		"relative path": {input: "skills", want: "skills"},
		"tilde in name": {input: "~user/skills", want: "~user/skills"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ExpandHome(tt.input); got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
