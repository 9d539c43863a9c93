package util

import (
	"os"
	"path/filepath"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// ConfigDir returns the openskills configuration directory
func ConfigDir() string {
	return filepath.Join(HomeDir(), ".openskills")
}

// ConfigFilePath returns the path of the openskills config file
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// UserSkillsPath returns the user-level skills root
func UserSkillsPath() string {
	return filepath.Join(ConfigDir(), "skills")
}

// ProjectSkillsPath returns the repo-local skills root for a project
func ProjectSkillsPath(projectDir string) string {
	return filepath.Join(projectDir, "skills")
}

// CacheDir returns the cache directory
func CacheDir() string {
	return filepath.Join(ConfigDir(), "cache")
}

// ExpandHome expands a leading ~ in a path to the user's home directory
func ExpandHome(path string) string {
	if path == "~" {
		return HomeDir()
	}
	if len(path) > 1 && path[0] == '~' && (path[1] == '/' || path[1] == filepath.Separator) {
		return filepath.Join(HomeDir(), path[2:])
	}
	return path
}
