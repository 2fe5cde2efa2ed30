package config

import (
	"os"
	"path/filepath"

	"github.com/nickalie/crawlship/internal/util"
)

// File names recognized as a project configuration, in discovery order.
var configFileNames = []string{
	"crawlship.cfg",
	"crawlship.yaml",
	"crawlship.yml",
	"crawlship.toml",
	"crawlship.json",
}

// Closest walks up from dir looking for the nearest project configuration
// file. Its presence is what makes a directory part of a crawler project.
func Closest(dir string) (string, bool) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range configFileNames {
			path := filepath.Join(abs, name)
			if util.Exists(path) {
				return path, true
			}
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", false
		}
		abs = parent
	}
}

// ProjectRoot returns the directory owning a discovered configuration file.
func ProjectRoot(configPath string) string {
	return filepath.Dir(configPath)
}

// globalConfigPaths lists the machine and user level configuration files
// that exist, lowest precedence first.
func globalConfigPaths() []string {
	candidates := []string{"/etc/crawlship.cfg"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".crawlship.cfg"))
	}

	var existing []string
	for _, path := range candidates {
		if util.Exists(path) {
			existing = append(existing, path)
		}
	}
	return existing
}
