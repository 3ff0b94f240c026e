package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ConfigFile represents a detected configuration file
type ConfigFile struct {
	Path   string
	Format string
}

// candidates in priority order; setup always writes the first
var candidates = []string{FileName, "config.yaml"}

// Detect finds the configuration record under a project root
func Detect(root string) (*ConfigFile, error) {
	var looked []string
	for _, name := range candidates {
		path := filepath.Join(root, Dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return &ConfigFile{Path: path, Format: detectFormat(path)}, nil
		}
		looked = append(looked, path)
	}
	return nil, fmt.Errorf("no hokusai configuration file found. Looked for: %v", looked)
}

// Exists reports whether a project root already has a configuration record
func Exists(root string) bool {
	_, err := Detect(root)
	return err == nil
}

func detectFormat(path string) string {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "unknown"
	}
}
