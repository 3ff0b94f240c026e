// Package config manages the per-project hokusai configuration record
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// Dir is the project subdirectory holding generated hokusai files
	Dir = "hokusai"

	// FileName is the configuration record written by setup
	FileName = "config.yml"
)

// ProjectConfig is the project configuration record
type ProjectConfig struct {
	// ProjectName is the normalized project name
	ProjectName string `yaml:"project-name"`

	// AWSAccountID is the account owning the image repository
	AWSAccountID string `yaml:"aws-account-id"`

	// AWSECRRegion is the region of the image repository
	AWSECRRegion string `yaml:"aws-ecr-region"`
}

// Path returns the configuration record path under a project root
func Path(root string) string {
	return filepath.Join(root, Dir, FileName)
}

// Validate checks that every key is present
func (c *ProjectConfig) Validate() error {
	var missing []string
	if c.ProjectName == "" {
		missing = append(missing, "project-name")
	}
	if c.AWSAccountID == "" {
		missing = append(missing, "aws-account-id")
	}
	if c.AWSECRRegion == "" {
		missing = append(missing, "aws-ecr-region")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Marshal renders the record as YAML with 2-space indentation
func (c *ProjectConfig) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads the configuration record from a project root
func Load(root string) (*ProjectConfig, error) {
	file, err := Detect(root)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Clean(file.Path)) // #nosec G304 - path is built from the project root
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// WriteFileAtomic writes data to a temp file then renames it into place
func WriteFileAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return err
	}

	if err := os.Rename(tempPath, path); err != nil {
		// Clean up temp file on error
		_ = os.Remove(tempPath)
		return err
	}
	return nil
}
