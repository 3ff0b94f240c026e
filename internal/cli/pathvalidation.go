package cli

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validateUserPath rejects project roots that climb out of the working tree
// or carry shell metacharacters
func validateUserPath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// Clean the path first to resolve any . and .. elements
	cleaned := filepath.Clean(path)

	for _, part := range strings.Split(filepath.ToSlash(cleaned), "/") {
		if part == ".." {
			return fmt.Errorf("path traversal not allowed in path: %s", path)
		}
	}

	if strings.ContainsAny(cleaned, ";|&$`\"'<>(){}[]!*?~") {
		return fmt.Errorf("invalid characters in file path: %s", path)
	}

	return nil
}

// validateAndCleanPath validates a user path and returns the cleaned version
func validateAndCleanPath(path string) (string, error) {
	if err := validateUserPath(path); err != nil {
		return "", err
	}
	return filepath.Clean(path), nil
}
