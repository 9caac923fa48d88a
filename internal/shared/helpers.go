// Package shared provides common utility functions used across multiple
// packages in the monpkg codebase.
package shared

import (
	"fmt"
	"strings"
)

// NormalizeName lowercases a package name and replaces underscores and
// dots with hyphens, following PEP 503 normalization. System package
// names pass through unchanged apart from trimming and lowercasing.
func NormalizeName(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	replacer := strings.NewReplacer("_", "-", ".", "-")
	return replacer.Replace(lower)
}

// CommandError wraps a command execution error with its trimmed output
// for cleaner error messages.
func CommandError(output []byte, err error) error {
	return fmt.Errorf("%s: %w", strings.TrimSpace(string(output)), err)
}
