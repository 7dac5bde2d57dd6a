package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxSuiteNameLength bounds suite identifiers.
const MaxSuiteNameLength = 128

// suiteNameRegex matches suite identifiers such as "a" or
// "x25519-blake2s" or "P256_SHA256".
var suiteNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateSuiteName validates a suite identifier.
//
// The rules:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of MaxSuiteNameLength characters
//   - Letters, digits, '.', '_' and '-' only, starting with a letter or digit
func ValidateSuiteName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidCatalog, "suite name cannot be empty")
	}

	if len(name) > MaxSuiteNameLength {
		return New(ErrCodeInvalidCatalog, "suite name too long (max %d characters)", MaxSuiteNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCatalog, "suite name %q contains whitespace or control characters", name)
		}
	}

	if !suiteNameRegex.MatchString(name) {
		return New(ErrCodeInvalidCatalog, "invalid suite name: %q", name)
	}

	return nil
}

// ValidatePath validates a catalog or config file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// SplitSuiteList parses a comma-separated suite list such as "a,c, d"
// into trimmed names. Empty entries are rejected.
func SplitSuiteList(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, New(ErrCodeInvalidInput, "suite list cannot be empty")
	}
	parts := strings.Split(s, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			return nil, New(ErrCodeInvalidInput, "empty entry in suite list %q", s)
		}
		names = append(names, name)
	}
	return names, nil
}
