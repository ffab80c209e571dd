package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// ValidateFilenamePattern validates a manifest filename glob pattern.
// It ensures the pattern is a simple basename glob without path components
// and that it is well-formed according to filepath.Match syntax.
func ValidateFilenamePattern(pattern string) error {
	if pattern == "" {
		return New(ErrCodeInvalidPattern, "filename pattern cannot be empty")
	}

	// Patterns match basenames only, never paths
	if strings.ContainsAny(pattern, "/\\") {
		return New(ErrCodeInvalidPattern, "filename pattern cannot contain path separators: %q", pattern)
	}

	// Check syntax with a throwaway match
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return Wrap(ErrCodeInvalidPattern, err, "malformed filename pattern: %q", pattern)
	}

	return nil
}

// ValidateOutputPath validates an output artifact path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "output path cannot be empty")
	}

	if len(path) > 500 {
		return New(ErrCodeInvalidPath, "output path too long (max 500 characters)")
	}

	for _, r := range path {
		if r == 0 || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidPath, "output path contains invalid control characters")
		}
	}

	return nil
}

// ValidateLocation validates a configured scan root location.
// The path must be non-empty and free of null bytes; existence is checked
// at traversal time, not here, so partially missing roots stay non-fatal.
func ValidateLocation(name, path string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "location name cannot be empty")
	}
	if path == "" {
		return New(ErrCodeInvalidConfig, "location %q has an empty path", name)
	}
	if strings.ContainsRune(path, 0) {
		return New(ErrCodeInvalidPath, "location %q contains a null byte", name)
	}
	return nil
}
