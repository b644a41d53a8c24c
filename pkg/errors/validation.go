package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// variantNameRegex matches names usable as output file stems.
var variantNameRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._@-]*$`)

// ValidateVariantName validates a variant or asset name.
// Names become file names, so they are kept conservative:
//   - No empty names
//   - Maximum length of 128 characters
//   - No path separators or traversal sequences
//   - Letters, digits, '.', '_', '-' and '@' only
func ValidateVariantName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidVariant, "variant name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidVariant, "variant name too long (max 128 characters)")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidVariant, "variant name contains invalid characters: %q", "..")
	}

	if !variantNameRegex.MatchString(name) {
		return New(ErrCodeInvalidVariant, "invalid variant name: %q", name)
	}

	return nil
}

// ValidateOutputPath validates a configured output path.
// Absolute paths are allowed; relative paths may not escape the output
// directory.
//
// Validation rules:
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) in relative paths
func ValidateOutputPath(path string) error {
	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") {
		for _, part := range strings.Split(path, "/") {
			if part == ".." {
				return New(ErrCodeInvalidPath, "relative path cannot contain path traversal sequences (..)")
			}
		}
	}

	return nil
}

// ValidateQuality checks that a quality value is within 1..100.
// Zero means "unset" and is accepted.
func ValidateQuality(q int) error {
	if q == 0 {
		return nil
	}
	if q < 1 || q > 100 {
		return New(ErrCodeInvalidVariant, "quality must be between 1 and 100, got %d", q)
	}
	return nil
}
