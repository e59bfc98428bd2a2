package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidatePath validates a relative file path received from a client, such
// as an output name in an HTTP request.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateFormat checks that format is one of supported (case-insensitive)
// and returns it lowercased.
func ValidateFormat(format string, supported []string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return "", New(ErrCodeInvalidFormat, "format cannot be empty")
	}
	if !slices.Contains(supported, f) {
		return "", New(ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", format, strings.Join(supported, ", "))
	}
	return f, nil
}

// ValidateFormats validates a list of formats, dropping duplicates while
// keeping the first occurrence order.
func ValidateFormats(formats, supported []string) ([]string, error) {
	out := make([]string, 0, len(formats))
	for _, format := range formats {
		f, err := ValidateFormat(format, supported)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out, nil
}
