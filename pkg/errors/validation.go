package errors

import (
	"strings"
	"unicode"
)

// maxColumnNameLength bounds user-supplied column names.
const maxColumnNameLength = 256

// ValidateColumnName validates a user-supplied column name before it is
// looked up in a table header.
//
// The rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters (including newlines)
//   - Maximum length of 256 characters
//
// Whether the column actually exists is checked later against the loaded
// header and reported as a [SchemaError].
func ValidateColumnName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "column name cannot be empty")
	}

	if len(name) > maxColumnNameLength {
		return New(ErrCodeInvalidInput, "column name too long (max %d characters)", maxColumnNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "column name contains invalid control characters")
		}
	}

	return nil
}

// ValidatePath validates a local table path supplied on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//
// Unlike repository paths, absolute paths and ".." are allowed: the user
// names files on their own machine.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
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
