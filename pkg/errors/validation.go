package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	maxIDLength   = 64
	maxNameLength = 128
)

// ValidateParticipantID validates a participant identifier (e.g. a student number).
//
// IDs end up as CSV fields and SVG text, so the rules are conservative:
//   - No empty IDs
//   - No control characters
//   - No commas (the roster format is comma separated)
//   - Maximum length of 64 characters
func ValidateParticipantID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "participant id cannot be empty")
	}
	if utf8.RuneCountInString(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "participant id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "participant id contains invalid control characters")
		}
	}
	if strings.Contains(id, ",") {
		return New(ErrCodeInvalidInput, "participant id cannot contain commas: %q", id)
	}
	return nil
}

// ValidateParticipantName validates a participant display name.
// Names may contain spaces and any printable characters but no control characters.
func ValidateParticipantName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "participant name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "participant name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "participant name contains invalid control characters")
		}
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateFilename(filename string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot start with a dot")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}
	return nil
}
