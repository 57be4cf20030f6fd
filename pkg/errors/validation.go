package errors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Input limits applied at the outer surfaces (HTTP API, CLI flags) before a
// command reaches a session.
const (
	// MaxNodeIDLength bounds the length of a node identifier.
	MaxNodeIDLength = 4096

	// MaxRawValueLength bounds the length of an edited scalar value.
	MaxRawValueLength = 1 << 16

	// MaxSourceSize bounds the size of a JSON source buffer (8 MiB).
	MaxSourceSize = 8 << 20
)

// ValidateNodeID validates a node identifier received from a render surface.
//
// An identifier must be non-empty valid UTF-8 of at most MaxNodeIDLength
// bytes. Control characters are allowed: any JSON key may contain them
// (escaped in the source), and its node ID carries them verbatim.
//
// Whether the identifier resolves inside the current document is decided by
// the edit synchronizer, not here.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", MaxNodeIDLength)
	}

	if !utf8.ValidString(id) {
		return New(ErrCodeInvalidInput, "node id is not valid UTF-8")
	}

	return nil
}

// ValidateRawValue validates the raw text of a node edit.
// Empty values are allowed: they become empty strings (or are rejected by
// numeric coercion).
func ValidateRawValue(raw string) error {
	if len(raw) > MaxRawValueLength {
		return New(ErrCodeInvalidInput, "value too long (max %d bytes)", MaxRawValueLength)
	}
	if !utf8.ValidString(raw) {
		return New(ErrCodeInvalidInput, "value is not valid UTF-8")
	}
	if strings.ContainsRune(raw, '\x00') {
		return New(ErrCodeInvalidInput, "value contains a null byte")
	}
	return nil
}

// ValidateSource validates the size of a JSON source buffer.
// Syntax is checked by the parser, which reports INVALID_JSON.
func ValidateSource(text string) error {
	if len(text) > MaxSourceSize {
		return New(ErrCodeInvalidInput, "source too large (max %d bytes)", MaxSourceSize)
	}
	return nil
}

// ValidateOutputPath validates a file path passed to an output flag.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.Split(path, "/") {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// sessionIDRegex matches canonical lowercase UUID strings.
var sessionIDRegex = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// ValidateSessionID validates a session identifier taken from a URL.
func ValidateSessionID(id string) error {
	if !sessionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}
