package errors

import (
	"strings"
	"unicode"
)

// Limits applied to graph input.
const (
	MaxIDLength    = 256
	MaxLabelLength = 1024
)

// ValidateNodeID checks an externally assigned node or edge ID.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - Maximum length of 256 characters
//
// IDs end up in cache keys, DOT sources and SVG element IDs.
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGraph, "id cannot be empty")
	}

	if len(id) > MaxIDLength {
		return New(ErrCodeInvalidGraph, "id too long (max %d characters)", MaxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGraph, "id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidateLabel checks a display label. Empty labels are fine; the engine
// gives them a default footprint.
func ValidateLabel(label string) error {
	if len(label) > MaxLabelLength {
		return New(ErrCodeInvalidGraph, "label too long (max %d characters)", MaxLabelLength)
	}
	if strings.ContainsRune(label, '\x00') {
		return New(ErrCodeInvalidGraph, "label contains a null byte")
	}
	return nil
}

// ValidateURL validates a backing service URL.
// It ensures the URL uses one of the allowed schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "URL cannot be empty")
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidConfig, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
