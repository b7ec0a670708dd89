package errors

import (
	"strings"
	"unicode"
)

// maxItemIDLength bounds media item identifiers; they end up in cell keys,
// cache keys and SVG element IDs.
const maxItemIDLength = 256

// ValidateItemID validates a media item identifier.
//
// The validation rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No '#' (reserved as the cell key separator)
//   - Maximum length of 256 characters
func ValidateItemID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "item id cannot be empty")
	}

	if len(id) > maxItemIDLength {
		return New(ErrCodeInvalidInput, "item id too long (max %d characters)", maxItemIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "item id %q contains whitespace or control characters", id)
		}
	}

	if strings.Contains(id, "#") {
		return New(ErrCodeInvalidInput, "item id %q cannot contain '#'", id)
	}

	return nil
}

// ValidatePath validates a manifest or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
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

	return nil
}

// ValidateHref validates a caption link target.
// Links must be site-relative ("/posts/x") or use the http(s) scheme.
func ValidateHref(href string) error {
	if href == "" {
		return nil
	}
	if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
		return nil
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return nil
	}
	return New(ErrCodeInvalidInput, "href %q must be site-relative or use http(s)", href)
}
