package errors

import (
	"unicode"
)

// MaxNameLength bounds component names. Longer names are almost always a
// pasted description in the wrong field.
const MaxNameLength = 256

// ValidateName validates a component name.
//
// The rules are conservative:
//   - No empty names
//   - No control characters (including newlines, which would break labels)
//   - Maximum length of MaxNameLength characters
//
// Uniqueness is checked by the document package, which knows the scope.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeSchema, "name cannot be empty")
	}

	if len(name) > MaxNameLength {
		return New(ErrCodeSchema, "name too long (max %d characters)", MaxNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeSchema, "name %q contains control characters", name)
		}
	}

	return nil
}

// ValidateColor validates a Graphviz color value supplied through
// configuration. Only emptiness and control characters are rejected;
// Graphviz itself resolves color names.
func ValidateColor(color string) error {
	if color == "" {
		return New(ErrCodeInvalidConfig, "color cannot be empty")
	}
	for _, r := range color {
		if unicode.IsControl(r) || r == '"' {
			return New(ErrCodeInvalidConfig, "color %q contains invalid characters", color)
		}
	}
	return nil
}
