package textutil

import "strings"

// IsSlug reports whether value is a lowercase page slug: ASCII letters,
// digits and inner hyphens, starting with a letter or digit.
func IsSlug(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case r == '-' && i > 0:
		default:
			return false
		}
	}
	return !strings.HasSuffix(value, "-")
}

var attrReplacer = strings.NewReplacer(`"`, "&quot;")

// EscapeAttr escapes a value for a double-quoted JSX attribute.
func EscapeAttr(value string) string {
	return attrReplacer.Replace(value)
}
