package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleFromSlug turns a page identifier such as "xrp-vs-swift" into
// "Xrp Vs Swift". Hyphens and underscores become spaces.
func TitleFromSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	if len(words) == 0 {
		return ""
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
