package content

import (
	"path"
	"strings"
	"unicode"
)

// SlugFromPath derives a URL slug from an entry path relative to its collection.
// Each path segment is slugified on its own and the extension is dropped.
func SlugFromPath(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))

	segments := strings.Split(rel, "/")
	out := segments[:0]
	for _, segment := range segments {
		if s := Slugify(segment); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}

// Slugify lowercases s, turns whitespace into dashes and drops punctuation
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return b.String()
}
