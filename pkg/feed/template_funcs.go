package feed

import (
	"strings"
	"text/template"
	"time"
)

// pubDateLayout is RFC 1123 with a literal GMT zone, the form RSS readers expect
const pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// TemplateFuncs returns a map of template helper functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"xmlEscape":   EscapeXML,
		"pubDate":     formatPubDate,
		"rfc3339":     formatRFC3339,
		"joinStrings": strings.Join,
	}
}

// EscapeXML escapes the five predefined XML entities
func EscapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// formatPubDate formats t in UTC for RSS pubDate elements
func formatPubDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(pubDateLayout)
}

// formatRFC3339 formats time in RFC3339 format for Atom feeds
func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
