// Package preview provides interactive feed entry preview functionality using Bubble Tea TUI.
package preview

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lepinkainen/blog-feed/pkg/feed"
	"github.com/lepinkainen/blog-feed/pkg/urlutils"
)

// wrapText wraps text to the specified width, breaking at word boundaries when possible
func wrapText(text string, width int) string {
	if width <= 0 {
		width = 70
	}

	var result strings.Builder
	var line strings.Builder
	lineLen := 0

	words := strings.Fields(text)
	for i, word := range words {
		wordLen := utf8.RuneCountInString(word)

		// If adding this word would exceed width, start a new line
		if lineLen > 0 && lineLen+1+wordLen > width {
			result.WriteString(line.String())
			result.WriteString("\n")
			line.Reset()
			lineLen = 0
		}

		// Add space before word if not at start of line
		if lineLen > 0 {
			line.WriteString(" ")
			lineLen++
		}

		line.WriteString(word)
		lineLen += wordLen

		// Write the last line
		if i == len(words)-1 {
			result.WriteString(line.String())
		}
	}

	return result.String()
}

// truncate shortens s to at most limit runes, ending it with "..." when cut
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// FormatCompactListItem formats a single feed entry in compact list format
// Example: " 1. 2024-06-01  Post Title  [go, web]"
func FormatCompactListItem(index int, entry feed.Entry) string {
	const maxTitleLength = 70
	title := truncate(entry.Title, maxTitleLength)

	line := fmt.Sprintf("%2d. %s  %s", index+1, entry.PubDate.UTC().Format("2006-01-02"), title)
	if len(entry.Categories) > 0 {
		line += fmt.Sprintf("  [%s]", strings.Join(entry.Categories, ", "))
	}
	return line
}

// FormatDetailedItem formats a single feed entry with all metadata, resolving its link against site
func FormatDetailedItem(entry feed.Entry, site string) string {
	var b strings.Builder

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")
	b.WriteString(fmt.Sprintf("Title: %s\n", entry.Title))

	link := entry.Link
	if resolved, err := urlutils.ResolveURL(site, entry.Link); err == nil {
		link = resolved
	}
	b.WriteString(fmt.Sprintf("Link: %s\n", link))

	if !entry.PubDate.IsZero() {
		b.WriteString(fmt.Sprintf("Published: %s (%s)\n", entry.PubDate.UTC().Format(time.RFC1123), formatTimeAgo(entry.PubDate)))
	}

	if len(entry.Categories) > 0 {
		b.WriteString(fmt.Sprintf("Categories: %s\n", strings.Join(entry.Categories, ", ")))
	}

	if description := entry.Description; description != "" {
		const maxDescriptionLength = 1000
		description = truncate(description, maxDescriptionLength+3)
		b.WriteString(fmt.Sprintf("\nDescription:\n%s\n", wrapText(description, 70)))
	}

	b.WriteString("═══════════════════════════════════════════════════════════════════════\n")

	return b.String()
}

var itemRegex = regexp.MustCompile(`(?s)<item>.*?</item>`)

// FormatXMLItem renders the document's entry at index through the real RSS template and returns its <item> element
func FormatXMLItem(doc *feed.Document, index int, generator *feed.Generator) string {
	if index < 0 || index >= len(doc.Entries) {
		return "No entry selected"
	}

	single := *doc
	single.Entries = []feed.Entry{doc.Entries[index]}

	out, err := generator.Render(&single, feed.RSS)
	if err != nil {
		return fmt.Sprintf("Error generating feed: %s", err)
	}

	match := itemRegex.Find(out)
	if match == nil {
		return "No item found in generated feed"
	}

	return wrapXMLContent(indentItem(string(match)), 80)
}

// indentItem puts each child element of a single-line <item> on its own line
func indentItem(item string) string {
	lines := strings.Split(strings.ReplaceAll(item, "><", ">\n<"), "\n")

	var b strings.Builder
	for i, line := range lines {
		// element closings stay on the line they close
		if i > 0 && strings.HasPrefix(line, "</") && !strings.HasPrefix(line, "</item>") {
			b.WriteString(line)
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		if line != "<item>" && line != "</item>" {
			b.WriteString("  ")
		}
		b.WriteString(line)
	}
	return b.String()
}

// wrapXMLContent wraps only the content inside tags, not the tags themselves
func wrapXMLContent(xml string, width int) string {
	// Simple approach: just ensure lines don't exceed width by adding newlines
	// This preserves the XML structure while making it readable
	var result strings.Builder
	lines := strings.Split(xml, "\n")

	for _, line := range lines {
		if utf8.RuneCountInString(line) <= width {
			result.WriteString(line)
			result.WriteString("\n")
			continue
		}

		// For very long lines (usually content), try to wrap at tag boundaries or spaces
		remaining := []rune(line)
		for len(remaining) > width {
			breakPoint := width
			// Try to find a good break point (space, > or <)
			for i := width; i > width-20 && i > 0; i-- {
				if remaining[i] == ' ' || remaining[i] == '>' {
					breakPoint = i + 1
					break
				}
			}
			result.WriteString(string(remaining[:breakPoint]))
			result.WriteString("\n")
			remaining = remaining[breakPoint:]
		}
		if len(remaining) > 0 {
			result.WriteString(string(remaining))
			result.WriteString("\n")
		}
	}

	return result.String()
}

// formatTimeAgo formats a time.Time as a human-readable "X ago" string
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	switch {
	case duration < time.Minute:
		return "just now"
	case duration < time.Hour:
		mins := int(duration.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case duration < 24*time.Hour:
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case duration < 7*24*time.Hour:
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
