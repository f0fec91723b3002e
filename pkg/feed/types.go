package feed

import (
	"fmt"
	"strings"
	"time"
)

// Default channel metadata of the blog feed
const (
	DefaultTitle       = "Programmer's Blog"
	DefaultDescription = "Articles about programming, web development, and technology"
	DefaultLanguage    = "en-us"
	DefaultCollection  = "posts"
	DefaultLinkPrefix  = "/blog/"
)

// Channel describes the feed-level metadata and where entries come from
type Channel struct {
	Title       string
	Description string
	Language    string
	Author      string
	// CustomData is raw XML appended to the RSS channel after the language element
	CustomData string
	// Stylesheet is an optional XSL stylesheet href referenced from the RSS document
	Stylesheet string
	Collection string
	LinkPrefix string
}

// DefaultChannel returns the channel of the programmer's blog
func DefaultChannel() Channel {
	return Channel{
		Title:       DefaultTitle,
		Description: DefaultDescription,
		Language:    DefaultLanguage,
		Collection:  DefaultCollection,
		LinkPrefix:  DefaultLinkPrefix,
	}
}

// Entry is a single feed entry projected from a collection item
type Entry struct {
	Title       string
	PubDate     time.Time
	Description string
	// Link is site-relative, e.g. /blog/my-post/
	Link       string
	Categories []string
}

// Document is a complete feed ready for serialization
type Document struct {
	Title       string
	Description string
	Site        string
	Language    string
	Author      string
	CustomData  string
	Stylesheet  string
	Entries     []Entry
}

// Updated returns the publication date of the newest entry, or the zero time for an empty feed
func (d *Document) Updated() time.Time {
	var newest time.Time
	for _, e := range d.Entries {
		if e.PubDate.After(newest) {
			newest = e.PubDate
		}
	}
	return newest
}

// channelData returns the raw XML extension elements of the RSS channel
func (d *Document) channelData() string {
	var b strings.Builder
	if d.Language != "" {
		b.WriteString(fmt.Sprintf("<language>%s</language>", EscapeXML(d.Language)))
	}
	b.WriteString(d.CustomData)
	return b.String()
}

// Format represents a feed serialization format
type Format string

// Supported feed formats
const (
	RSS  Format = "rss"
	Atom Format = "atom"
	JSON Format = "json"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case RSS, Atom, JSON:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported feed type: %s", s)
	}
}

// FileName is the conventional output file name of a format
func (f Format) FileName() string {
	switch f {
	case Atom:
		return "atom.xml"
	case JSON:
		return "feed.json"
	default:
		return "rss.xml"
	}
}

// ContentType is the HTTP content type a format is served with
func (f Format) ContentType() string {
	switch f {
	case Atom:
		return "application/atom+xml; charset=utf-8"
	case JSON:
		return "application/feed+json; charset=utf-8"
	default:
		return "application/xml"
	}
}
