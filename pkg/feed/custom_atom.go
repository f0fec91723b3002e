package feed

import (
	"encoding/xml"

	"github.com/gorilla/feeds"
)

// CustomAtomCategory represents a category in Atom feed
type CustomAtomCategory struct {
	XMLName xml.Name `xml:"category"`
	Term    string   `xml:"term,attr"`
	Label   string   `xml:"label,attr,omitempty"`
}

// CustomAtomEntry represents an entry in a custom Atom feed
type CustomAtomEntry struct {
	XMLName    xml.Name             `xml:"entry"`
	Title      string               `xml:"title"`
	Updated    string               `xml:"updated"`
	Id         string               `xml:"id"`
	Categories []CustomAtomCategory `xml:"category"`
	Content    *feeds.AtomContent   `xml:"content,omitempty"`
	Published  string               `xml:"published,omitempty"`
	Links      []feeds.AtomLink     `xml:"link"`
	Summary    *feeds.AtomSummary   `xml:"summary,omitempty"`
	Author     *feeds.AtomAuthor    `xml:"author,omitempty"`
}

// CustomAtomFeed represents a custom Atom feed with category support
type CustomAtomFeed struct {
	XMLName  xml.Name           `xml:"feed"`
	Xmlns    string             `xml:"xmlns,attr"`
	Title    string             `xml:"title"`
	Id       string             `xml:"id"`
	Updated  string             `xml:"updated"`
	Link     *feeds.AtomLink    `xml:"link,omitempty"`
	Author   *feeds.AtomAuthor  `xml:"author,omitempty"`
	Subtitle string             `xml:"subtitle,omitempty"`
	Entries  []*CustomAtomEntry `xml:"entry"`
}

// convertToCustomAtom converts a standard Feed to a CustomAtomFeed.
// categories[i] holds the categories of feed.Items[i].
func convertToCustomAtom(feed *feeds.Feed, categories [][]string) *CustomAtomFeed {
	atom := &feeds.Atom{Feed: feed}
	standardAtomFeed := atom.AtomFeed()

	customFeed := &CustomAtomFeed{
		Xmlns:    "http://www.w3.org/2005/Atom",
		Title:    standardAtomFeed.Title,
		Id:       standardAtomFeed.Id,
		Updated:  standardAtomFeed.Updated,
		Link:     standardAtomFeed.Link,
		Author:   standardAtomFeed.Author,
		Subtitle: standardAtomFeed.Subtitle,
	}

	for i, entry := range standardAtomFeed.Entries {
		customEntry := &CustomAtomEntry{
			Title:     entry.Title,
			Updated:   entry.Updated,
			Id:        entry.Id,
			Content:   entry.Content,
			Published: entry.Published,
			Links:     entry.Links,
			Summary:   entry.Summary,
			Author:    entry.Author,
		}
		if customEntry.Published == "" {
			customEntry.Published = entry.Updated
		}

		if i < len(categories) {
			for _, cat := range categories[i] {
				customEntry.Categories = append(customEntry.Categories, CustomAtomCategory{
					Term:  cat,
					Label: cat,
				})
			}
		}

		customFeed.Entries = append(customFeed.Entries, customEntry)
	}

	return customFeed
}
