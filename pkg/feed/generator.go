package feed

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"

	"github.com/gorilla/feeds"

	"github.com/lepinkainen/blog-feed/pkg/filesystem"
	"github.com/lepinkainen/blog-feed/pkg/urlutils"
)

// Generator serializes feed documents
type Generator struct {
	templates    *TemplateGenerator
	templateFile string
}

// NewGenerator creates a generator using the RSS template from the override or embedded templates
func NewGenerator() *Generator {
	return &Generator{templates: NewTemplateGenerator()}
}

// NewGeneratorWithTemplate creates a generator rendering RSS from the template at path
func NewGeneratorWithTemplate(path string) *Generator {
	return &Generator{templates: NewTemplateGenerator(), templateFile: path}
}

// WriteRSS renders the document as RSS 2.0
func (g *Generator) WriteRSS(doc *Document, w io.Writer) error {
	data, err := CreateTemplateData(doc)
	if err != nil {
		return err
	}

	if g.templateFile != "" {
		err = g.templates.LoadTemplateFile(RSSTemplate, g.templateFile)
	} else {
		err = g.templates.LoadTemplate(RSSTemplate)
	}
	if err != nil {
		return err
	}

	return g.templates.GenerateFromTemplate(RSSTemplate, data, w)
}

// WriteAtom renders the document as Atom 1.0 with categories
func (g *Generator) WriteAtom(doc *Document, w io.Writer) error {
	base, err := baseFeed(doc)
	if err != nil {
		return err
	}

	customFeed := convertToCustomAtom(base, categoriesOf(doc))

	xmlData, err := xml.MarshalIndent(customFeed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal custom atom feed: %w", err)
	}

	_, err = io.WriteString(w, xml.Header+string(xmlData))
	return err
}

// WriteJSON renders the document as JSON Feed 1.1 with tags
func (g *Generator) WriteJSON(doc *Document, w io.Writer) error {
	base, err := baseFeed(doc)
	if err != nil {
		return err
	}

	jsonFeed := (&feeds.JSON{Feed: base}).JSONFeed()
	jsonFeed.Version = "https://jsonfeed.org/version/1.1"
	for i, item := range jsonFeed.Items {
		item.Tags = doc.Entries[i].Categories
	}

	out, err := json.MarshalIndent(jsonFeed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json feed: %w", err)
	}
	_, err = w.Write(out)
	return err
}

// Render serializes the document into the given format
func (g *Generator) Render(doc *Document, format Format) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case RSS:
		err = g.WriteRSS(doc, &buf)
	case Atom:
		err = g.WriteAtom(doc, &buf)
	case JSON:
		err = g.WriteJSON(doc, &buf)
	default:
		return nil, fmt.Errorf("unsupported feed type: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write %s feed: %w", format, err)
	}

	return buf.Bytes(), nil
}

// SaveToFile renders the document and writes it to outputPath. Nothing is written when rendering fails.
func (g *Generator) SaveToFile(doc *Document, format Format, outputPath string) error {
	data, err := g.Render(doc, format)
	if err != nil {
		return err
	}

	return SaveRendered(data, format, outputPath)
}

// SaveRendered atomically writes an already rendered document to outputPath
func SaveRendered(data []byte, format Format, outputPath string) error {
	if err := filesystem.WriteFileAtomic(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s feed: %w", format, err)
	}

	slog.Info("Feed saved successfully", "type", format, "path", outputPath, "bytes", len(data))
	return nil
}

// baseFeed converts a document into a gorilla feed with absolute links.
// Created and Updated come from the newest entry so output does not depend on the clock.
func baseFeed(doc *Document) (*feeds.Feed, error) {
	link, err := urlutils.CanonicalURL(doc.Site)
	if err != nil {
		return nil, fmt.Errorf("invalid site %q: %w", doc.Site, err)
	}

	updated := doc.Updated()
	feed := &feeds.Feed{
		Title:       doc.Title,
		Link:        &feeds.Link{Href: link},
		Description: doc.Description,
		Author:      author(doc.Author),
		Created:     updated,
		Updated:     updated,
	}

	for _, entry := range doc.Entries {
		itemLink, err := urlutils.ResolveURL(link, entry.Link)
		if err != nil {
			return nil, fmt.Errorf("invalid entry link %q: %w", entry.Link, err)
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Title:       entry.Title,
			Link:        &feeds.Link{Href: itemLink},
			Description: entry.Description,
			Author:      author(doc.Author),
			Created:     entry.PubDate,
			Updated:     entry.PubDate,
			Id:          itemLink,
		})
	}

	return feed, nil
}

// categoriesOf lists the categories of every entry in document order
func categoriesOf(doc *Document) [][]string {
	categories := make([][]string, len(doc.Entries))
	for i, entry := range doc.Entries {
		categories[i] = entry.Categories
	}
	return categories
}

func author(name string) *feeds.Author {
	if name == "" {
		return nil
	}
	return &feeds.Author{Name: name}
}
