package feed

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/template"

	"github.com/lepinkainen/blog-feed/pkg/urlutils"
)

// RSSTemplate is the name of the template rendering RSS 2.0 documents
const RSSTemplate = "rss"

// TemplateGenerator handles template-based feed generation
type TemplateGenerator struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// TemplateData represents the data structure passed to feed templates
type TemplateData struct {
	Title       string
	Description string
	Link        string
	// ChannelData is raw XML placed at the end of the channel metadata
	ChannelData string
	Stylesheet  string
	Updated     string

	Items []TemplateItem
}

// TemplateItem represents a feed item for template rendering
type TemplateItem struct {
	Title       string
	Link        string
	Description string
	PubDate     string
	Published   string
	Categories  []string
}

// NewTemplateGenerator creates a new template-based feed generator
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{
		templates: make(map[string]*template.Template),
		funcMap:   TemplateFuncs(),
	}
}

// LoadTemplate loads <name>.tmpl from the override filesystem or the embedded templates
func (tg *TemplateGenerator) LoadTemplate(name string) error {
	content, source, err := readTemplate(name + ".tmpl")
	if err != nil {
		return fmt.Errorf("failed to read template %s: %w", name, err)
	}

	slog.Debug("Loading template", "name", name, "source", source)
	return tg.parse(name, string(content))
}

// LoadTemplateFile loads a template from file with the given name
func (tg *TemplateGenerator) LoadTemplateFile(name, filePath string) error {
	slog.Debug("Loading template", "name", name, "path", filePath)

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}

	return tg.parse(name, string(content))
}

func (tg *TemplateGenerator) parse(name, content string) error {
	tmpl, err := template.New(name).Funcs(tg.funcMap).Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	tg.templates[name] = tmpl
	return nil
}

// GenerateFromTemplate generates a feed using the specified template
func (tg *TemplateGenerator) GenerateFromTemplate(templateName string, data *TemplateData, writer io.Writer) error {
	tmpl, exists := tg.templates[templateName]
	if !exists {
		return fmt.Errorf("template %s not found", templateName)
	}

	slog.Debug("Executing template", "name", templateName, "items", len(data.Items))

	if err := tmpl.Execute(writer, data); err != nil {
		return fmt.Errorf("failed to execute template %s: %w", templateName, err)
	}

	return nil
}

// CreateTemplateData resolves the document links against its site and formats dates for rendering
func CreateTemplateData(doc *Document) (*TemplateData, error) {
	link, err := urlutils.CanonicalURL(doc.Site)
	if err != nil {
		return nil, fmt.Errorf("invalid site %q: %w", doc.Site, err)
	}

	data := &TemplateData{
		Title:       doc.Title,
		Description: doc.Description,
		Link:        link,
		ChannelData: doc.channelData(),
		Stylesheet:  doc.Stylesheet,
		Updated:     formatRFC3339(doc.Updated()),
		Items:       make([]TemplateItem, 0, len(doc.Entries)),
	}

	for _, entry := range doc.Entries {
		item := TemplateItem{
			Title:       entry.Title,
			Description: entry.Description,
			PubDate:     formatPubDate(entry.PubDate),
			Published:   formatRFC3339(entry.PubDate),
			Categories:  entry.Categories,
		}
		if entry.Link != "" {
			if item.Link, err = urlutils.ResolveURL(link, entry.Link); err != nil {
				return nil, fmt.Errorf("invalid entry link %q: %w", entry.Link, err)
			}
		}
		data.Items = append(data.Items, item)
	}

	return data, nil
}
