package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// frontMatter is the metadata block of a collection entry
type frontMatter struct {
	Title       string   `yaml:"title" json:"title"`
	Date        string   `yaml:"date" json:"date"`
	Description string   `yaml:"description" json:"description"`
	Tags        []string `yaml:"tags" json:"tags"`
	Slug        string   `yaml:"slug" json:"slug"`
}

// dateLayouts are tried in order when parsing entry dates
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02",
}

const frontMatterDelimiter = "---"

// yamlFrontMatter decodes the block between --- delimiters with yaml.v3
var yamlFrontMatter = frontmatter.NewFormat(frontMatterDelimiter, frontMatterDelimiter, yaml.Unmarshal)

// parseFrontMatter splits a markdown document into its YAML front matter and body.
// Documents without front matter produce an empty block and the whole input as body.
func parseFrontMatter(data []byte) (frontMatter, string, error) {
	var fm frontMatter

	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, []byte(frontMatterDelimiter+"\n")) {
		return fm, string(data), nil
	}

	body, err := frontmatter.MustParse(bytes.NewReader(data), &fm, yamlFrontMatter)
	if errors.Is(err, frontmatter.ErrNotFound) {
		return fm, "", fmt.Errorf("unterminated front matter")
	}
	if err != nil {
		return fm, "", fmt.Errorf("failed to parse YAML front matter: %w", err)
	}
	return fm, string(body), nil
}

// decodeData decodes a JSON or YAML data entry
func decodeData(p string, data []byte, target *frontMatter) error {
	switch detectFormat(p, data) {
	case "json":
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	}
	return nil
}

// detectFormat determines whether data is JSON or YAML, by extension first and content second
func detectFormat(p string, data []byte) string {
	switch strings.ToLower(path.Ext(p)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return "json"
	}
	return "yaml"
}

// toItem converts the metadata block into an Item. A missing date is left zero.
func (fm frontMatter) toItem() (Item, error) {
	item := Item{
		Title:       fm.Title,
		Description: fm.Description,
		Tags:        fm.Tags,
		Slug:        strings.Trim(fm.Slug, "/"),
	}

	if fm.Date != "" {
		date, err := ParseDate(fm.Date)
		if err != nil {
			return Item{}, err
		}
		item.Date = date
	}

	return item, nil
}

// ParseDate parses an entry date in any of the accepted layouts. Dates without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
