package feed

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/lepinkainen/blog-feed/pkg/content"
)

// ErrMalformedItem is matched by every item validation failure
var ErrMalformedItem = errors.New("malformed item")

// ItemError describes a collection item that cannot become a feed entry
type ItemError struct {
	Index int
	ID    string
	Field string
}

func (e *ItemError) Error() string {
	id := e.ID
	if id == "" {
		id = fmt.Sprintf("#%d", e.Index)
	}
	return fmt.Sprintf("item %s: missing %s", id, e.Field)
}

func (e *ItemError) Unwrap() error {
	return ErrMalformedItem
}

// Builder turns a content collection into a feed document
type Builder struct {
	source  content.Lister
	channel Channel
}

// NewBuilder creates a builder reading the channel's collection from source
func NewBuilder(source content.Lister, channel Channel) *Builder {
	if channel.Collection == "" {
		channel.Collection = DefaultCollection
	}
	if channel.LinkPrefix == "" {
		channel.LinkPrefix = DefaultLinkPrefix
	}
	return &Builder{
		source:  source,
		channel: channel,
	}
}

// Channel returns the channel metadata the builder was created with
func (b *Builder) Channel() Channel {
	return b.channel
}

// Build retrieves the collection, orders it newest first and projects it into a document for site
func (b *Builder) Build(ctx context.Context, site string) (*Document, error) {
	items, err := b.source.ListItems(ctx, b.channel.Collection)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve collection %s: %w", b.channel.Collection, err)
	}

	if err := ValidateItems(items); err != nil {
		return nil, err
	}

	return &Document{
		Title:       b.channel.Title,
		Description: b.channel.Description,
		Site:        site,
		Language:    b.channel.Language,
		Author:      b.channel.Author,
		CustomData:  b.channel.CustomData,
		Stylesheet:  b.channel.Stylesheet,
		Entries:     Project(SortItems(items), b.channel.LinkPrefix),
	}, nil
}

// ValidateItems reports every item lacking a date or a slug
func ValidateItems(items []content.Item) error {
	var errs []error
	for i, item := range items {
		if item.Date.IsZero() {
			errs = append(errs, &ItemError{Index: i, ID: item.ID, Field: "date"})
		}
		if item.Slug == "" {
			errs = append(errs, &ItemError{Index: i, ID: item.ID, Field: "slug"})
		}
	}
	return errors.Join(errs...)
}

// SortItems returns a copy of items ordered by date, newest first. Equal dates keep their input order.
func SortItems(items []content.Item) []content.Item {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b content.Item) int {
		return b.Date.Compare(a.Date)
	})
	return sorted
}

// Project maps ordered items to feed entries with links of the form prefix + slug + "/"
func Project(items []content.Item, linkPrefix string) []Entry {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			Title:       item.Title,
			PubDate:     item.Date,
			Description: item.Description,
			Link:        linkPrefix + item.Slug + "/",
			Categories:  slices.Clone(item.Tags),
		})
	}
	return entries
}
