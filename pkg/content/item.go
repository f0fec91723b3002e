// Package content provides content collection sources for the blog feed.
package content

import (
	"context"
	"errors"
	"time"
)

// ErrCollectionNotFound is returned when a named collection does not exist in a source
var ErrCollectionNotFound = errors.New("collection not found")

// Item is a single record of a content collection
type Item struct {
	ID          string    `json:"id"`
	Collection  string    `json:"collection"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Body        string    `json:"-"`
}

// Lister retrieves every item of a named collection
type Lister interface {
	ListItems(ctx context.Context, collection string) ([]Item, error)
}
