package site

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	"github.com/mmcdole/gofeed"

	feedhttp "github.com/lepinkainen/blog-feed/pkg/http"
)

// CheckReport summarizes a parsed feed
type CheckReport struct {
	Type     string
	Title    string
	Language string
	Link     string
	Entries  int
}

// Check parses a feed file or a published feed URL and verifies that its entries are ordered newest first
func Check(ctx context.Context, target string, client *feedhttp.Client) (*CheckReport, error) {
	var r io.Reader
	if u, err := url.Parse(target); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		if client == nil {
			client = feedhttp.NewClient(nil)
		}
		body, _, err := client.Fetch(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch feed: %w", err)
		}
		r = bytes.NewReader(body)
	} else {
		file, err := os.Open(target)
		if err != nil {
			return nil, fmt.Errorf("failed to open feed: %w", err)
		}
		defer file.Close()
		r = file
	}

	parsed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", target, err)
	}

	for i, item := range parsed.Items {
		if item.PublishedParsed == nil {
			return nil, fmt.Errorf("entry %d of %s has no publication date", i, target)
		}
		if i > 0 && parsed.Items[i-1].PublishedParsed.Before(*item.PublishedParsed) {
			return nil, fmt.Errorf("entries %d and %d of %s are not ordered newest first", i-1, i, target)
		}
	}

	return &CheckReport{
		Type:     parsed.FeedType,
		Title:    parsed.Title,
		Language: parsed.Language,
		Link:     parsed.Link,
		Entries:  len(parsed.Items),
	}, nil
}
