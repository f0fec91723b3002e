// Package site wires the site descriptor to a collection source and the feed generator.
package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/blog-feed/internal/config"
	"github.com/lepinkainen/blog-feed/pkg/content"
	"github.com/lepinkainen/blog-feed/pkg/database"
	"github.com/lepinkainen/blog-feed/pkg/feed"
	"github.com/lepinkainen/blog-feed/pkg/sources"
)

// Site builds the feed of one configured site
type Site struct {
	config    *config.Config
	formats   []feed.Format
	source    sources.Source
	builder   *feed.Builder
	generator *feed.Generator
}

// Open validates the configuration and opens its collection source
func Open(cfg *config.Config) (*Site, error) {
	return OpenWithRegistry(cfg, sources.DefaultRegistry)
}

// OpenWithRegistry is Open with the sources looked up in registry
func OpenWithRegistry(cfg *config.Config, registry *sources.Registry) (*Site, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	formats, err := cfg.Formats()
	if err != nil {
		return nil, err
	}

	source, err := registry.Create(cfg.Content.Source, sources.Options{
		Dir:          cfg.Content.Dir,
		DatabasePath: cfg.Content.Database,
	})
	if err != nil {
		return nil, err
	}

	generator := feed.NewGenerator()
	if cfg.Feed.Template != "" {
		generator = feed.NewGeneratorWithTemplate(cfg.Feed.Template)
	}

	slog.Debug("Opened site", "site", cfg.Site, "source", cfg.Content.Source, "collection", cfg.Feed.Collection)

	return &Site{
		config:    cfg,
		formats:   formats,
		source:    source,
		builder:   feed.NewBuilder(source, cfg.Channel()),
		generator: generator,
	}, nil
}

// Close releases the collection source
func (s *Site) Close() error {
	return s.source.Close()
}

// Formats returns the formats Build writes
func (s *Site) Formats() []feed.Format {
	return s.formats
}

// Generator returns the serializer used by Render and Build
func (s *Site) Generator() *feed.Generator {
	return s.generator
}

// Feed builds the feed document from the current collection contents
func (s *Site) Feed(ctx context.Context) (*feed.Document, error) {
	return s.builder.Build(ctx, s.config.Site)
}

// Render builds the feed and serializes it in format
func (s *Site) Render(ctx context.Context, format feed.Format) ([]byte, error) {
	doc, err := s.Feed(ctx)
	if err != nil {
		return nil, err
	}
	return s.generator.Render(doc, format)
}

// Build writes every configured format into outDir and returns the written paths.
// All formats are rendered before any file is written.
func (s *Site) Build(ctx context.Context, outDir string) ([]string, error) {
	if outDir == "" {
		outDir = s.config.Build.OutDir
	}

	doc, err := s.Feed(ctx)
	if err != nil {
		return nil, err
	}

	rendered := make([][]byte, len(s.formats))
	for i, format := range s.formats {
		data, err := s.generator.Render(doc, format)
		if err != nil {
			return nil, err
		}
		rendered[i] = data
	}

	paths := make([]string, 0, len(s.formats))
	for i, format := range s.formats {
		path := filepath.Join(outDir, format.FileName())
		if err := feed.SaveRendered(rendered[i], format, path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}

	slog.Debug("Feed built", "entries", len(doc.Entries), "formats", len(paths))
	return paths, nil
}

// Index copies the configured collection from the content directory into the sqlite store at dbPath
func Index(ctx context.Context, cfg *config.Config, dbPath string) (int, error) {
	if dbPath == "" {
		dbPath = cfg.Content.Database
	}

	files := content.NewFiles(cfg.Content.Dir)
	items, err := files.ListItems(ctx, cfg.Feed.Collection)
	if errors.Is(err, content.ErrCollectionNotFound) {
		if names, listErr := files.Collections(); listErr == nil {
			return 0, fmt.Errorf("failed to read collection %s (found: %s): %w", cfg.Feed.Collection, strings.Join(names, ", "), err)
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read collection %s: %w", cfg.Feed.Collection, err)
	}

	store, err := database.OpenStore(ctx, dbPath)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("Failed to close store", "error", err)
		}
	}()

	if err := store.ReplaceCollection(ctx, cfg.Feed.Collection, items); err != nil {
		return 0, err
	}

	slog.Info("Collection indexed", "collection", cfg.Feed.Collection, "items", len(items), "path", dbPath)
	return len(items), nil
}

// Stats reports the contents of the sqlite store at dbPath
func Stats(ctx context.Context, dbPath string) (*database.Stats, error) {
	if !database.DatabaseExists(dbPath) {
		return nil, fmt.Errorf("database %s does not exist", dbPath)
	}

	store, err := database.OpenStore(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	return store.Stats(ctx)
}
