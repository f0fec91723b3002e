package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// entryExtensions lists the file extensions read as collection entries
var entryExtensions = map[string]bool{
	".md":       true,
	".mdx":      true,
	".markdown": true,
	".json":     true,
	".yaml":     true,
	".yml":      true,
}

// Files reads collections from a content directory laid out as <root>/<collection>/**
type Files struct {
	fsys    fs.FS
	workers int
}

// NewFiles creates a file source rooted at dir
func NewFiles(dir string) *Files {
	return NewFilesFS(os.DirFS(dir))
}

// NewFilesFS creates a file source on top of an arbitrary filesystem
func NewFilesFS(fsys fs.FS) *Files {
	return &Files{
		fsys:    fsys,
		workers: runtime.NumCPU(),
	}
}

// Collections returns the names of the collections found in the content directory
func (f *Files) Collections() ([]string, error) {
	entries, err := fs.ReadDir(f.fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read content directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() && !strings.HasPrefix(entry.Name(), "_") && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ListItems parses every entry of the collection. Items are returned in lexical path order.
func (f *Files) ListItems(ctx context.Context, collection string) ([]Item, error) {
	info, err := fs.Stat(f.fsys, collection)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
		}
		return nil, fmt.Errorf("failed to stat collection %s: %w", collection, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrCollectionNotFound, collection)
	}

	paths, err := f.entryPaths(collection)
	if err != nil {
		return nil, err
	}

	slog.Debug("Reading collection", "collection", collection, "entries", len(paths))

	items := make([]Item, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.workers)

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			item, err := f.readEntry(collection, p)
			if err != nil {
				return err
			}
			items[i] = item
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return items, nil
}

// entryPaths walks the collection directory and returns the entry files sorted by path
func (f *Files) entryPaths(collection string) ([]string, error) {
	var paths []string
	err := fs.WalkDir(f.fsys, collection, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if p != collection && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return fs.SkipDir
			}
			return nil
		}

		// underscore-prefixed files are drafts/partials and never part of a collection
		if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
			return nil
		}

		if entryExtensions[strings.ToLower(path.Ext(name))] {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk collection %s: %w", collection, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// readEntry reads and parses a single entry file
func (f *Files) readEntry(collection, p string) (Item, error) {
	data, err := fs.ReadFile(f.fsys, p)
	if err != nil {
		return Item{}, fmt.Errorf("failed to read entry %s: %w", p, err)
	}

	rel := strings.TrimPrefix(p, collection+"/")

	var fm frontMatter
	var body string
	switch strings.ToLower(path.Ext(p)) {
	case ".md", ".mdx", ".markdown":
		fm, body, err = parseFrontMatter(data)
	default:
		err = decodeData(p, data, &fm)
	}
	if err != nil {
		return Item{}, fmt.Errorf("failed to parse entry %s: %w", p, err)
	}

	item, err := fm.toItem()
	if err != nil {
		return Item{}, fmt.Errorf("invalid entry %s: %w", p, err)
	}

	item.ID = rel
	item.Collection = collection
	item.Body = body
	if item.Slug == "" {
		item.Slug = SlugFromPath(rel)
	}

	return item, nil
}
