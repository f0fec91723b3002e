package sources

import (
	"context"
	"fmt"

	"github.com/lepinkainen/blog-feed/pkg/content"
	"github.com/lepinkainen/blog-feed/pkg/database"
)

// Names of the built-in sources
const (
	FilesSource  = "files"
	SQLiteSource = "sqlite"
)

func init() {
	Register(&SourceInfo{
		Name:        FilesSource,
		Description: "Markdown and data entries read from the content directory",
		Factory:     newFilesSource,
	})
	Register(&SourceInfo{
		Name:        SQLiteSource,
		Description: "Collections indexed into a sqlite store",
		Factory:     newSQLiteSource,
	})
}

// filesSource adapts the file reader, which holds no resources
type filesSource struct {
	*content.Files
}

func (filesSource) Close() error { return nil }

func newFilesSource(opts Options) (Source, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("content directory is not set")
	}
	return filesSource{content.NewFiles(opts.Dir)}, nil
}

func newSQLiteSource(opts Options) (Source, error) {
	if opts.DatabasePath == "" {
		return nil, fmt.Errorf("database path is not set")
	}
	// the store is only created by indexing
	if !database.DatabaseExists(opts.DatabasePath) {
		return nil, fmt.Errorf("database %s does not exist, run the index command first", opts.DatabasePath)
	}
	store, err := database.OpenStore(context.Background(), opts.DatabasePath)
	if err != nil {
		return nil, err
	}
	return store, nil
}
