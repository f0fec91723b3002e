package database

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lepinkainen/blog-feed/pkg/content"
	"github.com/lepinkainen/blog-feed/pkg/filesystem"
)

//go:embed schema.sql
var schemaFS embed.FS

// Store persists content collections in sqlite and serves them back in indexed order
type Store struct {
	db *Database
}

// Ensure Store can back a feed
var _ content.Lister = (*Store)(nil)

// itemRow is the database form of a content.Item
type itemRow struct {
	Collection  string `db:"collection"`
	Position    int    `db:"position"`
	ID          string `db:"id"`
	Slug        string `db:"slug"`
	Title       string `db:"title"`
	Date        string `db:"date"`
	Description string `db:"description"`
	Tags        string `db:"tags"`
	Body        string `db:"body"`
}

// CollectionStats summarizes one indexed collection
type CollectionStats struct {
	Name      string `db:"name" json:"name"`
	Items     int    `db:"items" json:"items"`
	IndexedAt string `db:"indexed_at" json:"indexed_at"`
}

// Stats describes the store and its collections
type Stats struct {
	Path          string            `json:"path"`
	SizeBytes     int64             `json:"size_bytes"`
	SQLiteVersion string            `json:"sqlite_version"`
	Collections   []CollectionStats `json:"collections"`
}

// OpenStore opens (or creates) the store at path
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if err := filesystem.EnsureDirectoryExists(path); err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Path = path

	db, err := NewDatabase(config)
	if err != nil {
		return nil, err
	}

	store, err := NewStore(ctx, db)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
		return nil, err
	}
	return store, nil
}

// NewStore creates the store schema on db if needed
func NewStore(ctx context.Context, db *Database) (*Store, error) {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	if err := db.ExecuteSchema(ctx, string(schema)); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.db.Path()
}

// ReplaceCollection atomically replaces the contents of a collection, keeping the order of items
func (s *Store) ReplaceCollection(ctx context.Context, name string, items []content.Item) error {
	rows := make([]itemRow, 0, len(items))
	for i, item := range items {
		row, err := toRow(name, i, item)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE collection = ?`, name); err != nil {
			return fmt.Errorf("failed to clear collection %s: %w", name, err)
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO collections (name, indexed_at) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET indexed_at = excluded.indexed_at`,
			name, time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("failed to record collection %s: %w", name, err)
		}

		for _, row := range rows {
			_, err := tx.NamedExecContext(ctx, `
				INSERT INTO items (collection, position, id, slug, title, date, description, tags, body)
				VALUES (:collection, :position, :id, :slug, :title, :date, :description, :tags, :body)`, row)
			if err != nil {
				return fmt.Errorf("failed to insert item %s: %w", row.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	slog.Debug("Indexed collection", "collection", name, "items", len(rows), "path", s.db.Path())
	return nil
}

// ListItems returns the items of a collection in the order they were indexed
func (s *Store) ListItems(ctx context.Context, collection string) ([]content.Item, error) {
	db := s.db.DB()

	var exists int
	if err := db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM collections WHERE name = ?`, collection); err != nil {
		return nil, fmt.Errorf("failed to look up collection %s: %w", collection, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", content.ErrCollectionNotFound, collection)
	}

	var rows []itemRow
	err := db.SelectContext(ctx, &rows, `
		SELECT collection, position, id, slug, title, date, description, tags, body
		FROM items WHERE collection = ? ORDER BY position`, collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}

	items := make([]content.Item, 0, len(rows))
	for _, row := range rows {
		item, err := row.toItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Collections lists the indexed collection names in alphabetical order
func (s *Store) Collections(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.DB().SelectContext(ctx, &names, `SELECT name FROM collections ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return names, nil
}

// Stats reports the size of the store and the item count of each collection
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.DB()
	stats := &Stats{Path: s.db.Path()}

	if err := db.GetContext(ctx, &stats.SQLiteVersion, `SELECT sqlite_version()`); err != nil {
		return nil, fmt.Errorf("failed to get SQLite version: %w", err)
	}

	if size, err := GetDatabaseSize(s.db.Path()); err == nil {
		stats.SizeBytes = size
	}

	err := db.SelectContext(ctx, &stats.Collections, `
		SELECT c.name AS name, c.indexed_at AS indexed_at, COUNT(i.position) AS items
		FROM collections c LEFT JOIN items i ON i.collection = c.name
		GROUP BY c.name, c.indexed_at
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection stats: %w", err)
	}

	return stats, nil
}

func toRow(collection string, position int, item content.Item) (itemRow, error) {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	encoded, err := json.Marshal(tags)
	if err != nil {
		return itemRow{}, fmt.Errorf("failed to encode tags of %s: %w", item.ID, err)
	}

	var date string
	if !item.Date.IsZero() {
		date = item.Date.Format(time.RFC3339Nano)
	}

	return itemRow{
		Collection:  collection,
		Position:    position,
		ID:          item.ID,
		Slug:        item.Slug,
		Title:       item.Title,
		Date:        date,
		Description: item.Description,
		Tags:        string(encoded),
		Body:        item.Body,
	}, nil
}

func (r itemRow) toItem() (content.Item, error) {
	item := content.Item{
		ID:          r.ID,
		Collection:  r.Collection,
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Body:        r.Body,
	}

	if r.Date != "" {
		date, err := time.Parse(time.RFC3339Nano, r.Date)
		if err != nil {
			return content.Item{}, fmt.Errorf("failed to parse date of %s: %w", r.ID, err)
		}
		item.Date = date
	}

	if err := json.Unmarshal([]byte(r.Tags), &item.Tags); err != nil {
		return content.Item{}, fmt.Errorf("failed to decode tags of %s: %w", r.ID, err)
	}
	if len(item.Tags) == 0 {
		item.Tags = nil
	}

	return item, nil
}
