package content

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory collection source
type Memory struct {
	mu          sync.RWMutex
	collections map[string][]Item
}

// NewMemory creates an empty in-memory source
func NewMemory() *Memory {
	return &Memory{collections: make(map[string][]Item)}
}

// Put replaces the items of a collection, creating it if needed
func (m *Memory) Put(collection string, items ...Item) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]Item, len(items))
	for i, item := range items {
		item.Collection = collection
		stored[i] = item
	}
	m.collections[collection] = stored
}

// ListItems returns a copy of the collection in insertion order
func (m *Memory) ListItems(ctx context.Context, collection string) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	items, ok := m.collections[collection]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	out := make([]Item, len(items))
	for i, item := range items {
		item.Tags = append([]string(nil), item.Tags...)
		out[i] = item
	}
	return out, nil
}
