// Package sources creates content collection sources by name.
package sources

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/lepinkainen/blog-feed/pkg/content"
)

// Source is a content collection that holds resources until closed
type Source interface {
	content.Lister
	io.Closer
}

// Options configures the source a factory creates
type Options struct {
	// Dir is the content root holding one directory per collection
	Dir string
	// DatabasePath is the sqlite store written by the index command
	DatabasePath string
}

// Factory creates a new source instance
type Factory func(opts Options) (Source, error)

// SourceInfo contains metadata about a source
type SourceInfo struct {
	Name        string
	Description string
	Factory     Factory
}

// Registry manages registered content sources
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*SourceInfo
}

// NewRegistry creates a new source registry
func NewRegistry() *Registry {
	return &Registry{
		sources: make(map[string]*SourceInfo),
	}
}

// Register adds a source to the registry
func (r *Registry) Register(info *SourceInfo) error {
	if info == nil || info.Name == "" || info.Factory == nil {
		return fmt.Errorf("source info must have a name and a factory")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sources[info.Name]; exists {
		return fmt.Errorf("source %s is already registered", info.Name)
	}

	r.sources[info.Name] = info
	return nil
}

// Get retrieves a source by name
func (r *Registry) Get(name string) (*SourceInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, exists := r.sources[name]
	if !exists {
		return nil, fmt.Errorf("source %s not found", name)
	}

	return info, nil
}

// List returns all registered source names in alphabetical order
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Create creates a new instance of the named source
func (r *Registry) Create(name string, opts Options) (Source, error) {
	info, err := r.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%w (available: %s)", err, strings.Join(r.List(), ", "))
	}

	source, err := info.Factory(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create source %s: %w", name, err)
	}

	slog.Debug("Created source", "source", name)
	return source, nil
}

// DefaultRegistry holds the built-in sources
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a source with the default registry
func Register(info *SourceInfo) {
	if err := DefaultRegistry.Register(info); err != nil {
		slog.Warn("Failed to register source", "source", info.Name, "error", err)
	}
}

// Create is a convenience function to create a source from the default registry
func Create(name string, opts Options) (Source, error) {
	return DefaultRegistry.Create(name, opts)
}
