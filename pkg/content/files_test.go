package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"testing/fstest"
	"time"
)

func TestFiles_ListItems(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/hello-world.md": {Data: []byte(`---
title: Hello World
date: 2024-01-01
description: First post
tags: [go, web]
---
# Hello
`)},
		"posts/Second Post.mdx": {Data: []byte("---\r\ntitle: \"Second\"\r\ndate: \"2024-06-01T10:30:00Z\"\r\ntags:\r\n  - mdx\r\n---\r\nBody\r\n")},
		"posts/nested/deep.markdown": {Data: []byte(`---
title: Deep
date: 2023-12-24 08:00:00
slug: custom/slug/
---
`)},
		"posts/data.json":  {Data: []byte(`{"title": "Data", "date": "2022-02-02", "tags": ["json"]}`)},
		"posts/_draft.md":  {Data: []byte("---\ntitle: Draft\n---\n")},
		"posts/notes.txt":  {Data: []byte("ignored")},
		"posts/_hidden/x.md": {Data: []byte("---\ntitle: Hidden\n---\n")},
	}

	items, err := NewFilesFS(fsys).ListItems(context.Background(), "posts")
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}

	wantSlugs := []string{"second-post", "data", "hello-world", "custom/slug"}
	var gotSlugs []string
	for _, item := range items {
		gotSlugs = append(gotSlugs, item.Slug)
	}
	if !reflect.DeepEqual(gotSlugs, wantSlugs) {
		t.Fatalf("slugs = %v, want %v", gotSlugs, wantSlugs)
	}

	second := items[0]
	if second.Title != "Second" {
		t.Errorf("Title = %q, want %q", second.Title, "Second")
	}
	if want := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC); !second.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", second.Date, want)
	}
	if second.Body != "Body\n" {
		t.Errorf("Body = %q, want %q", second.Body, "Body\n")
	}

	hello := items[2]
	if hello.Collection != "posts" || hello.ID != "hello-world.md" {
		t.Errorf("Collection/ID = %q/%q, want posts/hello-world.md", hello.Collection, hello.ID)
	}
	if !reflect.DeepEqual(hello.Tags, []string{"go", "web"}) {
		t.Errorf("Tags = %v, want [go web]", hello.Tags)
	}
	if want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC); !hello.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", hello.Date, want)
	}
	if hello.Description != "First post" {
		t.Errorf("Description = %q, want %q", hello.Description, "First post")
	}
}

func TestFiles_ListItems_MissingCollection(t *testing.T) {
	files := NewFiles(t.TempDir())

	_, err := files.ListItems(context.Background(), "posts")
	if !errors.Is(err, ErrCollectionNotFound) {
		t.Fatalf("ListItems() error = %v, want ErrCollectionNotFound", err)
	}
}

func TestFiles_ListItems_EmptyCollection(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "posts"), 0o755); err != nil {
		t.Fatalf("Failed to create collection dir: %v", err)
	}

	items, err := NewFiles(dir).ListItems(context.Background(), "posts")
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 0 {
		t.Errorf("ListItems() returned %d items, want 0", len(items))
	}
}

func TestFiles_ListItems_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "unterminated front matter", data: "---\ntitle: x\n"},
		{name: "invalid YAML", data: "---\ntitle: [x\n---\n"},
		{name: "invalid date", data: "---\ndate: yesterday\n---\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := fstest.MapFS{"posts/bad.md": {Data: []byte(tt.data)}}
			if _, err := NewFilesFS(fsys).ListItems(context.Background(), "posts"); err == nil {
				t.Error("ListItems() expected error, got nil")
			}
		})
	}
}

func TestFiles_ListItems_MissingDateIsZero(t *testing.T) {
	fsys := fstest.MapFS{"posts/undated.md": {Data: []byte("---\ntitle: Undated\n---\n")}}

	items, err := NewFilesFS(fsys).ListItems(context.Background(), "posts")
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 || !items[0].Date.IsZero() {
		t.Errorf("expected one item with zero date, got %+v", items)
	}
}

func TestFiles_Collections(t *testing.T) {
	fsys := fstest.MapFS{
		"posts/a.md":     {Data: []byte("a")},
		"notes/b.md":     {Data: []byte("b")},
		"_drafts/c.md":   {Data: []byte("c")},
		"config.json":    {Data: []byte("{}")},
	}

	names, err := NewFilesFS(fsys).Collections()
	if err != nil {
		t.Fatalf("Collections() error = %v", err)
	}
	if !reflect.DeepEqual(names, []string{"notes", "posts"}) {
		t.Errorf("Collections() = %v, want [notes posts]", names)
	}
}

func TestParseFrontMatter_NoFrontMatter(t *testing.T) {
	fm, body, err := parseFrontMatter([]byte("# Just markdown\n"))
	if err != nil {
		t.Fatalf("parseFrontMatter() error = %v", err)
	}
	if fm.Title != "" || body != "# Just markdown\n" {
		t.Errorf("parseFrontMatter() = %+v, %q", fm, body)
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		data      string
		wantTitle string
		wantTags  []string
		wantBody  string
	}{
		{
			name:      "plain",
			data:      "---\ntitle: Hello\ntags: [a, b]\n---\nBody\n",
			wantTitle: "Hello",
			wantTags:  []string{"a", "b"},
			wantBody:  "Body\n",
		},
		{
			name:      "byte order mark and CRLF",
			data:      "\ufeff---\r\ntitle: Привет\r\n---\r\nТекст\r\n",
			wantTitle: "Привет",
			wantBody:  "Текст\n",
		},
		{
			name:     "empty block",
			data:     "---\n---\nOnly body\n",
			wantBody: "Only body\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body, err := parseFrontMatter([]byte(tt.data))
			if err != nil {
				t.Fatalf("parseFrontMatter() error = %v", err)
			}
			if fm.Title != tt.wantTitle || !reflect.DeepEqual(fm.Tags, tt.wantTags) {
				t.Errorf("parseFrontMatter() = %+v, want title %q tags %v", fm, tt.wantTitle, tt.wantTags)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		data     string
		expected string
	}{
		{name: "JSON extension", path: "a.json", data: `test: true`, expected: "json"},
		{name: "YAML extension", path: "a.yaml", data: `{"a":1}`, expected: "yaml"},
		{name: "YML extension", path: "a.yml", data: `a: 1`, expected: "yaml"},
		{name: "JSON content", path: "a", data: `  {"a": 1}`, expected: "json"},
		{name: "JSON array content", path: "a", data: `[1]`, expected: "json"},
		{name: "YAML fallback", path: "a", data: `a: 1`, expected: "yaml"},
		{name: "empty defaults to YAML", path: "a", data: ``, expected: "yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFormat(tt.path, []byte(tt.data)); got != tt.expected {
				t.Errorf("detectFormat(%q) = %q, want %q", tt.path, got, tt.expected)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: "2024-01-01", want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T12:00:00Z", want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{in: "2024-01-01T12:00:00+02:00", want: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{in: "2024-01-01 12:00:00", want: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if _, err := ParseDate("01/02/2024"); err == nil {
		t.Error("ParseDate() expected error for unsupported layout")
	}
}

func TestSlugFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "hello-world.md", want: "hello-world"},
		{in: "Hello World.mdx", want: "hello-world"},
		{in: "2024/My Post!.md", want: "2024/my-post"},
		{in: "snake_case.json", want: "snake_case"},
		{in: "привет мир.md", want: "привет-мир"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SlugFromPath(tt.in); got != tt.want {
				t.Errorf("SlugFromPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMemory_ListItems(t *testing.T) {
	m := NewMemory()
	m.Put("posts", Item{Slug: "a", Tags: []string{"x"}}, Item{Slug: "b"})

	items, err := m.ListItems(context.Background(), "posts")
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 2 || items[0].Slug != "a" || items[1].Slug != "b" {
		t.Fatalf("ListItems() = %+v", items)
	}
	if items[0].Collection != "posts" {
		t.Errorf("Collection = %q, want posts", items[0].Collection)
	}

	// callers get copies
	items[0].Tags[0] = "changed"
	again, _ := m.ListItems(context.Background(), "posts")
	if again[0].Tags[0] != "x" {
		t.Error("ListItems() leaked internal tag slice")
	}

	if _, err := m.ListItems(context.Background(), "missing"); !errors.Is(err, ErrCollectionNotFound) {
		t.Errorf("ListItems(missing) error = %v, want ErrCollectionNotFound", err)
	}
}
