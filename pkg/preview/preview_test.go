package preview

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lepinkainen/blog-feed/pkg/feed"
)

func testDocument() *feed.Document {
	return &feed.Document{
		Title:       feed.DefaultTitle,
		Description: feed.DefaultDescription,
		Site:        "https://example.com",
		Language:    feed.DefaultLanguage,
		Entries: []feed.Entry{
			{Title: "B", Link: "/blog/b/", Description: "Post B", PubDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), Categories: []string{"y", "z"}},
			{Title: "A", Link: "/blog/a/", Description: "Post A", PubDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Categories: []string{"x"}},
		},
	}
}

func TestFormatCompactListItem(t *testing.T) {
	doc := testDocument()

	tests := []struct {
		name  string
		index int
		entry feed.Entry
		want  string
	}{
		{name: "with categories", index: 0, entry: doc.Entries[0], want: " 1. 2024-06-01  B  [y, z]"},
		{name: "without categories", index: 9, entry: feed.Entry{Title: "Plain", PubDate: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC)}, want: "10. 2023-02-03  Plain"},
		{name: "long cyrillic title", index: 0, entry: feed.Entry{Title: strings.Repeat("ж", 80), PubDate: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC)}, want: " 1. 2023-02-03  " + strings.Repeat("ж", 67) + "..."},
		{name: "long title", index: 0, entry: feed.Entry{Title: strings.Repeat("x", 80), PubDate: time.Date(2023, 2, 3, 0, 0, 0, 0, time.UTC)}, want: " 1. 2023-02-03  " + strings.Repeat("x", 67) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatCompactListItem(tt.index, tt.entry)
			if got != tt.want {
				t.Errorf("FormatCompactListItem() = %q, want %q", got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("FormatCompactListItem() produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestFormatDetailedItem(t *testing.T) {
	got := FormatDetailedItem(testDocument().Entries[0], "https://example.com")

	for _, want := range []string{
		"Title: B\n",
		"Link: https://example.com/blog/b/\n",
		"Published: Sat, 01 Jun 2024 00:00:00 UTC (2024-06-01)\n",
		"Categories: y, z\n",
		"Description:\nPost B\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatDetailedItem() missing %q:\n%s", want, got)
		}
	}
}

func TestFormatXMLItem(t *testing.T) {
	doc := testDocument()

	got := FormatXMLItem(doc, 1, feed.NewGenerator())
	want := `<item>
  <title>A</title>
  <link>https://example.com/blog/a/</link>
  <guid isPermaLink="true">https://example.com/blog/a/</guid>
  <description>Post A</description>
  <pubDate>Mon, 01 Jan 2024 00:00:00 GMT</pubDate>
  <category>x</category>
</item>
`
	if got != want {
		t.Errorf("FormatXMLItem() =\n%s\nwant\n%s", got, want)
	}

	if got := FormatXMLItem(doc, 5, feed.NewGenerator()); got != "No entry selected" {
		t.Errorf("FormatXMLItem(out of range) = %q", got)
	}
	if len(doc.Entries) != 2 {
		t.Error("FormatXMLItem() modified the document")
	}
}

func TestFormatDetailedItem_LongCyrillicDescription(t *testing.T) {
	entry := testDocument().Entries[0]
	entry.Description = strings.Repeat("щ", 1500)

	got := FormatDetailedItem(entry, "https://example.com")
	if !utf8.ValidString(got) {
		t.Fatal("FormatDetailedItem() produced invalid UTF-8")
	}
	if n := strings.Count(got, "щ"); n != 1000 {
		t.Errorf("description kept %d runes, want 1000", n)
	}
	if !strings.Contains(got, "щ...") {
		t.Error("truncated description does not end with ...")
	}
}

func TestWrapXMLContent_MultibyteRunes(t *testing.T) {
	line := "  <description>" + strings.Repeat("я", 200) + "</description>"

	got := wrapXMLContent(line, 80)
	if !utf8.ValidString(got) {
		t.Fatalf("wrapXMLContent() produced invalid UTF-8: %q", got)
	}
	for _, l := range strings.Split(strings.TrimSuffix(got, "\n"), "\n") {
		if n := utf8.RuneCountInString(l); n > 80 {
			t.Errorf("line has %d runes, want at most 80: %q", n, l)
		}
	}
	if strings.ReplaceAll(got, "\n", "") != line {
		t.Error("wrapXMLContent() lost content")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		limit int
		want  string
	}{
		{in: "short", limit: 10, want: "short"},
		{in: "привет мир", limit: 7, want: "прив..."},
		{in: "日本語テキスト", limit: 3, want: "日本語"},
	}

	for _, tt := range tests {
		if got := truncate(tt.in, tt.limit); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.limit, got, tt.want)
		}
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("one two three four five", 9)
	want := "one two\nthree\nfour five"
	if got != want {
		t.Errorf("wrapText() = %q, want %q", got, want)
	}
}

func TestModel_Navigation(t *testing.T) {
	var m tea.Model = NewModel(testDocument(), feed.NewGenerator())

	press := func(key string) {
		var msg tea.KeyMsg
		switch key {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		m, _ = m.Update(msg)
	}

	if view := m.View(); !strings.Contains(view, "Programmer's Blog (2 entries)") {
		t.Errorf("list view header missing:\n%s", view)
	}

	press("j")
	press("enter")
	if view := m.View(); !strings.Contains(view, "Title: A") {
		t.Errorf("detail view does not show the second entry:\n%s", view)
	}

	press("x")
	if view := m.View(); !strings.Contains(view, "<title>A</title>") {
		t.Errorf("XML view does not show the second entry:\n%s", view)
	}

	press("esc")
	press("k")
	press("k")
	press("enter")
	if view := m.View(); !strings.Contains(view, "Title: B") {
		t.Errorf("cursor did not stop at the first entry:\n%s", view)
	}
}
