package urlutils

import "testing"

func TestIsValidURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "https://example.com", want: true},
		{in: "http://localhost:4321/blog/", want: true},
		{in: "example.com", want: false},
		{in: "/blog/a/", want: false},
		{in: "", want: false},
		{in: "://bad", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := IsValidURL(tt.in); got != tt.want {
				t.Errorf("IsValidURL(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "https://example.com", want: "https://example.com/"},
		{in: "https://example.com/", want: "https://example.com/"},
		{in: "https://example.com/docs", want: "https://example.com/docs"},
		{in: "", wantErr: true},
		{in: "yourdomain.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := CanonicalURL(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanonicalURL(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base string
		rel  string
		want string
	}{
		{base: "https://example.com/", rel: "/blog/a/", want: "https://example.com/blog/a/"},
		{base: "https://example.com/sub/", rel: "/blog/a/", want: "https://example.com/blog/a/"},
		{base: "https://example.com/sub/", rel: "blog/a/", want: "https://example.com/sub/blog/a/"},
		{base: "https://example.com/", rel: "https://other.org/x", want: "https://other.org/x"},
	}

	for _, tt := range tests {
		t.Run(tt.rel, func(t *testing.T) {
			got, err := ResolveURL(tt.base, tt.rel)
			if err != nil {
				t.Fatalf("ResolveURL() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.rel, got, tt.want)
			}
		})
	}
}
