package pagemeta

import "testing"

func TestTitleFromHTML(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>Release Notes — v2.1</title></head>
<body><article><h1>Release Notes</h1><p>Changes in this release.</p></article></body>
</html>`

	got := Title(html, "https://example.com/releases")
	if got != "Release Notes — v2.1" {
		t.Errorf("Title = %q, want the document title", got)
	}
}

func TestTitleFallsBackToHost(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
		want string
	}{
		{"empty content", "", "https://example.com/page", "example.com"},
		{"untitled document", "<html><body><p>hi</p></body></html>", "https://go.dev/doc", "go.dev"},
		{"unparseable url", "", "::not a url::", "::not a url::"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.html, tt.url); got != tt.want {
				t.Errorf("Title = %q, want %q", got, tt.want)
			}
		})
	}
}
