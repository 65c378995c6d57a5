// Package pagemeta derives display metadata from raw page content, for
// hosts that report a page without a usable title.
package pagemeta

import (
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Title extracts a display title from raw HTML. When extraction fails or
// yields nothing, it falls back to the URL's host (or the raw URL when it
// does not parse).
func Title(html, pageURL string) string {
	if strings.TrimSpace(html) != "" {
		article, err := readability.FromReader(strings.NewReader(html), nil)
		if err == nil {
			if title := strings.TrimSpace(article.Title); title != "" {
				return title
			}
		}
	}
	return hostOf(pageURL)
}

func hostOf(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return pageURL
	}
	return u.Host
}
