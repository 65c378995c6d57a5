// Package urlx turns omnibox input into a navigable URL.
package urlx

import (
	"net/url"
	"regexp"
	"strings"
)

// SearchURL is the prefix for queries that don't look like an address.
const SearchURL = "https://duckduckgo.com/?q="

var (
	// label(.label)+ with an optional port and path, e.g. "go.dev/doc".
	domainRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*(\.[a-zA-Z0-9][a-zA-Z0-9-]*)+(:\d+)?(/\S*)?$`)

	localhostRe = regexp.MustCompile(`^localhost(:\d+)?(/\S*)?$`)
	ipv4Re      = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}(:\d+)?(/\S*)?$`)
)

// Normalize maps raw omnibox input to the URL the host should navigate to.
//
//   - already http:// or https:// → unchanged
//   - bare domain ("example.com")  → https:// prefixed
//   - localhost or dotted-quad IP  → http:// prefixed
//   - anything else               → search engine query
func Normalize(input string) string {
	input = strings.TrimSpace(input)

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return input
	}
	if strings.ContainsAny(input, " \t") {
		return SearchURL + url.QueryEscape(input)
	}
	if localhostRe.MatchString(input) || ipv4Re.MatchString(input) {
		return "http://" + input
	}
	if domainRe.MatchString(input) {
		return "https://" + input
	}
	return SearchURL + url.QueryEscape(input)
}
