// Package location derives the content path for a page URL.
package location

import (
	"net/url"
	"strings"
)

// Resolve returns the content path for rawURL.
//
// Everything after the first "?" becomes the path, prefixed with "/" unless
// it already starts with one. Without a query separator the URL's own path is
// used instead.
func Resolve(rawURL string) string {
	if _, query, ok := strings.Cut(rawURL, "?"); ok {
		if strings.HasPrefix(query, "/") {
			return query
		}
		return "/" + query
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		before, _, _ := strings.Cut(rawURL, "#")
		return before
	}
	if u.Path == "" {
		return "/"
	}
	return u.Path
}

// TagPath is the in-app link to a tag page.
func TagPath(tag string) string {
	return "/tag/" + tag
}
