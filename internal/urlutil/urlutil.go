// Package urlutil holds the URL and path helpers the download engine
// relies on: structural URL validation, prefix stripping for mirrored
// path layouts, and common-prefix discovery across a URL list.
package urlutil

import (
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Validate checks that a URL is structurally usable for downloading: it
// must parse, carry a scheme and host, and the host must end in a
// recognized public suffix. Returns the parsed URL on success.
func Validate(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	suffix, icann := publicsuffix.PublicSuffix(strings.ToLower(u.Hostname()))
	if suffix == "" || !icann {
		return nil, false
	}
	return u, true
}

// HasExtension reports whether the final path element is a file name
// with both a stem and an extension. "john.txt" qualifies; "john",
// ".txt", and "john.txt/" do not.
func HasExtension(p string) bool {
	if strings.HasSuffix(p, "/") {
		return false
	}
	base := path.Base(p)
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem != "" && ext != ""
}

// StripPrefixes removes the configured leading prefixes from a URL path,
// applied in caller-supplied order. Each prefix is compared without its
// own leading slash, against the path with its leading slashes removed.
func StripPrefixes(p string, prefixes []string) string {
	p = strings.TrimLeft(p, "/")
	for _, prefix := range prefixes {
		prefix = strings.TrimLeft(prefix, "/")
		if prefix == "" {
			continue
		}
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimLeft(strings.TrimPrefix(p, prefix), "/")
		}
	}
	return p
}

// LongestCommonPrefix returns the longest prefix shared by every string
// in the list, or "" when the list is empty or shares nothing.
func LongestCommonPrefix(strs []string) string {
	if len(strs) == 0 {
		return ""
	}
	prefix := strs[0]
	for _, s := range strs[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}
