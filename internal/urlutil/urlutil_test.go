package urlutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		url  string
		ok   bool
		host string
	}{
		{"https://api.epa.gov/easey/bulk-files", true, "api.epa.gov"},
		{"https://www.example.com", true, "www.example.com"},
		{"http://example.co.uk/a.txt", true, "example.co.uk"},
		{"Bob", false, ""},
		{"ftp://example", false, ""},
		{"https:///no-host.txt", false, ""},
		{"", false, ""},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			u, ok := Validate(tc.url)
			require.Equal(t, tc.ok, ok)
			if ok {
				require.Equal(t, tc.host, u.Host)
			}
		})
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"john", false},
		{"john.txt", true},
		{"john.txt/", false},
		{"/some/dir/john.txt", true},
		{".txt", false},
		{"", false},
		{"archive.tar.gz", true},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			require.Equal(t, tc.want, HasExtension(tc.path))
		})
	}
}

func TestStripPrefixes(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		prefixes []string
		want     string
	}{
		{"no prefixes", "/easey/bulk-files/data.csv", nil, "easey/bulk-files/data.csv"},
		{"single prefix", "/easey/bulk-files/data.csv", []string{"/easey"}, "bulk-files/data.csv"},
		{"prefixes apply in order", "/a/b/c/data.csv", []string{"/a", "b/"}, "c/data.csv"},
		{"non-matching prefix ignored", "/x/data.csv", []string{"/zzz"}, "x/data.csv"},
		{"empty prefix ignored", "/x/data.csv", []string{""}, "x/data.csv"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, StripPrefixes(tc.path, tc.prefixes))
		})
	}
}

func TestLongestCommonPrefix(t *testing.T) {
	tests := []struct {
		name string
		strs []string
		want string
	}{
		{"classic", []string{"flower", "flow", "flight"}, "fl"},
		{"nothing shared", []string{"dog", "racecar", "car"}, ""},
		{"inters", []string{"interspecies", "interstellar", "interstate"}, "inters"},
		{"identical", []string{"throne", "throne"}, "throne"},
		{"empty list", nil, ""},
		{"single", []string{"/easey/bulk-files/"}, "/easey/bulk-files/"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, LongestCommonPrefix(tc.strs))
		})
	}
}
