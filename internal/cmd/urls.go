package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/willf/downlow/internal/urlutil"
)

// readURLs collects candidate URLs, one per line, from the named file or
// from the reader (stdin) when path is empty. Blank lines and lines
// starting with # are discarded.
func readURLs(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader = stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open url file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var urls []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}
	return urls, nil
}

// filterURLs keeps URLs matching the expression, or the non-matching
// ones when reverse is set. An empty expression keeps everything.
func filterURLs(urls []string, expr string, reverse bool) ([]string, error) {
	if expr == "" {
		return urls, nil
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile url regex: %w", err)
	}
	filtered := make([]string, 0, len(urls))
	for _, u := range urls {
		if pattern.MatchString(u) != reverse {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

// shuffleURLs randomizes processing order in place.
func shuffleURLs(urls []string) {
	rand.Shuffle(len(urls), func(i, j int) {
		urls[i], urls[j] = urls[j], urls[i]
	})
}

// commonPathPrefix returns the longest prefix shared by the paths of all
// URLs, for --auto-remove-prefix.
func commonPathPrefix(urls []string) string {
	paths := make([]string, 0, len(urls))
	for _, raw := range urls {
		if raw == "" {
			continue
		}
		if u, err := url.Parse(raw); err == nil {
			paths = append(paths, u.Path)
		}
	}
	return urlutil.LongestCommonPrefix(paths)
}
