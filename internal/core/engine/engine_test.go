package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/willf/downlow/internal/core"
)

// acceptAnyHost validates structure only, so tests can fetch from
// httptest servers whose hosts have no public suffix.
func acceptAnyHost(rawURL string) (*url.URL, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, false
	}
	return u, true
}

func newTestEngine(t *testing.T, root string) *Engine {
	t.Helper()
	e := New(root, nil, 3, nil)
	e.Validate = acceptAnyHost
	e.Sleep = func(ctx context.Context, seconds float64) error { return nil }
	return e
}

func TestAttemptDownloadsAndPersists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	root := t.TempDir()
	e := newTestEngine(t, root)

	out, err := e.Attempt(context.Background(), srv.URL+"/data/file.csv", 1)
	require.NoError(t, err)
	require.True(t, out.Success)
	require.False(t, out.Skip)
	require.Equal(t, http.StatusOK, out.StatusCode)
	require.Equal(t, 1, out.Attempt)

	content, err := os.ReadFile(filepath.Join(root, "data", "file.csv"))
	require.NoError(t, err)
	require.Equal(t, "payload", string(content))
}

func TestAttemptStripsPrefixes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	root := t.TempDir()
	e := newTestEngine(t, root)
	e.Prefixes = []string{"/bulk-files"}

	out, err := e.Attempt(context.Background(), srv.URL+"/bulk-files/2024/report.zip", 1)
	require.NoError(t, err)
	require.True(t, out.Success)

	_, statErr := os.Stat(filepath.Join(root, "2024", "report.zip"))
	require.NoError(t, statErr)
}

func TestAttemptInvalidURL(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	out, err := e.Attempt(context.Background(), "Bob", 1)
	require.NoError(t, err)
	require.False(t, out.Success)
	require.True(t, out.Skip)
	require.Zero(t, out.StatusCode)
	require.Equal(t, core.BlankRateLimits(), out.RateLimits)
}

func TestAttemptRejectsHostWithoutPublicSuffix(t *testing.T) {
	// The default validator requires a recognized public suffix.
	e := New(t.TempDir(), nil, 1, nil)

	out, err := e.Attempt(context.Background(), "ftp://example/file.txt", 1)
	require.NoError(t, err)
	require.False(t, out.Success)
	require.True(t, out.Skip)
}

func TestAttemptDestinationWithoutExtension(t *testing.T) {
	e := newTestEngine(t, t.TempDir())

	out, err := e.Attempt(context.Background(), "http://files.test/easey/bulk-files", 1)
	require.NoError(t, err)
	require.False(t, out.Success)
	require.True(t, out.Skip)
}

func TestAttemptSkipsExistingFileWithoutNetworkCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("fresh"))
	}))
	defer srv.Close()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "data"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "data", "file.csv"), []byte("old"), 0o644))

	e := newTestEngine(t, root)

	for i := 0; i < 2; i++ {
		out, err := e.Attempt(context.Background(), srv.URL+"/data/file.csv", 1)
		require.NoError(t, err)
		require.True(t, out.Success)
		require.True(t, out.Skip)
		require.Equal(t, http.StatusOK, out.StatusCode)
	}
	require.Zero(t, calls.Load())

	content, err := os.ReadFile(filepath.Join(root, "data", "file.csv"))
	require.NoError(t, err)
	require.Equal(t, "old", string(content))
}

func TestAttemptConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	e := newTestEngine(t, t.TempDir())

	out, err := e.Attempt(context.Background(), srv.URL+"/gone/file.txt", 2)
	require.NoError(t, err)
	require.False(t, out.Success)
	require.False(t, out.Skip)
	require.Equal(t, core.StatusConnError, out.StatusCode)
	require.Equal(t, core.BlankRateLimits(), out.RateLimits)
	require.Equal(t, 2, out.Attempt)
}

func TestAttemptHTTPFailureCarriesRateLimits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	e := newTestEngine(t, t.TempDir())

	out, err := e.Attempt(context.Background(), srv.URL+"/limited/file.txt", 1)
	require.NoError(t, err)
	require.False(t, out.Success)
	require.False(t, out.Skip)
	require.Equal(t, http.StatusTooManyRequests, out.StatusCode)
	require.Equal(t, core.Known(7), out.RateLimits.RetryAfter)
}

func TestAttemptUnparseableRateLimitHeaderFailsLoudly(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "not-a-number")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	e := newTestEngine(t, t.TempDir())

	out, err := e.Attempt(context.Background(), srv.URL+"/odd/file.txt", 1)
	require.Error(t, err)

	var parseErr *core.HeaderParseError
	require.ErrorAs(t, err, &parseErr)
	require.False(t, out.Success)
}

func TestAttemptWriteFailureDowngradesOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	root := t.TempDir()
	// Occupy the parent directory path with a file so MkdirAll fails.
	require.NoError(t, os.WriteFile(filepath.Join(root, "data"), []byte("in the way"), 0o644))

	e := newTestEngine(t, root)

	out, err := e.Attempt(context.Background(), srv.URL+"/data/file.csv", 1)
	require.NoError(t, err)
	require.False(t, out.Success)
	require.True(t, out.Skip)
	require.Equal(t, http.StatusOK, out.StatusCode)
}
