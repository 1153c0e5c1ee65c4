// Package engine drives download attempts and the retry loop around
// them. One attempt at a time: validate the URL, resolve the mirrored
// destination path, skip files that already exist, fetch, classify the
// response, and persist the body.
package engine

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/willf/downlow/internal/core"
	"github.com/willf/downlow/internal/humanize"
	"github.com/willf/downlow/internal/urlutil"
)

// DefaultRequestTimeout bounds every fetch.
const DefaultRequestTimeout = 31 * time.Second

// copyBufferSize is the chunk size for streaming bodies to disk.
const copyBufferSize = 32 * 1024

// Engine downloads a list of URLs into a mirrored directory tree.
// Collaborators are plain fields so tests can substitute them; New
// fills in production defaults.
type Engine struct {
	Client   *http.Client
	Root     string
	Prefixes []string
	MaxTries int
	Limiter  *rate.Limiter
	Logger   *zap.Logger
	Clock    func() time.Time
	Sleep    func(ctx context.Context, seconds float64) error
	Validate func(rawURL string) (*url.URL, bool)

	// Run statistics, owned by the orchestration loop. The mutex only
	// exists so the status server can read a consistent snapshot while
	// a run is in progress.
	mu        sync.Mutex
	stats     core.Stats
	runID     string
	startedAt time.Time
}

// New builds an Engine with production defaults filled in.
func New(root string, prefixes []string, maxTries int, logger *zap.Logger) *Engine {
	if maxTries < 1 {
		maxTries = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		Client:   &http.Client{Timeout: DefaultRequestTimeout},
		Root:     root,
		Prefixes: prefixes,
		MaxTries: maxTries,
		Logger:   logger,
		Clock:    time.Now,
		Sleep:    contextSleep,
		Validate: urlutil.Validate,
	}
}

// contextSleep blocks for the given number of seconds or until the
// context is cancelled.
func contextSleep(ctx context.Context, seconds float64) error {
	timer := time.NewTimer(time.Duration(seconds * float64(time.Second)))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Attempt performs one download attempt and classifies it. It mutates no
// run counters; classification is the orchestration loop's job. The
// returned error is non-nil only when the server sent a rate-limit
// header that could not be parsed; the outcome is still valid and marks
// the attempt failed.
//
// A Skip outcome is terminal for the URL: already-downloaded files are
// skipped successes, structurally invalid URLs and unusable destination
// paths are skipped failures.
func (e *Engine) Attempt(ctx context.Context, rawURL string, attempt int) (core.Outcome, error) {
	rawURL = strings.TrimSpace(rawURL)

	parsed, ok := e.validate(rawURL)
	if !ok {
		e.Logger.Error("invalid URL", zap.String("url", rawURL))
		return core.Outcome{
			URL:        rawURL,
			RateLimits: core.BlankRateLimits(),
			Skip:       true,
			Attempt:    attempt,
		}, nil
	}

	relative := urlutil.StripPrefixes(parsed.Path, e.Prefixes)
	localPath := filepath.Join(e.Root, filepath.FromSlash(relative))
	e.Logger.Debug("resolved destination",
		zap.String("url", rawURL),
		zap.String("path", relative),
		zap.String("local_path", localPath),
		zap.Strings("prefixes", e.Prefixes))

	if !urlutil.HasExtension(relative) {
		e.Logger.Error("invalid destination filename", zap.String("local_path", localPath))
		return core.Outcome{
			URL:        rawURL,
			RateLimits: core.BlankRateLimits(),
			Skip:       true,
			Attempt:    attempt,
		}, nil
	}

	if _, err := os.Stat(localPath); err == nil {
		e.Logger.Info("already exists, skipping", zap.String("local_path", localPath))
		return core.Outcome{
			URL:        rawURL,
			Success:    true,
			StatusCode: http.StatusOK,
			RateLimits: core.BlankRateLimits(),
			Skip:       true,
			Attempt:    attempt,
		}, nil
	}

	if e.Limiter != nil {
		if err := e.Limiter.Wait(ctx); err != nil {
			return core.Outcome{
				URL:        rawURL,
				StatusCode: core.StatusConnError,
				RateLimits: core.BlankRateLimits(),
				Attempt:    attempt,
			}, nil
		}
	}

	resp, err := e.fetch(ctx, rawURL)
	if err != nil {
		e.Logger.Error("request failed", zap.String("url", rawURL), zap.Error(err))
		return core.Outcome{
			URL:        rawURL,
			StatusCode: core.StatusConnError,
			RateLimits: core.BlankRateLimits(),
			Attempt:    attempt,
		}, nil
	}
	defer resp.Body.Close()

	limits, parseErr := core.ParseRateLimits(resp.Header)
	outcome := core.Outcome{
		URL:        rawURL,
		Success:    resp.StatusCode >= 200 && resp.StatusCode < 300,
		StatusCode: resp.StatusCode,
		RateLimits: limits,
		Attempt:    attempt,
	}
	if parseErr != nil {
		outcome.Success = false
		return outcome, parseErr
	}

	size := "unknown"
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			size = humanize.Bytes(float64(n))
		}
	}

	if !outcome.Success {
		e.Logger.Error("download failed",
			zap.String("url", rawURL),
			zap.Int("status_code", resp.StatusCode),
			zap.Int("attempt", attempt))
		return outcome, nil
	}

	if err := e.persist(localPath, resp.Body); err != nil {
		// The reference returned a success-marked outcome here while
		// counting a failure. The outcome is downgraded to a skipped
		// failure instead: counters and outcome agree, and the URL is
		// not retried, matching the reference's loop behavior.
		e.Logger.Error("error writing file", zap.String("local_path", localPath), zap.Error(err))
		outcome.Success = false
		outcome.Skip = true
		return outcome, nil
	}

	e.Logger.Info("downloaded",
		zap.String("url", rawURL),
		zap.String("local_path", localPath),
		zap.String("size", size))
	return outcome, nil
}

// fetch issues the GET request. Transport-level errors mean no response
// exists; the caller records the connection-error sentinel.
func (e *Engine) fetch(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return e.Client.Do(req)
}

// persist streams the response body to the destination, creating parent
// directories as needed. Partial writes stay under the destination path.
func (e *Engine) persist(localPath string, body io.Reader) error {
	if dir := filepath.Dir(localPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(localPath)
	if err != nil {
		return err
	}
	buf := make([]byte, copyBufferSize)
	_, copyErr := io.CopyBuffer(f, body, buf)
	closeErr := f.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

func (e *Engine) validate(rawURL string) (*url.URL, bool) {
	if e.Validate != nil {
		return e.Validate(rawURL)
	}
	return urlutil.Validate(rawURL)
}

// Snapshot returns the current run counters. Safe to call from other
// goroutines; the status server polls it mid-run.
func (e *Engine) Snapshot() core.Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// RunID returns the identifier of the current or most recent run.
func (e *Engine) RunID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runID
}

// StartedAt returns when the current or most recent run began.
func (e *Engine) StartedAt() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.startedAt
}
