package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/willf/downlow/internal/core"
	"github.com/willf/downlow/internal/humanize"
)

// Run processes every URL in order. Each URL gets up to MaxTries
// attempts with the wait-time policy applied between them; a URL is
// finished as soon as an attempt succeeds or is skipped. One URL
// exhausting its retries never aborts the batch.
//
// Run owns the statistics: every URL terminates in exactly one of
// existing (skipped success), succeeded, or failed (skipped failure or
// retry exhaustion). Returns the counters by value.
func (e *Engine) Run(ctx context.Context, urls []string) core.Stats {
	if ctx == nil {
		ctx = context.Background()
	}

	e.mu.Lock()
	e.stats = core.Stats{}
	e.runID = uuid.New().String()
	e.startedAt = e.now()
	runID := e.runID
	started := e.startedAt
	e.mu.Unlock()

	total := len(urls)
	log := e.Logger.With(zap.String("run_id", runID))
	log.Info("starting batch", zap.Int("urls", total))

	for i, url := range urls {
		if ctx.Err() != nil {
			log.Warn("batch cancelled", zap.Int("processed", i))
			break
		}
		percent := 100.0 * float64(i+1) / float64(total)
		log.Info("downloading",
			zap.Int("index", i+1),
			zap.Int("total", total),
			zap.Float64("percent", percent),
			zap.String("url", url))

		outcome := e.downloadWithRetries(ctx, log, url)
		e.record(outcome)
		if !outcome.Success && !outcome.Skip {
			log.Error("failed after max attempts",
				zap.String("url", url),
				zap.Int("max_tries", e.MaxTries))
		}
	}

	stats := e.Snapshot()
	elapsed := e.now().Sub(started).Seconds()
	log.Info("batch complete",
		zap.Int("processed", stats.Processed),
		zap.Int("existing", stats.Existing),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.String("elapsed", humanize.Seconds(elapsed)),
		zap.String("rate", humanize.Rate(stats.Processed, elapsed)))
	return stats
}

// downloadWithRetries drives the per-URL attempt loop. Attempts are
// strictly sequential; the policy-derived wait runs after every attempt,
// before the loop decides whether the URL is finished.
func (e *Engine) downloadWithRetries(ctx context.Context, log *zap.Logger, url string) core.Outcome {
	var outcome core.Outcome
	for attempt := 1; attempt <= e.MaxTries; attempt++ {
		if attempt > 1 {
			log.Info("retrying", zap.String("url", url), zap.Int("attempt", attempt))
		}
		var err error
		outcome, err = e.Attempt(ctx, url, attempt)
		if err != nil {
			log.Error("rate limit headers unparseable", zap.String("url", url), zap.Error(err))
		}
		if wait := core.WaitTime(outcome, e.Clock); wait > 0 {
			log.Info("waiting before next request",
				zap.Float64("seconds", wait),
				zap.String("wait", humanize.Seconds(wait)))
			if err := e.sleep(ctx, wait); err != nil {
				return outcome
			}
		}
		if outcome.Success || outcome.Skip {
			return outcome
		}
	}
	return outcome
}

// record classifies a URL's terminal outcome into the run counters.
func (e *Engine) record(outcome core.Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.Processed++
	switch {
	case outcome.Skip && outcome.Success:
		e.stats.Existing++
	case outcome.Success:
		e.stats.Succeeded++
	default:
		e.stats.Failed++
	}
}

func (e *Engine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *Engine) sleep(ctx context.Context, seconds float64) error {
	if e.Sleep != nil {
		return e.Sleep(ctx, seconds)
	}
	return contextSleep(ctx, seconds)
}
