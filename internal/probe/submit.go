package probe

import (
	"context"
	"math"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/devscore/pkg/logger"
)

// outcome classifies one probe request.
type outcome int

const (
	outcomeMatched outcome = iota
	outcomeRejected
	outcomeMismatched
	outcomeFailed
)

// scoreEpsilon absorbs nothing but float formatting noise; both sides run
// the same arithmetic.
const scoreEpsilon = 1e-9

// counters tallies outcomes across workers.
type counters struct {
	done, matched, rejected, mismatched, failed atomic.Int64
}

func (c *counters) add(o outcome) {
	c.done.Add(1)
	switch o {
	case outcomeMatched:
		c.matched.Add(1)
	case outcomeRejected:
		c.rejected.Add(1)
	case outcomeMismatched:
		c.mismatched.Add(1)
	case outcomeFailed:
		c.failed.Add(1)
	}
}

// runPool feeds items to workers and calls fn for each. It returns when all
// items are handled or ctx ends.
func runPool[T any](ctx context.Context, cfg *Config, label string, items []T, fn func(context.Context, T) outcome) *counters {
	var c counters
	workers := max(1, min(cfg.Workers, len(items)))

	itemChan := make(chan T, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range itemChan {
				if ctx.Err() != nil {
					c.add(outcomeFailed)
					continue
				}
				c.add(fn(ctx, item))
			}
		}()
	}

	stopProgress := make(chan struct{})
	if cfg.Verbose {
		go reportProgress(ctx, label, len(items), &c, stopProgress)
	}

	go func() {
		defer close(itemChan)
		for _, item := range items {
			select {
			case <-ctx.Done():
				return
			case itemChan <- item:
			}
		}
	}()

	wg.Wait()
	close(stopProgress)
	return &c
}

func reportProgress(ctx context.Context, label string, total int, c *counters, stop <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			logger.Get().Info(ctx, "progress",
				logger.String("kind", label),
				logger.Int("done", int(c.done.Load())),
				logger.Int("total", total),
				logger.Int("mismatched", int(c.mismatched.Load())),
				logger.Int("failed", int(c.failed.Load())))
		}
	}
}

// submitDaily posts every daily case and compares the score and the
// fallback header with the local model.
func submitDaily(ctx context.Context, cfg *Config, client *HTTPClient, cases []DailyCase, stats *Stats) {
	log := logger.Get().Named("probe")
	url := cfg.BaseURL + "/score/daily"
	var flagged atomic.Int64

	c := runPool(ctx, cfg, "daily", cases, func(ctx context.Context, dc DailyCase) outcome {
		resp, body, err := client.Post(ctx, url, dc.Request)
		if err != nil {
			return outcomeFailed
		}
		if resp.StatusCode != http.StatusOK {
			return outcomeFailed
		}
		var got struct {
			DailyScore float64 `json:"daily_score"`
		}
		if err := unmarshalJSON(body, &got); err != nil {
			return outcomeFailed
		}
		fallback := resp.Header.Get(headerTierFallback) != ""
		if fallback {
			flagged.Add(1)
		}
		if math.Abs(got.DailyScore-dc.Expected) > scoreEpsilon || fallback != dc.Fallback {
			if cfg.Verbose {
				log.Warn(ctx, "daily score mismatch",
					logger.Any("request", dc.Request),
					logger.Float64("expected", dc.Expected),
					logger.Float64("got", got.DailyScore),
					logger.Bool("expected_fallback", dc.Fallback),
					logger.Bool("got_fallback", fallback))
			}
			return outcomeMismatched
		}
		return outcomeMatched
	})

	stats.DailyMatched = int(c.matched.Load())
	stats.DailyMismatched = int(c.mismatched.Load())
	stats.DailyFailed = int(c.failed.Load())
	stats.FallbackFlagged = int(flagged.Load())
}

// submitTasks posts every rating case. Cases with an unrecognized tier must
// be refused with 422 naming that tier; the rest must match exactly.
func submitTasks(ctx context.Context, cfg *Config, client *HTTPClient, cases []TaskCase, stats *Stats) {
	log := logger.Get().Named("probe")
	url := cfg.BaseURL + "/rating/update"

	c := runPool(ctx, cfg, "rating", cases, func(ctx context.Context, tc TaskCase) outcome {
		resp, body, err := client.Post(ctx, url, tc.Request)
		if err != nil {
			return outcomeFailed
		}
		if tc.RejectTier != "" {
			if resp.StatusCode == http.StatusUnprocessableEntity && strings.Contains(string(body), tc.RejectTier) {
				return outcomeRejected
			}
			if cfg.Verbose {
				log.Warn(ctx, "unknown tier was not rejected",
					logger.String("task", tc.ID),
					logger.String("tier", tc.RejectTier),
					logger.Int("status", resp.StatusCode))
			}
			return outcomeMismatched
		}
		if resp.StatusCode != http.StatusOK {
			if cfg.Verbose {
				log.Warn(ctx, "rating update refused",
					logger.String("task", tc.ID),
					logger.Int("status", resp.StatusCode),
					logger.String("body", string(body)))
			}
			return outcomeMismatched
		}
		var got []RatingUpdate
		if err := unmarshalJSON(body, &got); err != nil {
			return outcomeFailed
		}
		if err := compareUpdates(tc.Expected, got); err != nil {
			if cfg.Verbose {
				log.Warn(ctx, "rating update mismatch", logger.String("task", tc.ID), logger.Error(err))
			}
			return outcomeMismatched
		}
		return outcomeMatched
	})

	stats.TasksMatched = int(c.matched.Load())
	stats.TasksRejected = int(c.rejected.Load())
	stats.TasksMismatched = int(c.mismatched.Load())
	stats.TasksFailed = int(c.failed.Load())
}
