// Package probe drives a running scoring service with randomized requests and
// checks every answer against a local model built from the service's own
// calibration.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/devscore/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes a complete probe. It returns the collected statistics and,
// when any response disagreed with the local model, an error wrapping
// ErrMismatch.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if config.NumDaily < 0 || config.NumTasks < 0 || config.Workers <= 0 {
		return nil, fmt.Errorf("%w: counts must be >= 0 and workers > 0", ErrConfig)
	}
	log := logger.Get().Named("probe")
	stats := &Stats{
		StartTime: time.Now(),
	}

	log.Info(ctx, "starting devscore probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("daily", config.NumDaily),
		logger.Int("tasks", config.NumTasks),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Float64("unknownTierRate", config.UnknownTierRate),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config.BaseURL); err != nil {
		return nil, err
	}

	// Step 2: Mirror the server calibration locally
	m, err := fetchModel(ctx, client, config.BaseURL)
	if err != nil {
		return nil, err
	}

	// Step 3: Generate cases
	gen := NewGenerator(m, config.Seed, config.UnknownTierRate, config.MaxTeamSize)
	daily := gen.GenerateDaily(config.NumDaily)
	tasks, err := gen.GenerateTasks(config.NumTasks)
	if err != nil {
		return nil, fmt.Errorf("case generation failed: %w", err)
	}
	stats.DailyGenerated = len(daily)
	stats.TasksGenerated = len(tasks)
	log.Info(ctx, "generated cases", logger.Int("daily", len(daily)), logger.Int("tasks", len(tasks)))

	// Step 4: Submit concurrently and compare
	submitDaily(ctx, config, client, daily, stats)
	submitTasks(ctx, config, client, tasks, stats)

	// Step 5: Save cases to file
	if config.OutputFile != "" {
		if err := saveCases(ctx, config.OutputFile, daily, tasks); err != nil {
			log.Warn(ctx, "failed to save cases to file", logger.Error(err))
		}
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("probe interrupted: %w", err)
	}
	if n := stats.Mismatches(); n > 0 {
		return stats, fmt.Errorf("%w: %d responses", ErrMismatch, n)
	}
	log.Info(ctx, "probe completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, baseURL string) error {
	status, _, err := client.Get(ctx, baseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if status != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, status)
	}
	return nil
}

// saveCases writes the generated cases and expectations as JSON.
func saveCases(ctx context.Context, filename string, daily []DailyCase, tasks []TaskCase) error {
	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := marshalJSON(struct {
		Daily []DailyCase `json:"daily"`
		Tasks []TaskCase  `json:"tasks"`
	}{daily, tasks})
	if err != nil {
		return fmt.Errorf("failed to marshal cases: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "cases saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var matchRate, requestsPerSecond float64

	total := stats.DailyGenerated + stats.TasksGenerated
	if total > 0 {
		matchRate = float64(stats.DailyMatched+stats.TasksMatched+stats.TasksRejected) / float64(total) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(total) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("dailyGenerated", stats.DailyGenerated),
		logger.Int("dailyMatched", stats.DailyMatched),
		logger.Int("dailyMismatched", stats.DailyMismatched),
		logger.Int("dailyFailed", stats.DailyFailed),
		logger.Int("fallbackFlagged", stats.FallbackFlagged),
		logger.Int("tasksGenerated", stats.TasksGenerated),
		logger.Int("tasksMatched", stats.TasksMatched),
		logger.Int("tasksRejected", stats.TasksRejected),
		logger.Int("tasksMismatched", stats.TasksMismatched),
		logger.Int("tasksFailed", stats.TasksFailed),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("matchRate", matchRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
