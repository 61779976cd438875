// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/internal/domain/rating"
	"github.com/okian/devscore/internal/domain/scoring"
	"github.com/okian/devscore/pkg/logger"
	"github.com/okian/devscore/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultWeightSumTolerance = 0.001
)

// Unknown-tier policies reported by Calibration.
const (
	PolicyNeutralMultiplier = "neutral_multiplier"
	PolicyReject            = "reject"
)

// Service implements the API dependencies for the scoring system. It holds
// only immutable calculators and is safe for concurrent use.
type Service struct {
	calculator *scoring.Calculator
	updater    *rating.Updater

	// Configuration
	scoringOpts        []scoring.Option
	ratingOpts         []rating.Option
	weightSumTolerance float64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithScoringOptions configures the daily score calculator.
func WithScoringOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scoringOpts = append(s.scoringOpts, opts...)
	}
}

// WithRatingOptions configures the rating updater.
func WithRatingOptions(opts ...rating.Option) Option {
	return func(s *Service) {
		s.ratingOpts = append(s.ratingOpts, opts...)
	}
}

// WithWeightSumTolerance sets how far team weights may stray from 1.
// Zero disables the check.
func WithWeightSumTolerance(tolerance float64) Option {
	return func(s *Service) {
		if tolerance >= 0 {
			s.weightSumTolerance = tolerance
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weightSumTolerance: defaultWeightSumTolerance,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.calculator = scoring.NewCalculator(s.scoringOpts...)
	s.updater = rating.NewUpdater(s.ratingOpts...)

	return s
}

// DailyScore validates m and computes its daily score.
func (s *Service) DailyScore(ctx context.Context, m model.DailyActivityMetrics) (scoring.Result, error) {
	const op = "service.daily_score"
	if err := m.Validate(); err != nil {
		return scoring.Result{}, fmt.Errorf("%s: %w", op, err)
	}

	res := s.calculator.Score(m)
	metrics.RecordDailyScore(res.Score, res.LoadFactor, res.TierFallback)

	if res.TierFallback {
		s.logger.Warn(ctx, "unrecognized tier; using neutral multiplier",
			logger.String("tier", m.Tier),
			logger.Float64("multiplier", res.TierMultiplier))
	}
	s.logger.Debug(ctx, "daily score computed",
		logger.Float64("daily_score", res.Score),
		logger.Float64("commit_score", res.CommitScore),
		logger.Float64("time_score", res.TimeScore),
		logger.Float64("raw", res.Raw),
		logger.Float64("tier_multiplier", res.TierMultiplier),
		logger.Float64("load_factor", res.LoadFactor))

	return res, nil
}

// UpdateRatings validates the task completion and applies the rating update
// to every member. It is all-or-nothing.
func (s *Service) UpdateRatings(ctx context.Context, task model.TaskCompletion) ([]model.RatingUpdate, error) {
	const op = "service.update_ratings"
	if err := task.Validate(s.weightSumTolerance); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out, err := s.updater.Update(task)
	if err != nil {
		if errors.Is(err, model.ErrConfiguration) {
			metrics.RecordConfigurationError()
			s.logger.Warn(ctx, "rating update rejected", logger.Error(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	changes := make([]float64, len(out.Updates))
	for i, u := range out.Updates {
		changes[i] = u.RatingChange
	}
	metrics.RecordRatingUpdate(out.Expected, changes)

	s.logger.Debug(ctx, "ratings updated",
		logger.Int("task_rating", task.TaskRating),
		logger.Int("members", len(out.Updates)),
		logger.Float64("team_rating", out.TeamRating),
		logger.Float64("expected", out.Expected))

	return out.Updates, nil
}

// Calibration describes the constants the service scores with.
type Calibration struct {
	Daily              scoring.Calibration
	Rating             rating.Calibration
	WeightSumTolerance float64
	// UnknownTierPolicy maps each path to how it treats an unrecognized tier.
	UnknownTierPolicy map[string]string
}

// Calibration returns the active constants. The two paths deliberately
// disagree on unknown tiers; the policy map makes that visible.
func (s *Service) Calibration() Calibration {
	return Calibration{
		Daily:              s.calculator.Calibration(),
		Rating:             s.updater.Calibration(),
		WeightSumTolerance: s.weightSumTolerance,
		UnknownTierPolicy: map[string]string{
			"daily_score":   PolicyNeutralMultiplier,
			"rating_update": PolicyReject,
		},
	}
}
