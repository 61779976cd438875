// Package rating applies Elo-style, tier-calibrated rating updates to the
// members of a team after a task completes.
package rating

import (
	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/internal/domain/numeric"
	"github.com/okian/devscore/internal/domain/types"
)

// DefaultKFactors returns the standard per-tier K-factors. Less experienced
// members move faster.
func DefaultKFactors() types.Table {
	return types.Table{
		types.Junior: 40,
		types.Mid:    25,
		types.Senior: 15,
	}
}

// Option applies a configuration option to the Updater.
type Option func(*Updater)

// WithKFactors replaces the K-factor table. Incomplete tables are ignored.
func WithKFactors(tb types.Table) Option {
	return func(u *Updater) {
		if _, ok := tb.Complete(); ok {
			u.kFactors = tb.Clone()
		}
	}
}

// WithScale sets the logistic scale of the expected score.
func WithScale(scale float64) Option {
	return func(u *Updater) {
		if scale > 0 {
			u.scale = scale
		}
	}
}

// Updater computes rating updates. It holds only constants and is safe for
// concurrent use.
type Updater struct {
	kFactors types.Table
	scale    float64
}

// NewUpdater creates an updater with the standard calibration, adjusted by
// opts.
func NewUpdater(opts ...Option) *Updater {
	u := &Updater{
		kFactors: DefaultKFactors(),
		scale:    DefaultScale,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// TeamRating is the weight-scaled sum of member ratings. It is an average
// only when the weights sum to 1.
func TeamRating(members []model.TeamMember) float64 {
	var r float64
	for _, m := range members {
		r += m.Rating * m.Weight
	}
	return r
}

// Outcome is the team-level context of an update.
type Outcome struct {
	TeamRating float64
	Expected   float64
	Updates    []model.RatingUpdate
}

// Update computes one RatingUpdate per member, in input order. Any member
// with an unrecognized tier fails the whole update with a
// *model.ConfigurationError; no K-factor is ever assumed.
func (u *Updater) Update(task model.TaskCompletion) (Outcome, error) {
	ks := make([]float64, len(task.Members))
	for i, m := range task.Members {
		k, err := u.KFactor(m.Tier)
		if err != nil {
			return Outcome{}, &model.ConfigurationError{Tier: m.Tier, MemberID: m.ID}
		}
		ks[i] = k
	}

	team := TeamRating(task.Members)
	e := ExpectedScoreWithScale(team, float64(task.TaskRating), u.scale)

	updates := make([]model.RatingUpdate, len(task.Members))
	for i, m := range task.Members {
		s := m.AvgTaskScore / 100
		change := numeric.Round2(ks[i] * m.Weight * (s - e))
		old := numeric.Round2(m.Rating)
		updates[i] = model.RatingUpdate{
			EmployeeID:   m.ID,
			OldRating:    old,
			RatingChange: change,
			NewRating:    numeric.Round2(old + change),
		}
	}

	return Outcome{TeamRating: team, Expected: e, Updates: updates}, nil
}

// KFactor returns the K-factor for a wire tier value.
func (u *Updater) KFactor(tier string) (float64, error) {
	t, ok := types.ParseTier(tier)
	if !ok {
		return 0, &model.ConfigurationError{Tier: tier}
	}
	return u.kFactors[t], nil
}

// Calibration is a read-only view of the updater's constants.
type Calibration struct {
	KFactors types.Table
	Scale    float64
}

// Calibration returns a copy of the active constants.
func (u *Updater) Calibration() Calibration {
	return Calibration{KFactors: u.kFactors.Clone(), Scale: u.scale}
}
