package scoring

import "math"

// Default load factor parameters.
const (
	DefaultOptimalProjects = 2
	DefaultMaxProjects     = 5
	DefaultProjectDecay    = 0.15
	DefaultLoadFloor       = 0.6
)

// LoadFactorModel penalizes the daily score for context switching between
// concurrently active projects. Up to Optimal projects there is no penalty;
// each project beyond that costs Decay until Max, where the factor
// saturates at Floor.
type LoadFactorModel struct {
	Optimal int
	Max     int
	Decay   float64
	Floor   float64
}

// DefaultLoadFactorModel returns the model with the standard calibration
// (optimal 2, max 5, 15% per project, floor 0.6).
func DefaultLoadFactorModel() LoadFactorModel {
	return LoadFactorModel{
		Optimal: DefaultOptimalProjects,
		Max:     DefaultMaxProjects,
		Decay:   DefaultProjectDecay,
		Floor:   DefaultLoadFloor,
	}
}

// Factor returns the multiplier in [Floor, 1] for activeProjects.
func (m LoadFactorModel) Factor(activeProjects int) float64 {
	switch {
	case activeProjects <= m.Optimal:
		return 1.0
	case activeProjects < m.Max:
		return math.Max(1-m.Decay*float64(activeProjects-m.Optimal), m.Floor)
	default:
		return m.Floor
	}
}

// LoadFactor evaluates the default model.
func LoadFactor(activeProjects int) float64 {
	return DefaultLoadFactorModel().Factor(activeProjects)
}
