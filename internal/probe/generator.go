package probe

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/okian/devscore/internal/domain/model"
	"github.com/okian/devscore/internal/domain/types"
)

// Generator produces randomized requests together with the answers the
// local Model gives for them. Equal seeds yield equal cases.
type Generator struct {
	src         *rand.ChaCha8
	rng         *rand.Rand
	model       *Model
	unknownRate float64
	maxTeam     int
}

// NewGenerator creates a generator. A zero seed is replaced by the clock.
func NewGenerator(m *Model, seed uint64, unknownRate float64, maxTeam int) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:], seed)
	src := rand.NewChaCha8(key)
	if maxTeam <= 0 {
		maxTeam = defaultMaxTeam
	}
	return &Generator{
		src:         src,
		rng:         rand.New(src),
		model:       m,
		unknownRate: math.Max(0, math.Min(unknownRate, 1)),
		maxTeam:     maxTeam,
	}
}

func (g *Generator) tier() string {
	if g.rng.Float64() < g.unknownRate {
		return unknownTiers[g.rng.IntN(len(unknownTiers))]
	}
	return g.knownTier()
}

func (g *Generator) knownTier() string {
	tiers := types.Tiers()
	return tiers[g.rng.IntN(len(tiers))].String()
}

func (g *Generator) round(v float64, precision int) float64 {
	return math.Round(v*float64(precision)) / float64(precision)
}

// Daily returns one daily score case.
func (g *Generator) Daily() DailyCase {
	req := DailyRequest{
		CommitsToday:   g.rng.IntN(maxCommits + 1),
		CodingMinutes:  g.rng.IntN(maxMinutes + 1),
		CopilotScore:   g.round(g.rng.Float64(), copilotPrecision),
		Tier:           g.tier(),
		ActiveProjects: g.rng.IntN(maxProjects + 1),
	}
	res := g.model.Calculator.Score(model.DailyActivityMetrics{
		CommitsToday:   req.CommitsToday,
		CodingMinutes:  req.CodingMinutes,
		CopilotScore:   req.CopilotScore,
		Tier:           req.Tier,
		ActiveProjects: req.ActiveProjects,
	})
	return DailyCase{Request: req, Expected: res.Score, Fallback: res.TierFallback}
}

// weights returns n positive weights that sum to 1 up to float error.
func (g *Generator) weights(n int) []float64 {
	raw := make([]float64, n)
	var total float64
	for i := range raw {
		raw[i] = float64(1 + g.rng.IntN(100))
		total += raw[i]
	}
	out := make([]float64, n)
	var sum float64
	for i := 0; i < n-1; i++ {
		out[i] = g.round(raw[i]/total, weightPrecision)
		sum += out[i]
	}
	out[n-1] = g.round(1-sum, weightPrecision)
	return out
}

// Task returns one rating update case. With probability unknownRate one
// member carries an unrecognized tier and the case expects a rejection.
func (g *Generator) Task() (TaskCase, error) {
	id, err := uuid.NewRandomFromReader(g.src)
	if err != nil {
		return TaskCase{}, fmt.Errorf("task id: %w", err)
	}
	n := 1 + g.rng.IntN(g.maxTeam)
	ws := g.weights(n)

	req := RatingRequest{
		TaskRating: minRating + g.rng.IntN(ratingSpan+1),
		Employees:  make([]Employee, n),
	}
	for i := range req.Employees {
		eid, err := uuid.NewRandomFromReader(g.src)
		if err != nil {
			return TaskCase{}, fmt.Errorf("employee id: %w", err)
		}
		req.Employees[i] = Employee{
			ID:           eid.String(),
			Rating:       g.round(minRating+g.rng.Float64()*ratingSpan, ratingPrecision),
			Tier:         g.knownTier(),
			AvgTaskScore: g.round(g.rng.Float64()*100, scorePrecision),
			Weight:       ws[i],
		}
	}
	tc := TaskCase{ID: id.String(), Request: req}
	if g.rng.Float64() < g.unknownRate {
		i := g.rng.IntN(n)
		tc.RejectTier = unknownTiers[g.rng.IntN(len(unknownTiers))]
		req.Employees[i].Tier = tc.RejectTier
		return tc, nil
	}

	task := req.toModel()
	if err := task.Validate(g.model.WeightSumTolerance); err != nil {
		return TaskCase{}, fmt.Errorf("generated invalid task: %w", err)
	}
	out, err := g.model.Updater.Update(task)
	if err != nil {
		return TaskCase{}, fmt.Errorf("local update: %w", err)
	}
	tc.Expected = make([]RatingUpdate, len(out.Updates))
	for i, u := range out.Updates {
		tc.Expected[i] = RatingUpdate{
			EmployeeID:   u.EmployeeID,
			OldRating:    u.OldRating,
			RatingChange: u.RatingChange,
			NewRating:    u.NewRating,
		}
	}
	return tc, nil
}

// GenerateDaily returns n daily cases.
func (g *Generator) GenerateDaily(n int) []DailyCase {
	out := make([]DailyCase, n)
	for i := range out {
		out[i] = g.Daily()
	}
	return out
}

// GenerateTasks returns n rating update cases.
func (g *Generator) GenerateTasks(n int) ([]TaskCase, error) {
	out := make([]TaskCase, n)
	var errs []error
	for i := range out {
		tc, err := g.Task()
		if err != nil {
			errs = append(errs, fmt.Errorf("task %d: %w", i, err))
			continue
		}
		out[i] = tc
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r RatingRequest) toModel() model.TaskCompletion {
	members := make([]model.TeamMember, len(r.Employees))
	for i, e := range r.Employees {
		members[i] = model.TeamMember{
			ID:           e.ID,
			Rating:       e.Rating,
			Tier:         e.Tier,
			AvgTaskScore: e.AvgTaskScore,
			Weight:       e.Weight,
		}
	}
	return model.TaskCompletion{TaskRating: r.TaskRating, Members: members}
}
