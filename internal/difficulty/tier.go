package difficulty

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/mathdrill/internal/problem"
)

// ErrUnknownTier is returned when a tier ID is outside the table.
var ErrUnknownTier = errors.New("unknown difficulty tier")

// LowerBound is the smallest operand any tier draws.
const LowerBound = 1

// Tier fixes the numeric range, operator menu and scoring of one difficulty
// level. Every tier's ProblemCount × PointsPerProblem is 100.
type Tier struct {
	ID   int
	Name string

	// UpperBound closes the numeric range [1, UpperBound]. Answers never
	// exceed it.
	UpperBound int

	// Operators is the set of operators a generated problem may use.
	Operators []problem.Operator

	// ProblemCount is the session size.
	ProblemCount int

	// PointsPerProblem is awarded for each correct answer.
	PointsPerProblem int

	// ThreeOperandProbability is the chance (0.0-1.0) that a freshly
	// generated problem has three operands.
	ThreeOperandProbability float64
}

var tiers = []Tier{
	{ID: 1, Name: "Starter", UpperBound: 10, Operators: []problem.Operator{problem.Add, problem.Sub}, ProblemCount: 20, PointsPerProblem: 5, ThreeOperandProbability: 0.0},
	{ID: 2, Name: "Builder", UpperBound: 20, Operators: []problem.Operator{problem.Add, problem.Sub}, ProblemCount: 25, PointsPerProblem: 4, ThreeOperandProbability: 0.4},
	{ID: 3, Name: "Climber", UpperBound: 50, Operators: []problem.Operator{problem.Add, problem.Sub}, ProblemCount: 50, PointsPerProblem: 2, ThreeOperandProbability: 0.6},
	{ID: 4, Name: "Times Tables", UpperBound: 10, Operators: []problem.Operator{problem.Mul, problem.Div}, ProblemCount: 20, PointsPerProblem: 5, ThreeOperandProbability: 0.4},
	{ID: 5, Name: "Factor Finder", UpperBound: 20, Operators: []problem.Operator{problem.Mul, problem.Div}, ProblemCount: 25, PointsPerProblem: 4, ThreeOperandProbability: 0.8},
	{ID: 6, Name: "Mixed Master", UpperBound: 100, Operators: problem.Operators(), ProblemCount: 100, PointsPerProblem: 1, ThreeOperandProbability: 0.9},
}

// Get returns the tier with the given ID. The result shares no memory with
// the table.
func Get(id int) (Tier, error) {
	if id < 1 || id > len(tiers) {
		return Tier{}, fmt.Errorf("%w: %d", ErrUnknownTier, id)
	}
	return tiers[id-1].clone(), nil
}

// MustGet is like Get but panics for an unknown ID.
func MustGet(id int) Tier {
	t, err := Get(id)
	if err != nil {
		panic(err)
	}
	return t
}

// All returns every tier in ascending order.
func All() []Tier {
	out := make([]Tier, len(tiers))
	for i, t := range tiers {
		out[i] = t.clone()
	}
	return out
}

func (t Tier) clone() Tier {
	t.Operators = slices.Clone(t.Operators)
	return t
}

// IDs returns every tier ID in ascending order.
func IDs() []int {
	ids := make([]int, len(tiers))
	for i, t := range tiers {
		ids[i] = t.ID
	}
	return ids
}

// Allows reports whether op is on the tier's operator menu.
func (t Tier) Allows(op problem.Operator) bool {
	for _, o := range t.Operators {
		if o == op {
			return true
		}
	}
	return false
}

// MaxScore is the score of a perfect session.
func (t Tier) MaxScore() int {
	return t.ProblemCount * t.PointsPerProblem
}

// Score returns the points for the given number of correct answers.
func (t Tier) Score(correct int) int {
	if correct < 0 {
		return 0
	}
	return correct * t.PointsPerProblem
}

func (t Tier) String() string {
	return fmt.Sprintf("Tier %d (%s)", t.ID, t.Name)
}
