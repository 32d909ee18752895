package difficulty

import (
	"errors"
	"slices"
	"testing"

	"github.com/abhisek/mathdrill/internal/problem"
)

func TestTable(t *testing.T) {
	want := []struct {
		upper, count, points int
		prob                 float64
	}{
		{10, 20, 5, 0.0},
		{20, 25, 4, 0.4},
		{50, 50, 2, 0.6},
		{10, 20, 5, 0.4},
		{20, 25, 4, 0.8},
		{100, 100, 1, 0.9},
	}
	all := All()
	if len(all) != len(want) {
		t.Fatalf("expected %d tiers, got %d", len(want), len(all))
	}
	for i, w := range want {
		tier := all[i]
		if tier.ID != i+1 {
			t.Errorf("tier %d: ID = %d", i+1, tier.ID)
		}
		if tier.UpperBound != w.upper || tier.ProblemCount != w.count ||
			tier.PointsPerProblem != w.points || tier.ThreeOperandProbability != w.prob {
			t.Errorf("tier %d = %+v, want %+v", tier.ID, tier, w)
		}
	}
}

func TestMaxScoreIsAlways100(t *testing.T) {
	for _, tier := range All() {
		if tier.MaxScore() != 100 {
			t.Errorf("%s: MaxScore() = %d, want 100", tier, tier.MaxScore())
		}
	}
}

func TestOperatorMenus(t *testing.T) {
	for _, id := range []int{1, 2, 3} {
		tier := MustGet(id)
		if !tier.Allows(problem.Add) || !tier.Allows(problem.Sub) || tier.Allows(problem.Mul) || tier.Allows(problem.Div) {
			t.Errorf("tier %d should allow only add and sub", id)
		}
	}
	for _, id := range []int{4, 5} {
		tier := MustGet(id)
		if tier.Allows(problem.Add) || tier.Allows(problem.Sub) || !tier.Allows(problem.Mul) || !tier.Allows(problem.Div) {
			t.Errorf("tier %d should allow only mul and div", id)
		}
	}
	for _, op := range problem.Operators() {
		if !MustGet(6).Allows(op) {
			t.Errorf("tier 6 should allow %s", op)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	for _, id := range []int{0, -1, 7} {
		if _, err := Get(id); !errors.Is(err, ErrUnknownTier) {
			t.Errorf("Get(%d): expected ErrUnknownTier, got %v", id, err)
		}
	}
}

func TestScore(t *testing.T) {
	tier := MustGet(2)
	if got := tier.Score(10); got != 40 {
		t.Errorf("Score(10) = %d, want 40", got)
	}
	if got := tier.Score(-3); got != 0 {
		t.Errorf("Score(-3) = %d, want 0", got)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	all[0].UpperBound = 999
	if MustGet(1).UpperBound != 10 {
		t.Error("mutating All() changed the table")
	}
}

func TestOperatorsAreNotShared(t *testing.T) {
	all := All()
	all[0].Operators[0] = problem.Mul
	all[5].Operators[3] = problem.Add
	got := MustGet(3)
	got.Operators[1] = problem.Div
	problem.Operators()[3] = problem.Add

	want := map[int][]problem.Operator{
		1: {problem.Add, problem.Sub},
		2: {problem.Add, problem.Sub},
		3: {problem.Add, problem.Sub},
		6: {problem.Add, problem.Sub, problem.Mul, problem.Div},
	}
	for id, ops := range want {
		if got := MustGet(id).Operators; !slices.Equal(got, ops) {
			t.Errorf("tier %d operators = %v, want %v", id, got, ops)
		}
	}
}
