package problemgen

import (
	"math"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

const (
	// minTierTwoSum is exceeded by every tier 2+ addition.
	minTierTwoSum = 10

	// maxDivisor caps the divisor of a division problem.
	maxDivisor = 10

	// fallbackOperandMax bounds the operands of the two-operand fallback.
	fallbackOperandMax = 5
)

func (s *Synthesizer) twoOperandCandidate(tier difficulty.Tier, _ int) (problem.Problem, bool) {
	var (
		op   = s.pickOperator(tier)
		a, b int
		ok   bool
	)
	switch op {
	case problem.Add:
		a, b, ok = s.addends(tier)
	case problem.Sub:
		a, b, ok = s.subtraction(tier)
	case problem.Mul:
		a, b, ok = s.factors(tier)
	case problem.Div:
		a, b, ok = s.division(tier)
	}
	if !ok {
		return problem.Problem{}, false
	}
	p, err := problem.Two(a, op, b)
	return s.accept(p, err, tier)
}

// addends keeps a tier 1 sum within the range; higher tiers force the sum
// past 10 by narrowing the second operand's range.
func (s *Synthesizer) addends(tier difficulty.Tier) (int, int, bool) {
	upper := tier.UpperBound
	a := s.between(difficulty.LowerBound, upper-1)
	lo, hi := difficulty.LowerBound, upper-a
	if tier.ID >= 2 {
		lo = max(lo, minTierTwoSum+1-a)
	}
	if lo > hi {
		return 0, 0, false
	}
	return a, s.between(lo, hi), true
}

// subtraction keeps the difference at least MinDifference; from tier 2 the
// minuend is at least MinTierTwoMinuend.
func (s *Synthesizer) subtraction(tier difficulty.Tier) (int, int, bool) {
	minMinuend := difficulty.LowerBound + MinDifference
	if tier.ID >= 2 {
		minMinuend = max(MinTierTwoMinuend, difficulty.LowerBound)
	}
	if minMinuend > tier.UpperBound {
		return 0, 0, false
	}
	minuend := s.between(minMinuend, tier.UpperBound)
	return minuend, s.between(difficulty.LowerBound, minuend-MinDifference), true
}

// factors draws both factors from 2 up, the first capped near the square
// root of the bound. A factor of 1 appears only rarely.
func (s *Synthesizer) factors(tier difficulty.Tier) (int, int, bool) {
	upper := tier.UpperBound
	var a, b int
	if s.rng.Float64() < s.config.UnitFactorProbability {
		a, b = 1, s.between(2, upper)
	} else {
		a = s.between(2, max(2, isqrt(upper)))
		if upper/a < 2 {
			return 0, 0, false
		}
		b = s.between(2, upper/a)
	}
	if s.rng.IntN(2) == 0 {
		a, b = b, a
	}
	return a, b, true
}

// division builds the dividend from divisor × quotient so it always comes
// out even.
func (s *Synthesizer) division(tier difficulty.Tier) (int, int, bool) {
	upper := tier.UpperBound
	divisor := s.between(2, min(maxDivisor, upper))
	maxQuotient := upper / divisor
	if maxQuotient < 2 {
		return 0, 0, false
	}
	return divisor * s.between(2, maxQuotient), divisor, true
}

func (s *Synthesizer) twoOperandFallback() problem.Problem {
	a := s.between(1, fallbackOperandMax)
	b := s.between(1, fallbackOperandMax)
	return problem.MustNew([]int{a, b}, []problem.Operator{problem.Add})
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Sqrt(float64(n)))
}
