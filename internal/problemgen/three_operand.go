package problemgen

import (
	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

// fallbackThreeOperandMax bounds the operands of the three-operand fallback.
const fallbackThreeOperandMax = 3

// operandCap leaves headroom for combining three operands. The second half
// of the attempt budget draws from half the range, which makes overflow
// rarer on tiers where the first draws keep missing.
func (s *Synthesizer) operandCap(tier difficulty.Tier, attempt int) int {
	limit := max(2, tier.UpperBound/3)
	if attempt >= s.config.MaxThreeOperandAttempts/2 {
		limit = max(2, limit/2)
	}
	return limit
}

func (s *Synthesizer) threeOperandCandidate(tier difficulty.Tier, attempt int) (problem.Problem, bool) {
	limit := s.operandCap(tier, attempt)
	e := expr{
		a:   s.between(difficulty.LowerBound, limit),
		b:   s.between(difficulty.LowerBound, limit),
		c:   s.between(difficulty.LowerBound, limit),
		op1: s.pickOperator(tier),
		op2: s.pickOperator(tier),
	}
	s.repairDivisions(&e, limit)

	p, err := problem.Three(e.a, e.op1, e.b, e.op2, e.c)
	return s.accept(p, err, tier)
}

// expr is a three-operand expression under construction.
type expr struct {
	a, b, c  int
	op1, op2 problem.Operator
}

// repairDivisions rewrites operands so every division divides evenly.
//
// When op2 binds tighter (a op1 (b ÷ c)), b becomes a multiple of c.
// Otherwise evaluation is left to right: a division in first position makes
// a a multiple of b, and a division in second position needs a divisor of
// the already-evaluated left side. If the left side has no divisor in
// [2, 10] other than itself, op2 degrades to addition.
func (s *Synthesizer) repairDivisions(e *expr, limit int) {
	if e.op1.Precedence() < e.op2.Precedence() {
		if e.op2 == problem.Div {
			e.c, e.b = s.multipleOf(limit)
		}
		return
	}

	if e.op1 == problem.Div {
		e.b, e.a = s.multipleOf(limit)
	}
	if e.op2 != problem.Div {
		return
	}
	left, err := e.op1.Apply(e.a, e.b)
	if err != nil {
		e.op2 = problem.Add
		return
	}
	divisors := smallDivisors(left)
	if len(divisors) == 0 {
		e.op2 = problem.Add
		return
	}
	e.c = divisors[s.rng.IntN(len(divisors))]
}

// multipleOf draws a divisor d in [2, min(10, limit)] and a dividend d × k
// with k ≥ 2, so the dividend never equals the divisor.
func (s *Synthesizer) multipleOf(limit int) (divisor, dividend int) {
	divisor = s.between(2, max(2, min(maxDivisor, limit)))
	k := s.between(2, max(2, limit/divisor))
	return divisor, divisor * k
}

// smallDivisors lists the divisors of n in [2, 10], excluding n itself.
// Non-positive n has none.
func smallDivisors(n int) []int {
	if n <= 0 {
		return nil
	}
	var out []int
	for d := 2; d <= maxDivisor; d++ {
		if d != n && n%d == 0 {
			out = append(out, d)
		}
	}
	return out
}

func (s *Synthesizer) threeOperandFallback() problem.Problem {
	return problem.MustNew([]int{
		s.between(1, fallbackThreeOperandMax),
		s.between(1, fallbackThreeOperandMax),
		s.between(1, fallbackThreeOperandMax),
	}, []problem.Operator{problem.Add, problem.Add})
}
