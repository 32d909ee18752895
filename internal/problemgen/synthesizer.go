package problemgen

import (
	"math/rand/v2"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

// Synthesizer generates problems by bounded rejection sampling. Each
// candidate function makes one independent draw and reports whether it met
// every constraint; the outer loop retries up to the configured ceiling and
// then falls back to a deterministic easy addition.
//
// A Synthesizer is not safe for concurrent use: it owns its random source.
type Synthesizer struct {
	rng       *rand.Rand
	config    Config
	fallbacks int
}

// candidate makes one draw for the given attempt number.
type candidate func(tier difficulty.Tier, attempt int) (problem.Problem, bool)

// New creates a Synthesizer drawing from rng. Zero fields of cfg take their
// DefaultConfig values.
func New(rng *rand.Rand, cfg Config) *Synthesizer {
	return &Synthesizer{rng: rng, config: cfg.withDefaults()}
}

// NewSeeded creates a Synthesizer with a deterministic PCG source.
func NewSeeded(seed uint64, cfg Config) *Synthesizer {
	return New(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), cfg)
}

// Config returns the effective configuration.
func (s *Synthesizer) Config() Config { return s.config }

// Fallbacks returns how many times a sampling loop was exhausted.
func (s *Synthesizer) Fallbacks() int { return s.fallbacks }

// Generate produces a two- or three-operand problem, choosing three operands
// with the tier's ThreeOperandProbability.
func (s *Synthesizer) Generate(tier difficulty.Tier) problem.Problem {
	if tier.ThreeOperandProbability > 0 && s.rng.Float64() < tier.ThreeOperandProbability {
		return s.GenerateThree(tier)
	}
	return s.GenerateTwo(tier)
}

// GenerateTwo produces a two-operand problem.
func (s *Synthesizer) GenerateTwo(tier difficulty.Tier) problem.Problem {
	return s.sample(tier, s.config.MaxTwoOperandAttempts, s.twoOperandCandidate, s.twoOperandFallback)
}

// GenerateThree produces a three-operand problem.
func (s *Synthesizer) GenerateThree(tier difficulty.Tier) problem.Problem {
	return s.sample(tier, s.config.MaxThreeOperandAttempts, s.threeOperandCandidate, s.threeOperandFallback)
}

func (s *Synthesizer) sample(tier difficulty.Tier, maxAttempts int, next candidate, fallback func() problem.Problem) problem.Problem {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if p, ok := next(tier, attempt); ok {
			return p
		}
	}
	s.fallbacks++
	return fallback()
}

// accept turns a constructed candidate into a result, running the
// validator chain.
func (s *Synthesizer) accept(p problem.Problem, err error, tier difficulty.Tier) (problem.Problem, bool) {
	if err != nil {
		return problem.Problem{}, false
	}
	if verr := Check(p, tier, s.config.Validators); verr != nil {
		return problem.Problem{}, false
	}
	return p, true
}

// between returns a uniform integer in [lo, hi]. An empty range yields lo.
func (s *Synthesizer) between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.IntN(hi-lo+1)
}

func (s *Synthesizer) pickOperator(tier difficulty.Tier) problem.Operator {
	if len(tier.Operators) == 0 {
		return problem.Add
	}
	return tier.Operators[s.rng.IntN(len(tier.Operators))]
}
