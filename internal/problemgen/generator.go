package problemgen

import (
	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

// Generator produces arithmetic problems for a tier.
type Generator interface {
	// Generate produces a single problem. It never fails: when the
	// constraints cannot be met within the attempt budget a deterministic
	// easy problem is returned instead.
	Generate(tier difficulty.Tier) problem.Problem
}
