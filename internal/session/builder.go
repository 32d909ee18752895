// Package session assembles practice sessions from the review pool and
// freshly generated problems.
package session

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/logger"
	"github.com/abhisek/mathdrill/internal/problem"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/review"
)

const (
	// DefaultReviewRatio is the share of a session drawn from the review pool.
	DefaultReviewRatio = 0.3

	// DefaultMaxFailures caps consecutive rejected candidates before the
	// builder pads the session.
	DefaultMaxFailures = 100

	// padOperandMax bounds the operands of padding additions.
	padOperandMax = 9
)

// ReviewSource supplies due review problems and records that they were shown.
type ReviewSource interface {
	FetchForTier(ctx context.Context, tier, limit int) []problem.Problem
	RecordShown(ctx context.Context, p problem.Problem, outcome review.Outcome) bool
}

// Builder assembles sessions. It is not safe for concurrent use.
type Builder struct {
	reviews     ReviewSource
	gen         problemgen.Generator
	validators  []problemgen.Validator
	rng         *rand.Rand
	log         *logger.Logger
	reviewRatio float64
	maxFailures int
}

// Option configures a Builder.
type Option func(*Builder)

// WithReviewRatio sets the share of the session taken from the review pool.
func WithReviewRatio(ratio float64) Option {
	return func(b *Builder) {
		if ratio >= 0 && ratio <= 1 {
			b.reviewRatio = ratio
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *logger.Logger) Option {
	return func(b *Builder) {
		if log != nil {
			b.log = log
		}
	}
}

// WithValidators replaces the checks applied to every accepted problem.
func WithValidators(vs ...problemgen.Validator) Option {
	return func(b *Builder) { b.validators = vs }
}

// WithMaxFailures sets the consecutive rejection cap.
func WithMaxFailures(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.maxFailures = n
		}
	}
}

// NewBuilder creates a Builder. reviews may be nil, in which case sessions
// hold fresh problems only. rng drives the shuffle and padding order.
func NewBuilder(reviews ReviewSource, gen problemgen.Generator, rng *rand.Rand, opts ...Option) *Builder {
	b := &Builder{
		reviews:     reviews,
		gen:         gen,
		validators:  problemgen.DefaultConfig().Validators,
		rng:         rng,
		log:         logger.Nop(),
		reviewRatio: DefaultReviewRatio,
		maxFailures: DefaultMaxFailures,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build returns exactly target problems for tierID with distinct keys, in
// random order. Review items fill up to the review ratio; the rest is
// generated. Every review item taken is marked shown. An unknown tier or a
// non-positive target yields nil.
func (b *Builder) Build(ctx context.Context, tierID, target int) []problem.Problem {
	return b.build(ctx, tierID, target, true)
}

// Preview is like Build but leaves the review pool untouched.
func (b *Builder) Preview(ctx context.Context, tierID, target int) []problem.Problem {
	return b.build(ctx, tierID, target, false)
}

func (b *Builder) build(ctx context.Context, tierID, target int, markShown bool) []problem.Problem {
	if target <= 0 {
		return nil
	}
	tier, err := difficulty.Get(tierID)
	if err != nil {
		b.log.Warn("cannot build session", "tier", tierID, "error", err)
		return nil
	}

	seen := make(problemgen.KeySet, target)
	set := b.seedFromReviews(ctx, tier, target, seen, markShown)
	reviewed := len(set)

	failures := 0
	for len(set) < target && failures < b.maxFailures {
		p := b.gen.Generate(tier)
		if !b.valid(p, tier) || !seen.Add(p) {
			failures++
			continue
		}
		set = append(set, p)
		failures = 0
	}

	padded := 0
	if len(set) < target {
		padded = target - len(set)
		set = b.pad(set, tier, target, seen)
		b.log.Debug("padded session with additions", "tier", tier.ID, "count", padded)
	}

	if len(set) > target {
		b.shuffle(set)
		set = set[:target]
	}
	b.shuffle(set)

	b.log.Debug("built session", "tier", tier.ID, "size", len(set), "review", reviewed, "padded", padded)
	return set
}

// seedFromReviews takes up to floor(target × ratio) due review items,
// marking each as shown when markShown is set.
func (b *Builder) seedFromReviews(ctx context.Context, tier difficulty.Tier, target int, seen problemgen.KeySet, markShown bool) []problem.Problem {
	limit := int(math.Floor(float64(target) * b.reviewRatio))
	if b.reviews == nil || limit <= 0 {
		return make([]problem.Problem, 0, target)
	}

	due := b.reviews.FetchForTier(ctx, tier.ID, limit)
	set := make([]problem.Problem, 0, max(target, len(due)))
	for _, p := range due {
		if markShown {
			b.reviews.RecordShown(ctx, p, review.Unscored)
		}
		if b.valid(p, tier) && seen.Add(p) {
			set = append(set, p)
		}
	}
	return set
}

func (b *Builder) valid(p problem.Problem, tier difficulty.Tier) bool {
	return !p.IsZero() && problemgen.Check(p, tier, b.validators) == nil
}

// pad appends unique additions until set holds target problems. Small
// operand pairs come first, in random order, with pairs whose sum fits the
// tier ahead of the rest. Past those it counts upward, so it always ends.
func (b *Builder) pad(set []problem.Problem, tier difficulty.Tier, target int, seen problemgen.KeySet) []problem.Problem {
	var inRange, overRange [][2]int
	for a := 1; a <= padOperandMax; a++ {
		for c := 1; c <= padOperandMax; c++ {
			if a+c <= tier.UpperBound {
				inRange = append(inRange, [2]int{a, c})
			} else {
				overRange = append(overRange, [2]int{a, c})
			}
		}
	}
	b.rng.Shuffle(len(inRange), func(i, j int) { inRange[i], inRange[j] = inRange[j], inRange[i] })
	b.rng.Shuffle(len(overRange), func(i, j int) { overRange[i], overRange[j] = overRange[j], overRange[i] })

	try := func(a, c int) {
		p := problem.MustNew([]int{a, c}, []problem.Operator{problem.Add})
		if seen.Add(p) {
			set = append(set, p)
		}
	}
	for _, pair := range append(inRange, overRange...) {
		if len(set) >= target {
			return set
		}
		try(pair[0], pair[1])
	}
	for a := padOperandMax + 1; len(set) < target; a++ {
		for c := 1; c <= padOperandMax && len(set) < target; c++ {
			try(a, c)
		}
	}
	return set
}

func (b *Builder) shuffle(ps []problem.Problem) {
	b.rng.Shuffle(len(ps), func(i, j int) { ps[i], ps[j] = ps[j], ps[i] })
}
