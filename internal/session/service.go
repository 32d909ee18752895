package session

import (
	"context"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
	"github.com/abhisek/mathdrill/internal/review"
)

// ReviewPool is the part of the review store the service drives.
type ReviewPool interface {
	ReviewSource
	UpsertWrong(ctx context.Context, p problem.Problem, tier int) bool
	Stats(ctx context.Context, tier *int) review.Stats
}

// Service is the entry point for a practice front end: it builds sessions
// and feeds answers back into the review pool.
type Service struct {
	builder *Builder
	reviews ReviewPool
}

// NewService wires a builder to the review pool it draws from.
func NewService(builder *Builder, reviews ReviewPool) *Service {
	return &Service{builder: builder, reviews: reviews}
}

// BuildSession returns a session for tierID and marks its review items
// shown. A non-positive target uses the tier's ProblemCount.
func (s *Service) BuildSession(ctx context.Context, tierID, target int) []problem.Problem {
	target, ok := s.target(tierID, target)
	if !ok {
		return nil
	}
	return s.builder.Build(ctx, tierID, target)
}

// PreviewSession returns a session for tierID without recording anything
// in the review pool.
func (s *Service) PreviewSession(ctx context.Context, tierID, target int) []problem.Problem {
	target, ok := s.target(tierID, target)
	if !ok {
		return nil
	}
	return s.builder.Preview(ctx, tierID, target)
}

func (s *Service) target(tierID, target int) (int, bool) {
	if target > 0 {
		return target, true
	}
	tier, err := difficulty.Get(tierID)
	if err != nil {
		s.builder.log.Warn("cannot build session", "tier", tierID, "error", err)
		return 0, false
	}
	return tier.ProblemCount, true
}

// RecordAnswer updates the review pool: a wrong answer is tracked, a right
// one counts toward mastery of an already tracked problem.
func (s *Service) RecordAnswer(ctx context.Context, p problem.Problem, tierID int, correct bool) bool {
	if !correct {
		return s.reviews.UpsertWrong(ctx, p, tierID)
	}
	return s.reviews.RecordShown(ctx, p, review.Correct)
}

// GetStats reports the size of the review pool, optionally for one tier.
func (s *Service) GetStats(ctx context.Context, tier *int) review.Stats {
	return s.reviews.Stats(ctx, tier)
}
