package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
)

// Summary tallies one played session.
type Summary struct {
	Tier           difficulty.Tier
	TotalQuestions int
	TotalCorrect   int
	Missed         []problem.Problem
	Started        time.Time
	Duration       time.Duration
}

// NewSummary starts a tally for tier.
func NewSummary(tier difficulty.Tier, started time.Time) *Summary {
	return &Summary{Tier: tier, Started: started}
}

// Record adds one answered problem.
func (s *Summary) Record(p problem.Problem, correct bool) {
	s.TotalQuestions++
	if correct {
		s.TotalCorrect++
		return
	}
	s.Missed = append(s.Missed, p)
}

// Finish stamps the session duration.
func (s *Summary) Finish(now time.Time) {
	s.Duration = now.Sub(s.Started)
}

// Score returns the points earned so far.
func (s *Summary) Score() int {
	return s.Tier.Score(s.TotalCorrect)
}

// Accuracy returns the share of correct answers, or 0 before any answer.
func (s *Summary) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalQuestions)
}
