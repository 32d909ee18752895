// Package review keeps the pool of missed problems and decides when a
// problem has been practiced enough to leave it.
package review

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/logger"
	"github.com/abhisek/mathdrill/internal/problem"
	"github.com/abhisek/mathdrill/internal/store"
)

const (
	// DefaultMasteryThreshold is the correct rate at which a record is evicted.
	DefaultMasteryThreshold = 0.70

	// DefaultMinAttempts is the minimum number of showings before the
	// sweep in EvictMastered considers a record.
	DefaultMinAttempts = 3

	// evictAfterShown is the number of showings a record must exceed before
	// a correct answer can evict it.
	evictAfterShown = 3
)

// Stats summarizes the review pool.
type Stats struct {
	Total  int
	ByTier map[int]int
}

// Store tracks problems the learner got wrong. Every operation is
// serialized and persistence failures are logged, never returned.
type Store struct {
	mu        sync.Mutex
	repo      store.ReviewRepo
	log       *logger.Logger
	now       func() time.Time
	threshold float64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithMasteryThreshold overrides the correct rate used for eviction on
// a correct answer.
func WithMasteryThreshold(threshold float64) Option {
	return func(s *Store) {
		if threshold > 0 && threshold <= 1 {
			s.threshold = threshold
		}
	}
}

// NewStore creates a review store over repo. A nil log discards output.
func NewStore(repo store.ReviewRepo, log *logger.Logger, opts ...Option) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{
		repo:      repo,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
		threshold: DefaultMasteryThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// find returns the record for p, or nil if it is not tracked.
func (s *Store) find(ctx context.Context, p problem.Problem) (*store.ReviewRecord, error) {
	key := p.Key()
	recs, err := s.repo.Find(ctx, &store.FindReviewRecord{Key: &key, Limit: 1})
	if err != nil || len(recs) == 0 {
		return nil, err
	}
	return recs[0], nil
}

// commit flushes staged writes, logging and discarding them on failure.
func (s *Store) commit(ctx context.Context, op string, keysAndValues ...interface{}) bool {
	if err := s.repo.Commit(ctx); err != nil {
		s.repo.Rollback()
		s.log.Error("review commit failed", append([]interface{}{"op", op, "error", err}, keysAndValues...)...)
		return false
	}
	return true
}

// stageFailed drops any partial batch and logs err.
func (s *Store) stageFailed(op string, err error, keysAndValues ...interface{}) bool {
	s.repo.Rollback()
	s.log.Error("review "+op+" failed", append([]interface{}{"error", err}, keysAndValues...)...)
	return false
}

// UpsertWrong records a wrong answer for p. A new record starts at one
// showing and one miss; an existing record gains a miss but not a showing.
func (s *Store) UpsertWrong(ctx context.Context, p problem.Problem, tier int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.Key()
	rec, err := s.find(ctx, p)
	if err != nil {
		return s.stageFailed("lookup", err, "key", key)
	}

	now := s.now()
	if rec == nil {
		rec = &store.ReviewRecord{
			ID:          uuid.NewString(),
			Key:         key,
			Tier:        tier,
			CreatedAt:   now,
			LastShownAt: &now,
			TimesShown:  1,
			TimesWrong:  1,
		}
		err = s.repo.Insert(ctx, rec)
	} else {
		rec.TimesWrong++
		rec.LastShownAt = &now
		err = s.repo.Update(ctx, rec)
	}
	if err != nil {
		return s.stageFailed("upsert", err, "key", key)
	}
	return s.commit(ctx, "upsert", "key", key)
}

// RecordShown registers one showing of p. Incorrect adds a miss. Correct
// evicts the record once it has been shown more than three times with a
// correct rate at or above the mastery threshold. It returns false when p
// is not tracked or the write failed.
func (s *Store) RecordShown(ctx context.Context, p problem.Problem, outcome Outcome) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := p.Key()
	rec, err := s.find(ctx, p)
	if err != nil {
		return s.stageFailed("lookup", err, "key", key)
	}
	if rec == nil {
		return false
	}

	now := s.now()
	rec.TimesShown++
	rec.LastShownAt = &now
	if outcome == Incorrect {
		rec.TimesWrong++
	}

	if outcome == Correct && rec.TimesShown > evictAfterShown && rec.CorrectRate() >= s.threshold {
		if err := s.repo.Delete(ctx, rec); err != nil {
			return s.stageFailed("evict", err, "key", key)
		}
		if !s.commit(ctx, "evict", "key", key) {
			return false
		}
		s.log.Info("review record mastered", "key", key, "shown", rec.TimesShown, "wrong", rec.TimesWrong)
		return true
	}

	if err := s.repo.Update(ctx, rec); err != nil {
		return s.stageFailed("record shown", err, "key", key)
	}
	return s.commit(ctx, "record shown", "key", key, "outcome", outcome.String())
}

// IsTracked reports whether p is in the review pool.
func (s *Store) IsTracked(ctx context.Context, p problem.Problem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.find(ctx, p)
	if err != nil {
		s.log.Error("review lookup failed", "key", p.Key(), "error", err)
		return false
	}
	return rec != nil
}

// FetchForTier returns up to limit review problems for tier, most missed
// first and least recently shown next.
func (s *Store) FetchForTier(ctx context.Context, tier, limit int) []problem.Problem {
	if limit <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.repo.Find(ctx, &store.FindReviewRecord{Tier: &tier, OrderByPriority: true, Limit: limit})
	if err != nil {
		s.log.Error("review fetch failed", "tier", tier, "error", err)
		return nil
	}

	out := make([]problem.Problem, 0, len(recs))
	for _, rec := range recs {
		p, err := problem.Parse(rec.Key)
		if err != nil {
			s.log.Warn("skipping unreadable review record", "id", rec.ID, "key", rec.Key, "error", err)
			continue
		}
		out = append(out, p)
	}
	return out
}

// Records lists review records, optionally for a single tier, in priority
// order.
func (s *Store) Records(ctx context.Context, tier *int) []*store.ReviewRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.repo.Find(ctx, &store.FindReviewRecord{Tier: tier, OrderByPriority: true})
	if err != nil {
		s.log.Error("review list failed", "error", err)
		return nil
	}
	return recs
}

// DeleteByID removes one record. It returns false if no record has id.
func (s *Store) DeleteByID(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.repo.Find(ctx, &store.FindReviewRecord{ID: &id, Limit: 1})
	if err != nil {
		s.log.Error("review lookup failed", "id", id, "error", err)
		return false
	}
	if len(recs) == 0 {
		return false
	}
	if err := s.repo.Delete(ctx, recs[0]); err != nil {
		return s.stageFailed("delete", err, "id", id)
	}
	return s.commit(ctx, "delete", "id", id)
}

// DeleteForTier removes every record for tier, or all records when tier
// is nil.
func (s *Store) DeleteForTier(ctx context.Context, tier *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.repo.Find(ctx, &store.FindReviewRecord{Tier: tier})
	if err != nil {
		s.log.Error("review list failed", "error", err)
		return false
	}
	_, ok := s.deleteAll(ctx, "delete tier", recs)
	return ok
}

// EvictMastered deletes every record shown at least minAttempts times with
// a correct rate at or above threshold. It returns how many were removed.
// A threshold outside (0, 1] removes nothing and reports failure.
func (s *Store) EvictMastered(ctx context.Context, threshold float64, minAttempts int) (int, bool) {
	if threshold <= 0 || threshold > 1 {
		s.log.Error("review sweep refused", "threshold", threshold)
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if minAttempts < 1 {
		minAttempts = 1
	}
	recs, err := s.repo.Find(ctx, &store.FindReviewRecord{MinShown: &minAttempts})
	if err != nil {
		s.log.Error("review sweep failed", "error", err)
		return 0, false
	}

	var mastered []*store.ReviewRecord
	for _, rec := range recs {
		if rec.CorrectRate() >= threshold {
			mastered = append(mastered, rec)
		}
	}
	n, ok := s.deleteAll(ctx, "sweep", mastered)
	if ok && n > 0 {
		s.log.Info("evicted mastered review records", "count", n, "threshold", threshold, "min_attempts", minAttempts)
	}
	return n, ok
}

func (s *Store) deleteAll(ctx context.Context, op string, recs []*store.ReviewRecord) (int, bool) {
	if len(recs) == 0 {
		return 0, true
	}
	for _, rec := range recs {
		if err := s.repo.Delete(ctx, rec); err != nil {
			return 0, s.stageFailed(op, err, "id", rec.ID)
		}
	}
	if !s.commit(ctx, op, "count", len(recs)) {
		return 0, false
	}
	return len(recs), true
}

// Stats counts records, optionally for a single tier. ByTier covers the
// tiers of the difficulty table; Total counts every matching record.
func (s *Store) Stats(ctx context.Context, tier *int) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{ByTier: make(map[int]int)}
	total, err := s.repo.Count(ctx, &store.FindReviewRecord{Tier: tier})
	if err != nil {
		s.log.Error("review stats failed", "error", err)
		return stats
	}
	stats.Total = total
	if total == 0 {
		return stats
	}

	ids := difficulty.IDs()
	if tier != nil {
		ids = []int{*tier}
	}
	for _, id := range ids {
		n, err := s.repo.Count(ctx, &store.FindReviewRecord{Tier: &id})
		if err != nil {
			s.log.Error("review stats failed", "tier", id, "error", err)
			return Stats{ByTier: make(map[int]int)}
		}
		if n > 0 {
			stats.ByTier[id] = n
		}
	}
	return stats
}

// Tiers returns the tier IDs present in stats in ascending order.
func (st Stats) Tiers() []int {
	ids := make([]int, 0, len(st.ByTier))
	for id := range st.ByTier {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}
