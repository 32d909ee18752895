package session

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/abhisek/mathdrill/internal/difficulty"
	"github.com/abhisek/mathdrill/internal/problem"
	"github.com/abhisek/mathdrill/internal/problemgen"
	"github.com/abhisek/mathdrill/internal/review"
	"github.com/abhisek/mathdrill/internal/store"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(7, 11))
}

func newTestBuilder(reviews ReviewSource) *Builder {
	return NewBuilder(reviews, problemgen.NewSeeded(42, problemgen.Config{}), testRand())
}

// constGenerator always returns the same problem.
type constGenerator struct{ p problem.Problem }

func (g constGenerator) Generate(difficulty.Tier) problem.Problem { return g.p }

// fakeReviews serves a fixed list and records what was marked shown.
type fakeReviews struct {
	due      []problem.Problem
	limits   []int
	shown    []string
	outcomes []review.Outcome
}

func (f *fakeReviews) FetchForTier(_ context.Context, _ int, limit int) []problem.Problem {
	f.limits = append(f.limits, limit)
	if len(f.due) > limit {
		return f.due[:limit]
	}
	return f.due
}

func (f *fakeReviews) RecordShown(_ context.Context, p problem.Problem, o review.Outcome) bool {
	f.shown = append(f.shown, p.Key())
	f.outcomes = append(f.outcomes, o)
	return true
}

func checkSession(t *testing.T, got []problem.Problem, want int) {
	t.Helper()
	if len(got) != want {
		t.Fatalf("session size = %d, want %d", len(got), want)
	}
	keys := make(map[string]bool, len(got))
	for _, p := range got {
		if keys[p.Key()] {
			t.Errorf("duplicate key %q", p.Key())
		}
		keys[p.Key()] = true
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", p.Key(), err)
		}
	}
}

func TestBuild_ExactSizeDistinctKeys(t *testing.T) {
	ctx := context.Background()
	for _, tier := range difficulty.All() {
		for _, n := range []int{tier.ProblemCount, 5, 150} {
			b := newTestBuilder(nil)
			checkSession(t, b.Build(ctx, tier.ID, n), n)
		}
	}
}

func TestBuild_NonPositiveTarget(t *testing.T) {
	b := newTestBuilder(nil)
	if got := b.Build(context.Background(), 1, 0); len(got) != 0 {
		t.Errorf("target 0: got %d problems", len(got))
	}
	if got := b.Build(context.Background(), 1, -3); len(got) != 0 {
		t.Errorf("target -3: got %d problems", len(got))
	}
}

func TestBuild_UnknownTier(t *testing.T) {
	b := newTestBuilder(nil)
	if got := b.Build(context.Background(), 99, 10); got != nil {
		t.Errorf("unknown tier: got %d problems", len(got))
	}
}

func TestBuild_ReviewItemsIncludedAndMarkedShown(t *testing.T) {
	due := []problem.Problem{
		problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add}),
		problem.MustNew([]int{9, 4}, []problem.Operator{problem.Sub}),
		problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add}), // duplicate
		problem.MustNew([]int{2, 6}, []problem.Operator{problem.Add}),
	}
	src := &fakeReviews{due: due}
	b := newTestBuilder(src)

	got := b.Build(context.Background(), 1, 20)
	checkSession(t, got, 20)

	if len(src.limits) != 1 || src.limits[0] != 6 {
		t.Errorf("fetch limits = %v, want [6]", src.limits)
	}
	if len(src.shown) != len(due) {
		t.Errorf("marked shown %d, want %d", len(src.shown), len(due))
	}
	for _, o := range src.outcomes {
		if o != review.Unscored {
			t.Errorf("outcome = %v, want unscored", o)
		}
	}

	keys := make(map[string]bool)
	for _, p := range got {
		keys[p.Key()] = true
	}
	for _, k := range []string{"7+3", "9-4", "2+6"} {
		if !keys[k] {
			t.Errorf("review item %q missing from session", k)
		}
	}
}

func TestPreview_DoesNotMarkShown(t *testing.T) {
	src := &fakeReviews{due: []problem.Problem{
		problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add}),
		problem.MustNew([]int{9, 4}, []problem.Operator{problem.Sub}),
	}}
	b := newTestBuilder(src)

	got := b.Preview(context.Background(), 1, 20)
	checkSession(t, got, 20)

	if len(src.limits) != 1 || src.limits[0] != 6 {
		t.Errorf("fetch limits = %v, want [6]", src.limits)
	}
	if len(src.shown) != 0 {
		t.Errorf("preview marked %v shown", src.shown)
	}
	keys := make(map[string]bool)
	for _, p := range got {
		keys[p.Key()] = true
	}
	if !keys["7+3"] || !keys["9-4"] {
		t.Error("review items missing from preview")
	}
}

func TestBuild_ReviewLimitIsFloor(t *testing.T) {
	src := &fakeReviews{}
	b := newTestBuilder(src)
	b.Build(context.Background(), 1, 3) // floor(0.9) = 0
	b.Build(context.Background(), 1, 7) // floor(2.1) = 2
	if len(src.limits) != 1 || src.limits[0] != 2 {
		t.Errorf("fetch limits = %v, want [2]", src.limits)
	}
}

func TestBuild_InvalidReviewItemSkipped(t *testing.T) {
	bad := problem.MustNew([]int{9, 2}, []problem.Operator{problem.Div}) // uneven
	src := &fakeReviews{due: []problem.Problem{bad}}
	b := newTestBuilder(src)

	for _, p := range b.Build(context.Background(), 4, 10) {
		if p.Key() == "9/2" {
			t.Error("uneven division reached the session")
		}
	}
}

func TestBuild_PadsWhenGeneratorStalls(t *testing.T) {
	stuck := problem.MustNew([]int{4, 4}, []problem.Operator{problem.Add})
	b := NewBuilder(nil, constGenerator{stuck}, testRand())

	got := b.Build(context.Background(), 1, 120)
	checkSession(t, got, 120)

	for _, p := range got {
		if p.Key() == stuck.Key() {
			continue
		}
		if p.Arity() != 2 || p.Operator(0) != problem.Add {
			t.Errorf("padding %q is not a two-operand addition", p.Key())
		}
	}
}

func TestBuild_PaddingPrefersInRangeSums(t *testing.T) {
	stuck := problem.MustNew([]int{1, 1}, []problem.Operator{problem.Add})
	b := NewBuilder(nil, constGenerator{stuck}, testRand())

	// Tier 1 allows sums up to 10: 45 pairs qualify.
	for _, p := range b.Build(context.Background(), 1, 40) {
		if p.Answer() > 10 {
			t.Errorf("padding %q exceeds tier bound", p.Key())
		}
	}
}

func TestBuild_DeterministicForSeed(t *testing.T) {
	build := func() []string {
		b := newTestBuilder(nil)
		var keys []string
		for _, p := range b.Build(context.Background(), 6, 30) {
			keys = append(keys, p.Key())
		}
		return keys
	}
	a, c := build(), build()
	for i := range a {
		if a[i] != c[i] {
			t.Fatalf("position %d: %q != %q", i, a[i], c[i])
		}
	}
}

func TestService(t *testing.T) {
	ctx := context.Background()
	reviews := review.NewStore(store.NewMemoryReviewRepo(), nil)
	svc := NewService(newTestBuilder(reviews), reviews)

	got := svc.BuildSession(ctx, 2, 0)
	checkSession(t, got, difficulty.MustGet(2).ProblemCount)

	if svc.BuildSession(ctx, 42, 0) != nil {
		t.Error("unknown tier should yield no session")
	}

	p := problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add})
	if !svc.RecordAnswer(ctx, p, 1, false) {
		t.Fatal("RecordAnswer(wrong) failed")
	}
	if st := svc.GetStats(ctx, nil); st.Total != 1 || st.ByTier[1] != 1 {
		t.Errorf("stats = %+v", st)
	}

	session := svc.BuildSession(ctx, 1, 10) // review limit 3
	found := false
	for _, q := range session {
		found = found || q.Key() == "7+3"
	}
	if !found {
		t.Error("missed problem not resurfaced")
	}

	// Shown twice so far. Two more correct answers push it past three
	// showings at a 0.75 rate.
	svc.RecordAnswer(ctx, p, 1, true)
	if !reviews.IsTracked(ctx, p) {
		t.Fatal("evicted too early")
	}
	svc.RecordAnswer(ctx, p, 1, true)
	if reviews.IsTracked(ctx, p) {
		t.Error("mastered problem still tracked")
	}
	if st := svc.GetStats(ctx, nil); st.Total != 0 {
		t.Errorf("total after eviction = %d", st.Total)
	}
}

func TestService_PreviewLeavesPoolUnchanged(t *testing.T) {
	ctx := context.Background()
	reviews := review.NewStore(store.NewMemoryReviewRepo(), nil)
	svc := NewService(newTestBuilder(reviews), reviews)

	p := problem.MustNew([]int{7, 3}, []problem.Operator{problem.Add})
	if !svc.RecordAnswer(ctx, p, 1, false) {
		t.Fatal("RecordAnswer(wrong) failed")
	}
	for range 3 {
		checkSession(t, svc.PreviewSession(ctx, 1, 10), 10)
	}
	if got := svc.PreviewSession(ctx, 1, 0); len(got) != difficulty.MustGet(1).ProblemCount {
		t.Errorf("default preview size = %d", len(got))
	}
	if svc.PreviewSession(ctx, 42, 0) != nil {
		t.Error("unknown tier should yield no preview")
	}

	recs := reviews.Records(ctx, nil)
	if len(recs) != 1 {
		t.Fatalf("records = %d, want 1", len(recs))
	}
	if recs[0].TimesShown != 1 || recs[0].TimesWrong != 1 {
		t.Errorf("after previews: shown=%d wrong=%d, want 1 and 1", recs[0].TimesShown, recs[0].TimesWrong)
	}

	svc.RecordAnswer(ctx, p, 1, true)
	if !reviews.IsTracked(ctx, p) {
		t.Error("one correct answer after previews evicted the problem")
	}
}

func TestSummary(t *testing.T) {
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := NewSummary(difficulty.MustGet(2), start)
	if s.Accuracy() != 0 {
		t.Errorf("empty accuracy = %v", s.Accuracy())
	}

	p := problem.MustNew([]int{12, 5}, []problem.Operator{problem.Sub})
	s.Record(p, true)
	s.Record(p, true)
	s.Record(p, true)
	s.Record(p, false)
	s.Finish(start.Add(90 * time.Second))

	if s.Score() != 12 {
		t.Errorf("Score = %d, want 12", s.Score())
	}
	if s.Accuracy() != 0.75 {
		t.Errorf("Accuracy = %v, want 0.75", s.Accuracy())
	}
	if len(s.Missed) != 1 {
		t.Errorf("Missed = %d, want 1", len(s.Missed))
	}
	if s.Duration != 90*time.Second {
		t.Errorf("Duration = %v", s.Duration)
	}
}
