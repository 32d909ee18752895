package store

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when an update targets a record that does not exist.
	ErrNotFound = errors.New("review record not found")

	// ErrConflict is returned when an insert reuses an existing ID or problem key.
	ErrConflict = errors.New("review record already exists")
)

// ReviewRecord holds the history of a problem the learner got wrong.
type ReviewRecord struct {
	ID  string
	Key string // canonical problem key, unique across the store

	Tier        int
	CreatedAt   time.Time
	LastShownAt *time.Time // nil until the problem is shown again

	TimesShown int
	TimesWrong int
}

// CorrectRate returns (TimesShown - TimesWrong) / TimesShown, or 0 when the
// record was never shown.
func (r *ReviewRecord) CorrectRate() float64 {
	if r.TimesShown <= 0 {
		return 0
	}
	return float64(r.TimesShown-r.TimesWrong) / float64(r.TimesShown)
}

// Clone returns a deep copy of r.
func (r *ReviewRecord) Clone() *ReviewRecord {
	c := *r
	if r.LastShownAt != nil {
		t := *r.LastShownAt
		c.LastShownAt = &t
	}
	return &c
}

// FindReviewRecord is the predicate for Find and Count. Nil fields match
// everything.
type FindReviewRecord struct {
	ID       *string
	Key      *string
	Tier     *int
	MinShown *int

	// OrderByPriority sorts by TimesWrong descending, then LastShownAt
	// ascending with never-shown records first. Otherwise records come back
	// in creation order.
	OrderByPriority bool

	// Limit caps the result size (0 = unlimited). Ignored by Count.
	Limit int
}

func (f *FindReviewRecord) matches(r *ReviewRecord) bool {
	if f == nil {
		return true
	}
	switch {
	case f.ID != nil && r.ID != *f.ID:
		return false
	case f.Key != nil && r.Key != *f.Key:
		return false
	case f.Tier != nil && r.Tier != *f.Tier:
		return false
	case f.MinShown != nil && r.TimesShown < *f.MinShown:
		return false
	}
	return true
}

// ReviewRepo is the persistence contract behind the review store. Insert,
// Update and Delete are staged; Commit flushes the staged batch atomically
// and Rollback discards it. Find and Count see committed state only.
type ReviewRepo interface {
	Find(ctx context.Context, find *FindReviewRecord) ([]*ReviewRecord, error)
	Count(ctx context.Context, find *FindReviewRecord) (int, error)

	Insert(ctx context.Context, rec *ReviewRecord) error
	Update(ctx context.Context, rec *ReviewRecord) error
	Delete(ctx context.Context, rec *ReviewRecord) error

	Commit(ctx context.Context) error
	Rollback()
}

type opKind int

const (
	opInsert opKind = iota
	opUpdate
	opDelete
)

func (k opKind) String() string {
	switch k {
	case opInsert:
		return "insert"
	case opUpdate:
		return "update"
	default:
		return "delete"
	}
}

// pendingOp is one staged write.
type pendingOp struct {
	kind opKind
	rec  *ReviewRecord
}

// priorityLess orders records for review: most wrong answers first, then
// least recently shown with never-shown records ahead of everything else.
// Creation time and key break the remaining ties so the order is total.
func priorityLess(a, b *ReviewRecord) bool {
	if a.TimesWrong != b.TimesWrong {
		return a.TimesWrong > b.TimesWrong
	}
	switch {
	case a.LastShownAt == nil && b.LastShownAt != nil:
		return true
	case a.LastShownAt != nil && b.LastShownAt == nil:
		return false
	case a.LastShownAt != nil && !a.LastShownAt.Equal(*b.LastShownAt):
		return a.LastShownAt.Before(*b.LastShownAt)
	}
	return creationLess(a, b)
}

func creationLess(a, b *ReviewRecord) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.Key < b.Key
}

// sortRecords orders records per find and applies its limit.
func sortRecords(records []*ReviewRecord, find *FindReviewRecord) []*ReviewRecord {
	less := creationLess
	if find != nil && find.OrderByPriority {
		less = priorityLess
	}
	sort.SliceStable(records, func(i, j int) bool { return less(records[i], records[j]) })
	if find != nil && find.Limit > 0 && len(records) > find.Limit {
		records = records[:find.Limit]
	}
	return records
}
