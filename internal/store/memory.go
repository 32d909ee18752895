package store

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemoryReviewRepo is an in-process ReviewRepo. It has the same staging and
// ordering semantics as the SQLite repo and is used for tests and for
// sessions that should not touch disk.
type MemoryReviewRepo struct {
	mu      sync.Mutex
	records map[string]*ReviewRecord // by ID
	pending []pendingOp
}

// NewMemoryReviewRepo returns an empty in-memory repo.
func NewMemoryReviewRepo() *MemoryReviewRepo {
	return &MemoryReviewRepo{records: make(map[string]*ReviewRecord)}
}

func (m *MemoryReviewRepo) Find(_ context.Context, find *FindReviewRecord) ([]*ReviewRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*ReviewRecord
	for _, r := range m.records {
		if find.matches(r) {
			out = append(out, r.Clone())
		}
	}
	return sortRecords(out, find), nil
}

func (m *MemoryReviewRepo) Count(_ context.Context, find *FindReviewRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, r := range m.records {
		if find.matches(r) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryReviewRepo) stage(kind opKind, rec *ReviewRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.Errorf("%s review record: missing id", kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, pendingOp{kind: kind, rec: rec.Clone()})
	return nil
}

func (m *MemoryReviewRepo) Insert(_ context.Context, rec *ReviewRecord) error {
	return m.stage(opInsert, rec)
}

func (m *MemoryReviewRepo) Update(_ context.Context, rec *ReviewRecord) error {
	return m.stage(opUpdate, rec)
}

func (m *MemoryReviewRepo) Delete(_ context.Context, rec *ReviewRecord) error {
	return m.stage(opDelete, rec)
}

func (m *MemoryReviewRepo) Rollback() {
	m.mu.Lock()
	m.pending = nil
	m.mu.Unlock()
}

// Commit applies the staged batch to a copy and swaps it in only if every
// operation succeeds.
func (m *MemoryReviewRepo) Commit(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ops := m.pending
	m.pending = nil
	if len(ops) == 0 {
		return nil
	}

	next := make(map[string]*ReviewRecord, len(m.records))
	byKey := make(map[string]string, len(m.records))
	for id, r := range m.records {
		next[id] = r
		byKey[r.Key] = id
	}

	for _, op := range ops {
		rec := op.rec
		switch op.kind {
		case opInsert:
			if _, ok := next[rec.ID]; ok {
				return errors.Wrapf(ErrConflict, "insert review record %s", rec.Key)
			}
			if _, ok := byKey[rec.Key]; ok {
				return errors.Wrapf(ErrConflict, "insert review record %s", rec.Key)
			}
			next[rec.ID] = rec
			byKey[rec.Key] = rec.ID
		case opUpdate:
			old, ok := next[rec.ID]
			if !ok {
				return errors.Wrapf(ErrNotFound, "update review record %s", rec.Key)
			}
			if id, ok := byKey[rec.Key]; ok && id != rec.ID {
				return errors.Wrapf(ErrConflict, "update review record %s", rec.Key)
			}
			delete(byKey, old.Key)
			rec.CreatedAt = old.CreatedAt
			next[rec.ID] = rec
			byKey[rec.Key] = rec.ID
		case opDelete:
			if old, ok := next[rec.ID]; ok {
				delete(byKey, old.Key)
				delete(next, rec.ID)
			}
		}
	}
	m.records = next
	return nil
}
