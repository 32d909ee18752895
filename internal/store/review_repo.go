package store

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/pkg/errors"
)

// reviewRepo implements ReviewRepo on SQLite using ent's SQL builders.
type reviewRepo struct {
	drv *entsql.Driver

	mu      sync.Mutex
	pending []pendingOp
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func applyFind(sel *entsql.Selector, find *FindReviewRecord) {
	if find == nil {
		return
	}
	if find.ID != nil {
		sel.Where(entsql.EQ(colID, *find.ID))
	}
	if find.Key != nil {
		sel.Where(entsql.EQ(colKey, *find.Key))
	}
	if find.Tier != nil {
		sel.Where(entsql.EQ(colTier, *find.Tier))
	}
	if find.MinShown != nil {
		sel.Where(entsql.GTE(colTimesShown, *find.MinShown))
	}
}

func (r *reviewRepo) Find(ctx context.Context, find *FindReviewRecord) ([]*ReviewRecord, error) {
	sel := builder().Select(reviewColumns...).From(entsql.Table(reviewTable))
	applyFind(sel, find)
	if find != nil && find.OrderByPriority {
		sel.OrderBy(entsql.Desc(colTimesWrong), entsql.Asc(colLastShownAt), entsql.Asc(colCreatedAt), entsql.Asc(colKey))
	} else {
		sel.OrderBy(entsql.Asc(colCreatedAt), entsql.Asc(colKey))
	}
	if find != nil && find.Limit > 0 {
		sel.Limit(find.Limit)
	}

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, errors.Wrap(err, "query review records")
	}
	defer rows.Close()

	var out []*ReviewRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate review records")
	}
	return out, nil
}

func scanRecord(rows *entsql.Rows) (*ReviewRecord, error) {
	var (
		rec       ReviewRecord
		createdAt int64
		lastShown sql.NullInt64
	)
	if err := rows.Scan(&rec.ID, &rec.Key, &rec.Tier, &createdAt, &lastShown, &rec.TimesShown, &rec.TimesWrong); err != nil {
		return nil, errors.Wrap(err, "scan review record")
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	if lastShown.Valid {
		t := time.Unix(0, lastShown.Int64).UTC()
		rec.LastShownAt = &t
	}
	return &rec, nil
}

func (r *reviewRepo) Count(ctx context.Context, find *FindReviewRecord) (int, error) {
	sel := builder().Select(entsql.Count("*")).From(entsql.Table(reviewTable))
	applyFind(sel, find)

	query, args := sel.Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return 0, errors.Wrap(err, "count review records")
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, errors.Wrap(err, "scan review count")
		}
	}
	return n, errors.Wrap(rows.Err(), "iterate review count")
}

func (r *reviewRepo) stage(kind opKind, rec *ReviewRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.Errorf("%s review record: missing id", kind)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, pendingOp{kind: kind, rec: rec.Clone()})
	return nil
}

func (r *reviewRepo) Insert(_ context.Context, rec *ReviewRecord) error {
	return r.stage(opInsert, rec)
}

func (r *reviewRepo) Update(_ context.Context, rec *ReviewRecord) error {
	return r.stage(opUpdate, rec)
}

func (r *reviewRepo) Delete(_ context.Context, rec *ReviewRecord) error {
	return r.stage(opDelete, rec)
}

func (r *reviewRepo) Rollback() {
	r.mu.Lock()
	r.pending = nil
	r.mu.Unlock()
}

// Commit writes every staged operation in one transaction. On failure the
// transaction is rolled back and the staged batch is dropped.
func (r *reviewRepo) Commit(ctx context.Context) error {
	r.mu.Lock()
	ops := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(ops) == 0 {
		return nil
	}

	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return errors.Wrap(err, "begin review transaction")
	}
	for _, op := range ops {
		if err := execOp(ctx, tx, op); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit review transaction")
	}
	return nil
}

func execOp(ctx context.Context, tx dialect.Tx, op pendingOp) error {
	rec := op.rec
	var (
		query string
		args  []any
	)
	switch op.kind {
	case opInsert:
		query, args = builder().Insert(reviewTable).
			Columns(reviewColumns...).
			Values(rec.ID, rec.Key, rec.Tier, rec.CreatedAt.UnixNano(), nullableTime(rec.LastShownAt), rec.TimesShown, rec.TimesWrong).
			Query()
	case opUpdate:
		upd := builder().Update(reviewTable).
			Set(colKey, rec.Key).
			Set(colTier, rec.Tier).
			Set(colTimesShown, rec.TimesShown).
			Set(colTimesWrong, rec.TimesWrong)
		if rec.LastShownAt != nil {
			upd.Set(colLastShownAt, rec.LastShownAt.UnixNano())
		} else {
			upd.SetNull(colLastShownAt)
		}
		query, args = upd.Where(entsql.EQ(colID, rec.ID)).Query()
	case opDelete:
		query, args = builder().Delete(reviewTable).Where(entsql.EQ(colID, rec.ID)).Query()
	}

	var res sql.Result
	if err := tx.Exec(ctx, query, args, &res); err != nil {
		return errors.Wrapf(err, "%s review record %s", op.kind, rec.Key)
	}
	if op.kind == opUpdate {
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrapf(err, "update review record %s", rec.Key)
		}
		if n == 0 {
			return errors.Wrapf(ErrNotFound, "update review record %s", rec.Key)
		}
	}
	return nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UnixNano()
}
