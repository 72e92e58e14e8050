package store

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type historyRow struct {
	ID           string `db:"id"`
	Sequence     int64  `db:"sequence"`
	Category     string `db:"category"`
	Score        int    `db:"score"`
	Total        int    `db:"total"`
	Accuracy     int    `db:"accuracy"`
	XPAwarded    int    `db:"xp_awarded"`
	DurationSecs int    `db:"duration_secs"`
	FinishedAt   int64  `db:"finished_at"`
}

var historySelectColumns = []string{
	"id", "sequence", "category", "score", "total",
	"accuracy", "xp_awarded", "duration_secs", "finished_at",
}

type historyRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

func (r *historyRepo) Append(ctx context.Context, e HistoryEntry) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(historyTable.Name).
		Columns(historySelectColumns...).
		Values(e.ID, seqNum, e.Category, e.Score, e.Total,
			e.Accuracy, e.XPAwarded, e.DurationSecs, toMillis(e.FinishedAt)).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session history: %w", err)
	}
	return nil
}

func (r *historyRepo) Recent(ctx context.Context, opts QueryOpts) ([]HistoryEntry, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select(historySelectColumns...).
		From(entsql.Table(historyTable.Name)).
		OrderBy(entsql.Desc("sequence"))
	if p := rangePredicate(opts, "finished_at"); p != nil {
		sel.Where(p)
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query session history: %w", err)
	}

	out := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, HistoryEntry{
			ID:           row.ID,
			Sequence:     row.Sequence,
			Category:     row.Category,
			Score:        row.Score,
			Total:        row.Total,
			Accuracy:     row.Accuracy,
			XPAwarded:    row.XPAwarded,
			DurationSecs: row.DurationSecs,
			FinishedAt:   fromMillis(row.FinishedAt),
		})
	}
	return out, nil
}

func (r *historyRepo) Prune(ctx context.Context, keep int) error {
	return pruneBySequence(ctx, r.db, historyTable.Name, keep)
}

// pruneBySequence deletes all but the keep highest-sequence rows of table.
func pruneBySequence(ctx context.Context, db *sqlx.DB, table string, keep int) error {
	if keep < 0 {
		keep = 0
	}
	query, args := entsql.Dialect(dialect.SQLite).
		Select("sequence").
		From(entsql.Table(table)).
		OrderBy(entsql.Desc("sequence")).
		Offset(keep).
		Limit(1).
		Query()

	var threshold []int64
	if err := db.SelectContext(ctx, &threshold, query, args...); err != nil {
		return fmt.Errorf("query %s for prune: %w", table, err)
	}
	if len(threshold) == 0 {
		return nil // fewer than keep rows exist
	}

	query, args = entsql.Dialect(dialect.SQLite).
		Delete(table).
		Where(entsql.LTE("sequence", threshold[0])).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune %s: %w", table, err)
	}
	return nil
}

// rangePredicate builds the sequence and time filters of opts.
func rangePredicate(opts QueryOpts, timeColumn string) *entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(timeColumn, toMillis(opts.From)))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(timeColumn, toMillis(opts.To)))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return entsql.And(preds...)
	}
}
