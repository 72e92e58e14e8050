package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

type wordRow struct {
	Key       string `db:"key"`
	Prompt    string `db:"prompt"`
	Answer    string `db:"answer"`
	Aux       string `db:"aux"`
	Source    string `db:"source"`
	CreatedAt int64  `db:"created_at"`
}

type wordRepo struct {
	db *sqlx.DB
}

func (r *wordRepo) Upsert(ctx context.Context, words []WordRecord) (int, error) {
	if len(words) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, w := range words {
		created := w.CreatedAt
		if created.IsZero() {
			created = now
		}
		query, args := entsql.Dialect(dialect.SQLite).
			Insert(wordTable.Name).
			Columns("key", "prompt", "answer", "aux", "source", "created_at").
			Values(w.Key, w.Prompt, w.Answer, w.Aux, w.Source, toMillis(created)).
			OnConflict(
				entsql.ConflictColumns("key"),
				entsql.ResolveWithNewValues(),
			).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("save word %q: %w", w.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(words), nil
}

func (r *wordRepo) All(ctx context.Context) ([]WordRecord, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("key", "prompt", "answer", "aux", "source", "created_at").
		From(entsql.Table(wordTable.Name)).
		OrderBy("key").
		Query()

	var rows []wordRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query imported words: %w", err)
	}

	out := make([]WordRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, WordRecord{
			Key:       row.Key,
			Prompt:    row.Prompt,
			Answer:    row.Answer,
			Aux:       row.Aux,
			Source:    row.Source,
			CreatedAt: fromMillis(row.CreatedAt),
		})
	}
	return out, nil
}

func (r *wordRepo) Delete(ctx context.Context, key string) (bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Delete(wordTable.Name).
		Where(entsql.EQ("key", key)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete word %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
