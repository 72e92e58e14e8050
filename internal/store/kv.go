package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

const progressKey = "progress"

// kvRepo stores opaque values by key.
type kvRepo struct {
	db *sqlx.DB
}

func (r *kvRepo) get(ctx context.Context, key string) ([]byte, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable.Name)).
		Where(entsql.EQ("key", key)).
		Query()

	var value []byte
	err := r.db.GetContext(ctx, &value, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return value, nil
}

func (r *kvRepo) put(ctx context.Context, key string, value []byte) error {
	query, args := entsql.Dialect(dialect.SQLite).
		Insert(kvTable.Name).
		Columns("key", "value", "updated_at").
		Values(key, value, toMillis(time.Now())).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// ProgressRepo persists the serialized progress record under a single key.
// It satisfies progress.Persister.
type ProgressRepo struct {
	kv  *kvRepo
	key string
}

// Load returns the stored record bytes, or nil if none were saved.
func (r *ProgressRepo) Load(ctx context.Context) ([]byte, error) {
	return r.kv.get(ctx, r.key)
}

// Save replaces the stored record bytes.
func (r *ProgressRepo) Save(ctx context.Context, data []byte) error {
	return r.kv.put(ctx, r.key, data)
}
