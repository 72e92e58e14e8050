package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/progress"
)

func wordPool(n int) []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		items[i] = catalog.WordItem(fmt.Sprintf("word%02d", i), fmt.Sprintf("definition %d", i), "")
	}
	return items
}

func TestTrainer_NewBatchPersistsAndBumpsGeneration(t *testing.T) {
	ctx := context.Background()
	p := progress.NewMemoryPersister(nil)
	s := progress.Open(ctx, p)
	tr := NewTrainer(s, wordPool(40), TrainerOptions{Rand: newRand(1)})

	require.Equal(t, uint64(0), tr.Generation())
	batch, err := tr.NewBatch(ctx)
	require.NoError(t, err)
	assert.Len(t, batch, DefaultBatchSize)
	assert.Equal(t, uint64(1), tr.Generation())
	assert.Equal(t, batch, s.Snapshot().ActiveSession)

	// A restarted trainer resumes the persisted batch.
	restarted := NewTrainer(progress.Open(ctx, p), wordPool(40), TrainerOptions{Rand: newRand(2)})
	assert.Equal(t, batch, restarted.Batch())
	resumed, err := restarted.EnsureBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, batch, resumed)
	assert.Equal(t, uint64(0), restarted.Generation())
}

func TestTrainer_EmptyPool(t *testing.T) {
	ctx := context.Background()
	tr := NewTrainer(newStore(t), nil, TrainerOptions{})
	_, err := tr.NewBatch(ctx)
	assert.ErrorIs(t, err, ErrEmptyPool)
	_, err = tr.EnsureBatch(ctx)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestTrainer_SmallPoolAndCustomSize(t *testing.T) {
	ctx := context.Background()
	pool := append(wordPool(3), catalog.Item{Key: "broken"})
	tr := NewTrainer(newStore(t), pool, TrainerOptions{BatchSize: 10, Rand: newRand(5)})
	assert.Len(t, tr.Pool(), 3)

	batch, err := tr.EnsureBatch(ctx)
	require.NoError(t, err)
	assert.Len(t, batch, 3)

	tr.SetPool(wordPool(20))
	batch, err = tr.NewBatch(ctx)
	require.NoError(t, err)
	assert.Len(t, batch, 10)
	assert.Equal(t, uint64(2), tr.Generation())
}
