package progress

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
	"github.com/abhisek/acedrill/internal/metrics"
)

func missed(id string) catalog.MissedItem {
	return catalog.MissedItem{
		ID:       id,
		Category: catalog.CategoryVocabulary,
		Prompt:   "define " + id,
		Options:  []string{"a", "b", "c"},
	}
}

func TestStore_PersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s := Open(ctx, p)

	s.AwardXP(ctx, 10)
	s.RecordAnswer(ctx, true)
	s.UpdateMastery(ctx, "Wan", 5)
	s.LogMistake(ctx, missed("m1"))
	require.Equal(t, 4, p.Saves())

	reloaded := Open(ctx, p).Snapshot()
	assert.Equal(t, s.Snapshot(), reloaded)
	assert.Equal(t, 10, reloaded.XP)
	assert.Equal(t, 5, reloaded.Mastery["Wan"])
}

func TestStore_NoOpSkipsPersist(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s := Open(ctx, p)

	s.LogMistake(ctx, missed("m1"))
	s.LogMistake(ctx, missed("m1"))
	s.ResolveMistake(ctx, "unknown")
	s.AwardXP(ctx, 0)

	assert.Equal(t, 1, p.Saves())
	assert.Equal(t, uint64(1), s.Revision())
}

func TestStore_ConcurrentAwardsAllApply(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryPersister(nil))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AwardXP(ctx, 2)
			s.RecordAnswer(ctx, true)
		}()
	}
	wg.Wait()

	snap := s.Snapshot()
	assert.Equal(t, 100, snap.XP)
	assert.Equal(t, 50, snap.QuestionsAnswered)
	assert.Equal(t, 50, snap.TotalCorrect)
}

func TestStore_PersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	p.SaveErr = errors.New("disk full")
	m := metrics.New()
	s := Open(ctx, p, WithMetrics(m))

	rec := s.AwardXP(ctx, 25)
	assert.Equal(t, 25, rec.XP)
	rec = s.AwardXP(ctx, 5)
	assert.Equal(t, 30, rec.XP)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.PersistFailures))
}

func TestStore_LoadFailureStartsFresh(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	p.LoadErr = errors.New("unavailable")
	s := Open(ctx, p)
	assert.Equal(t, Default(), s.Snapshot())
}

func TestStore_FinishSessionRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s := Open(ctx, p)

	_, _, err := s.FinishSession(ctx, 0, 0, catalog.CategoryMath)
	require.ErrorIs(t, err, ErrInvalidSessionResult)
	assert.Equal(t, 0, p.Saves())
	assert.Equal(t, Default(), s.Snapshot())

	rec, res, err := s.FinishSession(ctx, 8, 10, catalog.CategoryMath)
	require.NoError(t, err)
	assert.Equal(t, 80, res.CategoryScore)
	assert.Equal(t, 80, rec.AverageScore)
	assert.Equal(t, 290, rec.XP)
}

func TestStore_SnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryPersister(nil))
	s.UpdateMastery(ctx, "w", 10)

	snap := s.Snapshot()
	snap.Mastery["w"] = 99
	snap.CategoryScores[catalog.CategoryMath] = 99

	fresh := s.Snapshot()
	assert.Equal(t, 10, fresh.Mastery["w"])
	assert.Equal(t, 0, fresh.CategoryScores[catalog.CategoryMath])
}

func TestStore_ActiveSessionAndReset(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s := Open(ctx, p)

	batch := []catalog.Item{
		catalog.WordItem("Wan", "pale", ""),
		catalog.WordItem("Bevy", "group", ""),
		{Key: "broken"},
	}
	rec := s.SetActiveSession(ctx, batch)
	require.Len(t, rec.ActiveSession, 2)

	reloaded := Open(ctx, p).Snapshot()
	assert.Equal(t, rec.ActiveSession, reloaded.ActiveSession)

	s.AwardXP(ctx, 100)
	assert.Equal(t, Default(), s.Reset(ctx))
	assert.Equal(t, Default(), Open(ctx, p).Snapshot())
}

func TestStore_MistakeRegistryCap(t *testing.T) {
	ctx := context.Background()
	s := Open(ctx, NewMemoryPersister(nil))
	for i := 0; i < 105; i++ {
		s.LogMistake(ctx, missed(fmt.Sprint(i)))
	}
	rec := s.Snapshot()
	require.Len(t, rec.Mistakes, 100)
	assert.Equal(t, "104", rec.Mistakes[0].ID)
	assert.Equal(t, "5", rec.Mistakes[99].ID)
}

func TestStore_RedeemMistakeOnlyOnce(t *testing.T) {
	ctx := context.Background()
	p := NewMemoryPersister(nil)
	s := Open(ctx, p)
	s.LogMistake(ctx, catalog.MissedItem{ID: "q1", Category: catalog.CategoryMath, Prompt: "2+2", Options: []string{"3", "4"}, CorrectIndex: 1})

	rec, ok := s.RedeemMistake(ctx, "q1", 75)
	require.True(t, ok)
	assert.Equal(t, 75, rec.XP)
	assert.Empty(t, rec.Mistakes)
	saves := p.Saves()

	rec, ok = s.RedeemMistake(ctx, "q1", 75)
	assert.False(t, ok)
	assert.Equal(t, 75, rec.XP)
	assert.Equal(t, saves, p.Saves())
}
