package session

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/mastery"
)

func TestDeck_VerifyRewardsAndAdvances(t *testing.T) {
	s := newStore(t)
	rec := &Recorder{}
	deck := NewDeck(wordPool(3), Fanout(rec, NewRewards(s, nil)))

	deck.Flip()
	require.True(t, deck.Revealed())
	require.True(t, deck.Verify())
	assert.Equal(t, 1, deck.Index())
	assert.False(t, deck.Revealed())

	require.Len(t, rec.Events(), 1)
	ev, ok := rec.Events()[0].(CardVerified)
	require.True(t, ok)
	assert.Equal(t, "word00", ev.Item.Key)

	snap := s.Snapshot()
	assert.Equal(t, FlashcardXP, snap.XP)
	assert.Zero(t, snap.Mastery["word00"], "session cards award XP only")
}

func TestDeck_LibraryVerifyRaisesMastery(t *testing.T) {
	s := newStore(t)
	deck := NewDeck(nil, NewRewards(s, nil))
	deck.BindLibrary(wordPool(4))
	require.True(t, deck.Library())

	require.True(t, deck.Verify())
	snap := s.Snapshot()
	assert.Equal(t, FlashcardXP, snap.XP)
	assert.Equal(t, mastery.FlashcardIncrement, snap.Mastery["word00"])

	deck.Bind(wordPool(2))
	assert.False(t, deck.Library())
}

func TestDeck_ShuffleLibraryOnly(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	deck := NewDeck(wordPool(3), nil)
	assert.False(t, deck.ShuffleLibrary(rng, wordPool(3)))

	deck.BindLibrary(wordPool(20))
	deck.Next()
	require.True(t, deck.ShuffleLibrary(rng, wordPool(20)))
	assert.Equal(t, 0, deck.Index())
	assert.Equal(t, 20, deck.Len())
}

func TestDeck_Empty(t *testing.T) {
	deck := NewDeck(nil, nil)
	assert.False(t, deck.Verify())
	deck.Next()
	deck.Prev()
	assert.Equal(t, 0, deck.Index())

	deck.Bind(wordPool(2))
	deck.Prev()
	assert.Equal(t, 1, deck.Index())
}
