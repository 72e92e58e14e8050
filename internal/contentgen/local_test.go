package contentgen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/acedrill/internal/catalog"
)

func testPool(n int) func() []catalog.Item {
	items := make([]catalog.Item, n)
	for i := range items {
		items[i] = catalog.WordItem(fmt.Sprintf("lexicon%02d", i), fmt.Sprintf("definition %d", i), "")
	}
	return func() []catalog.Item { return items }
}

func TestWordSource_Vocabulary(t *testing.T) {
	pool := testPool(12)
	defs := map[string]string{}
	for _, it := range pool() {
		defs[it.Key] = it.Prompt
	}

	src := NewWordSource(pool, rand.New(rand.NewPCG(1, 2)))
	qs, err := src.Questions(context.Background(), catalog.CategoryVocabulary, 10)
	require.NoError(t, err)
	require.Len(t, qs, 10)

	seen := map[string]bool{}
	for _, q := range qs {
		require.True(t, q.Valid(), "%+v", q)
		assert.Len(t, q.Options, 4)
		assert.False(t, seen[q.ID])
		seen[q.ID] = true

		key := strings.TrimPrefix(q.ID, "vocab:")
		assert.Contains(t, q.Prompt, key)
		assert.Equal(t, defs[key], q.CorrectOption())
	}
}

func TestWordSource_SmallPool(t *testing.T) {
	src := NewWordSource(testPool(3), nil)
	qs, err := src.Questions(context.Background(), catalog.CategoryVocabulary, 10)
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestWordSource_Spelling(t *testing.T) {
	src := NewWordSource(func() []catalog.Item {
		return []catalog.Item{
			catalog.WordItem("Ubiquitous", "everywhere", ""),
			catalog.WordItem("Bona Fide", "genuine", ""),
			catalog.WordItem("Wan", "pale", ""),
		}
	}, rand.New(rand.NewPCG(3, 4)))

	qs, err := src.Questions(context.Background(), catalog.CategorySpelling, 5)
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "ubiquitous", qs[0].CorrectOption())
	assert.GreaterOrEqual(t, len(qs[0].Options), 2)
}

func TestWordSource_Unsupported(t *testing.T) {
	_, err := NewWordSource(testPool(10), nil).Questions(context.Background(), catalog.CategoryMath, 5)
	assert.ErrorIs(t, err, ErrUnsupportedCategory)
}

func TestMisspellings(t *testing.T) {
	got := Misspellings("necessary", 3)
	require.Len(t, got, 3)
	seen := map[string]bool{"necessary": true}
	for _, m := range got {
		assert.False(t, seen[m], m)
		seen[m] = true
	}
	assert.Contains(t, got, "necesary")
}
