package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	require.NotNil(t, c)
	assert.InDelta(t, 0.15+0.6, c.Cost(1_000_000, 1_000_000), 1e-9)

	alias := LookupCost("gemini-flash")
	require.NotNil(t, alias)
	assert.Equal(t, *LookupCost("gemini-2.5-flash"), *alias)

	assert.Nil(t, LookupCost("mock"))
}
