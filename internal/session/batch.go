// Package session holds the pieces shared by the training games: batch
// selection, timer scheduling, outcome events and the rewards they earn.
package session

import "math/rand/v2"

// DefaultBatchSize is the number of items drawn for one training session.
const DefaultBatchSize = 15

// PickBatch returns min(size, len(pool)) distinct elements of pool, sampled
// uniformly without replacement and in random order. pool is not modified.
// All randomness comes from rng.
func PickBatch[T any](rng *rand.Rand, pool []T, size int) []T {
	n := min(max(size, 0), len(pool))
	work := append([]T(nil), pool...)
	// Partial Fisher-Yates: the first n slots end up a uniform random sample.
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(work)-i)
		work[i], work[j] = work[j], work[i]
	}
	return work[:n:n]
}

// Shuffle returns a randomly permuted copy of items.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	return PickBatch(rng, items, len(items))
}
