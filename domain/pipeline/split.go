package pipeline

import (
	"math"
	"math/rand"
)

// holdoutSplit partitions row indices into train and held-out sets with a
// seeded shuffle, so repeated training runs split identically.
func holdoutSplit(n int, fraction float64, seed int64) (train, holdout []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	k := int(math.Round(float64(n) * fraction))
	if k >= n {
		k = n - 1
	}
	if k < 0 {
		k = 0
	}
	return perm[k:], perm[:k]
}
