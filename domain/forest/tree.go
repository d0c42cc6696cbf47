// Package forest implements the bagged regression-tree ensemble behind the
// survival estimate. Training is seeded: identical data and seed reproduce an
// identical ensemble, regardless of how many trees are grown in parallel.
package forest

import (
	"math"
	"math/rand"
	"sort"
)

// Node is one node of a regression tree. Exported fields keep the tree
// JSON-serializable for the snapshot bundle.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// Tree is a single CART regression tree.
type Tree struct {
	Root *Node `json:"root"`
}

// Predict walks the tree for one scaled feature vector.
func (t *Tree) Predict(x []float64) float64 {
	node := t.Root
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

type treeBuilder struct {
	cfg Config
	x   [][]float64
	y   []float64
	p   int
	rnd *rand.Rand
}

func growTree(cfg Config, x [][]float64, y []float64, idx []int, rnd *rand.Rand) *Tree {
	b := &treeBuilder{cfg: cfg, x: x, y: y, p: len(x[0]), rnd: rnd}
	return &Tree{Root: b.build(idx, 0)}
}

func (b *treeBuilder) build(idx []int, depth int) *Node {
	mean, sse := meanSSE(b.y, idx)

	if len(idx) < b.cfg.MinSamplesSplit || sse == 0 {
		return &Node{Leaf: true, Value: mean}
	}
	if b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth {
		return &Node{Leaf: true, Value: mean}
	}

	feat, threshold, improved := b.bestSplit(idx, sse)
	if !improved {
		return &Node{Leaf: true, Value: mean}
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feat] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	return &Node{
		Feature:   feat,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// bestSplit scans a random feature subset for the threshold minimizing the
// summed squared error of the two children. Candidate features are visited in
// ascending index order and only a strictly better split replaces the current
// best, so tie-breaking is deterministic under the tree's seeded RNG.
func (b *treeBuilder) bestSplit(idx []int, parentSSE float64) (feat int, threshold float64, ok bool) {
	k := b.cfg.MaxFeatures
	if k <= 0 || k > b.p {
		k = defaultMaxFeatures(b.p)
	}
	candidates := b.rnd.Perm(b.p)[:k]
	sort.Ints(candidates)

	bestSSE := parentSSE
	values := make([]float64, 0, len(idx))

	for _, j := range candidates {
		values = values[:0]
		for _, i := range idx {
			values = append(values, b.x[i][j])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			cut := (values[v] + values[v-1]) / 2

			var nl, nr int
			var sl, sr float64
			for _, i := range idx {
				if b.x[i][j] <= cut {
					nl++
					sl += b.y[i]
				} else {
					nr++
					sr += b.y[i]
				}
			}
			if nl < b.cfg.MinSamplesLeaf || nr < b.cfg.MinSamplesLeaf {
				continue
			}

			ml, mr := sl/float64(nl), sr/float64(nr)
			var sse float64
			for _, i := range idx {
				var d float64
				if b.x[i][j] <= cut {
					d = b.y[i] - ml
				} else {
					d = b.y[i] - mr
				}
				sse += d * d
			}

			if sse < bestSSE {
				bestSSE = sse
				feat = j
				threshold = cut
				ok = true
			}
		}
	}
	return feat, threshold, ok
}

func meanSSE(y []float64, idx []int) (mean, sse float64) {
	for _, i := range idx {
		mean += y[i]
	}
	mean /= float64(len(idx))
	for _, i := range idx {
		d := y[i] - mean
		sse += d * d
	}
	return mean, sse
}

// defaultMaxFeatures is the usual regression-forest heuristic of p/3,
// floored at one feature.
func defaultMaxFeatures(p int) int {
	k := int(math.Max(1, math.Floor(float64(p)/3)))
	if k > p {
		k = p
	}
	return k
}
