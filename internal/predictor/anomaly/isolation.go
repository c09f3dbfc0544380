// Package anomaly implements an isolation-forest-style anomaly scorer:
// an ensemble of random-split trees in which outliers isolate in fewer
// splits than typical points. Trained on a single class of rows (the
// predictor trains it on home-win rows only) to flag inputs that look
// atypical for that class.
package anomaly

import (
	"math"
	"math/rand"
)

const (
	numTrees       = 100
	subsampleSize  = 256
	contamination  = 0.05
)

type isoNode struct {
	isLeaf    bool
	size      int
	feature   int
	threshold float64
	left      *isoNode
	right     *isoNode
}

// Detector is a fitted isolation forest plus the score threshold
// implied by the configured contamination rate.
type Detector struct {
	trees     []*isoNode
	threshold float64
	sampleSz  int
	seed      int64
}

// New returns an untrained Detector seeded for reproducibility.
func New(seed int64) *Detector {
	return &Detector{seed: seed}
}

// Fit builds the forest over rows (expected to be home-win rows only)
// and calibrates the flagging threshold to the contamination rate.
func (d *Detector) Fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	rng := rand.New(rand.NewSource(d.seed))
	sampleSz := subsampleSize
	if sampleSz > len(rows) {
		sampleSz = len(rows)
	}
	d.sampleSz = sampleSz
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSz))))

	d.trees = make([]*isoNode, numTrees)
	for t := 0; t < numTrees; t++ {
		sample := subsample(rng, rows, sampleSz)
		d.trees[t] = buildIsoTree(rng, sample, 0, maxDepth)
	}

	scores := make([]float64, len(rows))
	for i, r := range rows {
		scores[i] = d.score(r)
	}
	d.threshold = percentile(scores, 1-contamination)
}

// Score returns the anomaly score in (0,1] for a fitted detector (0
// when unfitted); values near 1 indicate short average isolation
// paths, i.e. likely outliers.
func (d *Detector) Score(x []float64) float64 {
	return d.score(x)
}

// Flag reports whether x's score exceeds the contamination-calibrated
// threshold.
func (d *Detector) Flag(x []float64) bool {
	if len(d.trees) == 0 {
		return false
	}
	return d.score(x) >= d.threshold
}

func (d *Detector) score(x []float64) float64 {
	if len(d.trees) == 0 {
		return 0
	}
	var pathSum float64
	for _, tree := range d.trees {
		pathSum += pathLength(tree, x, 0)
	}
	avgPath := pathSum / float64(len(d.trees))
	c := cFactor(d.sampleSz)
	if c == 0 {
		return 0
	}
	return math.Pow(2, -avgPath/c)
}

func buildIsoTree(rng *rand.Rand, rows [][]float64, depth, maxDepth int) *isoNode {
	if depth >= maxDepth || len(rows) <= 1 {
		return &isoNode{isLeaf: true, size: len(rows)}
	}
	numFeatures := len(rows[0])
	feature := rng.Intn(numFeatures)

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		lo = math.Min(lo, r[feature])
		hi = math.Max(hi, r[feature])
	}
	if lo == hi {
		return &isoNode{isLeaf: true, size: len(rows)}
	}
	threshold := lo + rng.Float64()*(hi-lo)

	var left, right [][]float64
	for _, r := range rows {
		if r[feature] < threshold {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &isoNode{isLeaf: true, size: len(rows)}
	}

	return &isoNode{
		feature:   feature,
		threshold: threshold,
		left:      buildIsoTree(rng, left, depth+1, maxDepth),
		right:     buildIsoTree(rng, right, depth+1, maxDepth),
	}
}

func pathLength(n *isoNode, x []float64, depth int) float64 {
	if n.isLeaf {
		return float64(depth) + cFactor(n.size)
	}
	if x[n.feature] < n.threshold {
		return pathLength(n.left, x, depth+1)
	}
	return pathLength(n.right, x, depth+1)
}

// cFactor is the expected path length of an unsuccessful search in a
// binary search tree of n nodes, the standard isolation-forest
// normalization constant.
func cFactor(n int) float64 {
	if n <= 1 {
		return 0
	}
	return 2*(math.Log(float64(n-1))+0.5772156649) - 2*float64(n-1)/float64(n)
}

func subsample(rng *rand.Rand, rows [][]float64, size int) [][]float64 {
	perm := rng.Perm(len(rows))
	out := make([][]float64, size)
	for i := 0; i < size; i++ {
		out[i] = rows[perm[i]]
	}
	return out
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	idx := int(p * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
