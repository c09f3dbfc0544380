// Package gbm implements a small from-scratch gradient-boosted
// multi-class classifier: one additive ensemble of shallow regression
// trees per class, fit against the multinomial log-loss gradient.
package gbm

import "math"

// node is one split or leaf in a regression tree, in the same
// leaf/threshold/children shape used elsewhere in the pack's
// tree-based models.
type node struct {
	isLeaf    bool
	value     float64
	feature   int
	threshold float64
	left      *node
	right     *node
}

func (n *node) predict(x []float64) float64 {
	for !n.isLeaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// regressionTree is a CART regressor trained to minimize squared error
// against pseudo-residuals, the inner model of each boosting round.
type regressionTree struct {
	root       *node
	maxDepth   int
	l2         float64
	minSamples int
}

func newRegressionTree(maxDepth int, l2 float64) *regressionTree {
	return &regressionTree{maxDepth: maxDepth, l2: l2, minSamples: 4}
}

func (t *regressionTree) fit(rows [][]float64, targets, weights []float64, featureIdx []int) {
	t.root = t.build(rows, targets, weights, featureIdx, 0)
}

func (t *regressionTree) build(rows [][]float64, targets, weights []float64, featureIdx []int, depth int) *node {
	if depth >= t.maxDepth || len(rows) < t.minSamples {
		return &node{isLeaf: true, value: leafValue(targets, weights, t.l2)}
	}

	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	bestLeftIdx, bestRightIdx := []int{}, []int{}
	baseScore := weightedSSE(targets, weights)

	for _, f := range featureIdx {
		thresholds := candidateThresholds(rows, f)
		for _, thr := range thresholds {
			var leftIdx, rightIdx []int
			for i, r := range rows {
				if r[f] <= thr {
					leftIdx = append(leftIdx, i)
				} else {
					rightIdx = append(rightIdx, i)
				}
			}
			if len(leftIdx) < 2 || len(rightIdx) < 2 {
				continue
			}
			leftTargets, leftWeights := subset(targets, leftIdx), subset(weights, leftIdx)
			rightTargets, rightWeights := subset(targets, rightIdx), subset(weights, rightIdx)
			gain := baseScore - weightedSSE(leftTargets, leftWeights) - weightedSSE(rightTargets, rightWeights)
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = thr
				bestLeftIdx = leftIdx
				bestRightIdx = rightIdx
			}
		}
	}

	if bestFeature == -1 {
		return &node{isLeaf: true, value: leafValue(targets, weights, t.l2)}
	}

	leftRows, rightRows := subsetRows(rows, bestLeftIdx), subsetRows(rows, bestRightIdx)
	leftTargets, rightTargets := subset(targets, bestLeftIdx), subset(targets, bestRightIdx)
	leftWeights, rightWeights := subset(weights, bestLeftIdx), subset(weights, bestRightIdx)

	return &node{
		isLeaf:    false,
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      t.build(leftRows, leftTargets, leftWeights, featureIdx, depth+1),
		right:     t.build(rightRows, rightTargets, rightWeights, featureIdx, depth+1),
	}
}

func (t *regressionTree) predict(x []float64) float64 {
	if t.root == nil {
		return 0
	}
	return t.root.predict(x)
}

// leafValue is the weighted mean of targets, L2-shrunk toward zero by
// adding l2 to the weight total rather than the sample count so a
// heavier-weighted leaf needs proportionally more evidence to resist
// shrinkage.
func leafValue(targets, weights []float64, l2 float64) float64 {
	if len(targets) == 0 {
		return 0
	}
	var sum, totalWeight float64
	for i, v := range targets {
		sum += weights[i] * v
		totalWeight += weights[i]
	}
	return sum / (totalWeight + l2)
}

// weightedSSE is the weighted sum of squared deviations from the
// weighted mean, the split-gain criterion this tree maximizes.
func weightedSSE(targets, weights []float64) float64 {
	if len(targets) == 0 {
		return 0
	}
	var meanNum, totalWeight float64
	for i, v := range targets {
		meanNum += weights[i] * v
		totalWeight += weights[i]
	}
	if totalWeight == 0 {
		return 0
	}
	mean := meanNum / totalWeight
	var sum float64
	for i, v := range targets {
		d := v - mean
		sum += weights[i] * d * d
	}
	return sum
}

// candidateThresholds samples a handful of split points for feature f
// rather than every observed value, keeping each split search linear
// in row count.
func candidateThresholds(rows [][]float64, f int) []float64 {
	values := make([]float64, len(rows))
	for i, r := range rows {
		values[i] = r[f]
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return nil
	}
	const steps = 8
	out := make([]float64, 0, steps)
	for i := 1; i < steps; i++ {
		out = append(out, lo+(hi-lo)*float64(i)/float64(steps))
	}
	return out
}

func subset(xs []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = xs[j]
	}
	return out
}

func subsetRows(rows [][]float64, idx []int) [][]float64 {
	out := make([][]float64, len(idx))
	for i, j := range idx {
		out[i] = rows[j]
	}
	return out
}
