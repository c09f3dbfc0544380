package gbm

import (
	"math"
	"math/rand"
)

// Config mirrors the spec's training hyperparameters for the boosted
// classifier: 3 classes, log-loss, depth ~5, shrinkage ~0.08, 150
// trees, row/column subsampling 0.8, mild L1/L2.
type Config struct {
	NumClasses   int
	NumTrees     int
	MaxDepth     int
	Shrinkage    float64
	RowSubsample float64
	ColSubsample float64
	L1           float64
	L2           float64
	Seed         int64
}

// DefaultConfig returns the spec's stated hyperparameters.
func DefaultConfig() Config {
	return Config{
		NumClasses:   3,
		NumTrees:     150,
		MaxDepth:     5,
		Shrinkage:    0.08,
		RowSubsample: 0.8,
		ColSubsample: 0.8,
		L1:           0.1,
		L2:           1.0,
		Seed:         42,
	}
}

// Model is an additive ensemble of per-class regression trees over raw
// class scores, converted to probabilities via softmax.
type Model struct {
	cfg        Config
	treesByCls [][]*regressionTree
	numFeatures int
}

// New constructs an untrained Model with cfg's hyperparameters.
func New(cfg Config) *Model {
	return &Model{cfg: cfg, treesByCls: make([][]*regressionTree, cfg.NumClasses)}
}

// Fit trains the ensemble on rows (feature vectors) against integer
// labels in [0, NumClasses), using a deterministic RNG seeded from
// cfg.Seed so repeated Fit calls on the same data reproduce the same
// model. weights carries each row's sample weight straight into the
// per-leaf weighted mean and weighted-SSE split search rather than by
// duplicating rows; pass nil for uniform weight 1.0.
func (m *Model) Fit(rows [][]float64, labels []int, weights []float64) {
	if len(rows) == 0 {
		return
	}
	m.numFeatures = len(rows[0])
	rng := rand.New(rand.NewSource(m.cfg.Seed))

	n := len(rows)
	if len(weights) != n {
		weights = uniformWeights(n)
	}
	scores := make([][]float64, n)
	for i := range scores {
		scores[i] = make([]float64, m.cfg.NumClasses)
	}

	for round := 0; round < m.cfg.NumTrees; round++ {
		probs := make([][]float64, n)
		for i := range probs {
			probs[i] = softmax(scores[i])
		}

		rowIdx := sampleIndices(rng, n, m.cfg.RowSubsample)
		colIdx := sampleIndices(rng, m.numFeatures, m.cfg.ColSubsample)

		for c := 0; c < m.cfg.NumClasses; c++ {
			residuals := make([]float64, len(rowIdx))
			sampledRows := make([][]float64, len(rowIdx))
			sampledWeights := make([]float64, len(rowIdx))
			for k, i := range rowIdx {
				target := 0.0
				if labels[i] == c {
					target = 1.0
				}
				residuals[k] = target - probs[i][c]
				sampledRows[k] = rows[i]
				sampledWeights[k] = weights[i]
			}

			tree := newRegressionTree(m.cfg.MaxDepth, m.cfg.L2)
			tree.fit(sampledRows, residuals, sampledWeights, colIdx)
			m.treesByCls[c] = append(m.treesByCls[c], tree)

			for i := range rows {
				update := tree.predict(rows[i])
				update = softThreshold(update, m.cfg.L1)
				scores[i][c] += m.cfg.Shrinkage * update
			}
		}
	}
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0
	}
	return w
}

// PredictProba returns (p_away, p_draw, p_home) for one feature row,
// matching the caller contract's (p_a, p_d, p_h) ordering.
func (m *Model) PredictProba(x []float64) (pAway, pDraw, pHome float64) {
	scores := make([]float64, m.cfg.NumClasses)
	for c, trees := range m.treesByCls {
		for _, t := range trees {
			scores[c] += m.cfg.Shrinkage * t.predict(x)
		}
	}
	p := softmax(scores)
	if len(p) < 3 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return p[0], p[1], p[2]
}

func softmax(scores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range scores {
		maxScore = math.Max(maxScore, s)
	}
	exp := make([]float64, len(scores))
	var sum float64
	for i, s := range scores {
		exp[i] = math.Exp(s - maxScore)
		sum += exp[i]
	}
	for i := range exp {
		exp[i] /= sum
	}
	return exp
}

func softThreshold(v, l1 float64) float64 {
	if v > l1 {
		return v - l1
	}
	if v < -l1 {
		return v + l1
	}
	return 0
}

func sampleIndices(rng *rand.Rand, n int, fraction float64) []int {
	k := int(float64(n) * fraction)
	if k < 1 {
		k = 1
	}
	perm := rng.Perm(n)
	return perm[:k]
}
