// Package linear implements a multinomial (one-vs-rest) logistic
// classifier trained by batch gradient descent, the same fixed-
// iteration, fixed-learning-rate style as the pack's binary
// LogisticPredict.
package linear

import "math"

const (
	iterations   = 400
	learningRate = 0.15
)

// Model holds one weight vector per class, each including a bias term
// at index 0.
type Model struct {
	weights [][]float64 // [class][1+features]
}

// New returns an untrained Model; Fit sets the number of classes.
func New() *Model {
	return &Model{}
}

// Fit trains one-vs-rest logistic regressors for labels in {0,1,2}
// against rows, all sharing the same feature matrix. sampleWeights
// scales each row's contribution to the gradient directly (pass nil
// for uniform weight 1.0) rather than duplicating heavier rows.
func (m *Model) Fit(rows [][]float64, labels []int, sampleWeights []float64, numClasses int) {
	if len(rows) == 0 {
		return
	}
	if len(sampleWeights) != len(rows) {
		sampleWeights = uniformWeights(len(rows))
	}
	dim := len(rows[0]) + 1
	m.weights = make([][]float64, numClasses)
	for c := 0; c < numClasses; c++ {
		w := make([]float64, dim)
		targets := make([]float64, len(rows))
		for i, label := range labels {
			if label == c {
				targets[i] = 1.0
			}
		}
		fitOne(w, rows, targets, sampleWeights)
		m.weights[c] = w
	}
}

func fitOne(w []float64, rows [][]float64, targets, sampleWeights []float64) {
	var totalWeight float64
	for _, sw := range sampleWeights {
		totalWeight += sw
	}
	for iter := 0; iter < iterations; iter++ {
		for i, row := range rows {
			z := w[0]
			for j, v := range row {
				z += w[j+1] * v
			}
			p := sigmoid(z)
			errTerm := sampleWeights[i] * (p - targets[i])
			w[0] -= learningRate * errTerm / totalWeight
			for j, v := range row {
				w[j+1] -= learningRate * errTerm * v / totalWeight
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

// PredictProba returns (p_away, p_draw, p_home), normalized so the
// three one-vs-rest scores sum to 1.
func (m *Model) PredictProba(x []float64) (pAway, pDraw, pHome float64) {
	if len(m.weights) < 3 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	raw := make([]float64, 3)
	var sum float64
	for c, w := range m.weights {
		z := w[0]
		for j, v := range x {
			z += w[j+1] * v
		}
		raw[c] = sigmoid(z)
		sum += raw[c]
	}
	if sum == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return raw[0] / sum, raw[1] / sum, raw[2] / sum
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
