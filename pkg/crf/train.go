package crf

import (
	"fmt"
	"math"

	"github.com/nkmr-lab/meichaku/pkg/features"
	"github.com/nkmr-lab/meichaku/pkg/label"
)

// Algorithm selects the training update rule. The names mirror the
// crfsuite algorithm identifiers the §6 training interface borrows;
// see DESIGN.md for how each maps onto this package's online learner.
type Algorithm string

const (
	AlgorithmLBFGS Algorithm = "lbfgs"
	AlgorithmL2SGD Algorithm = "l2sgd"
	AlgorithmAP    Algorithm = "ap"
	AlgorithmPA    Algorithm = "pa"
	AlgorithmAROW  Algorithm = "arow"
)

type trainingSequence struct {
	lines  []features.Line
	labels []label.Label
}

// Trainer accumulates labeled training sequences and fits a Model.
type Trainer struct {
	Algorithm     Algorithm
	C1            float64 // L1 coefficient; stored only, no update rule applies an L1 penalty
	C2            float64 // L2 coefficient (lbfgs, l2sgd); also the pa step cap and the arow rate 1/(1+C2)
	MaxIterations int

	sequences []trainingSequence
}

// NewTrainer returns a Trainer using algorithm, with the defaults
// crfsuite itself ships (C2=1.0, 100 iterations).
func NewTrainer(algorithm Algorithm) *Trainer {
	return &Trainer{
		Algorithm:     algorithm,
		C2:            1.0,
		MaxIterations: 100,
	}
}

// AddSequence registers one labeled email (its per-line feature vectors
// and gold labels) as a training example.
func (t *Trainer) AddSequence(lines []features.Line, labels []label.Label) error {
	if len(lines) != len(labels) {
		return fmt.Errorf("crf: %d feature lines but %d labels", len(lines), len(labels))
	}
	t.sequences = append(t.sequences, trainingSequence{lines: lines, labels: labels})
	return nil
}

// Train fits a Model over every registered sequence and returns it.
func (t *Trainer) Train() (*Model, error) {
	if len(t.sequences) == 0 {
		return nil, fmt.Errorf("crf: no training sequences registered")
	}

	m := NewModel()
	avg := NewModel()
	updates := 0

	iterations := t.MaxIterations
	if iterations <= 0 {
		iterations = 100
	}

	for iter := 0; iter < iterations; iter++ {
		for _, seq := range t.sequences {
			t.step(m, seq)
			updates++
			accumulate(avg, m)
		}
	}

	switch t.Algorithm {
	case AlgorithmAP, AlgorithmPA, AlgorithmAROW:
		scale(avg, 1/float64(maxInt(1, updates)))
		return avg, nil
	default: // lbfgs, l2sgd: regularized batch/stochastic descent, no averaging
		return m, nil
	}
}

// step applies one online update for seq under the trainer's selected
// algorithm.
func (t *Trainer) step(m *Model, seq trainingSequence) {
	switch t.Algorithm {
	case AlgorithmPA:
		t.stepPassiveAggressive(m, seq)
	case AlgorithmAROW:
		t.stepAROW(m, seq)
	case AlgorithmL2SGD:
		t.stepGradient(m, seq, 0.1)
	case AlgorithmLBFGS:
		t.stepGradient(m, seq, 0.05)
	default: // ap
		t.stepPerceptron(m, seq, 1.0)
	}
}

// stepPerceptron is the structured perceptron update: decode under the
// current weights, and if the prediction disagrees with the gold
// labels, push weight mass from the predicted labels toward the gold
// labels at every disagreeing position.
func (t *Trainer) stepPerceptron(m *Model, seq trainingSequence, rate float64) {
	pred := m.viterbiLabels(seq.lines)
	for i := range seq.lines {
		if pred[i] == seq.labels[i] {
			continue
		}
		names := activeFeatures(seq.lines[i])
		m.addStateGradient(names, labelIndex(seq.labels[i]), rate)
		m.addStateGradient(names, labelIndex(pred[i]), -rate)
		updateTransition(m, seq.labels, i, rate)
		updateTransition(m, pred, i, -rate)
	}
}

// stepPassiveAggressive scales the perceptron step by the Hamming loss
// of the current prediction against the gold labels, divided by the
// sequence length plus one and capped at C2.
func (t *Trainer) stepPassiveAggressive(m *Model, seq trainingSequence) {
	pred := m.viterbiLabels(seq.lines)
	loss := hammingLoss(pred, seq.labels)
	if loss == 0 {
		return
	}
	c := t.C2
	if c <= 0 {
		c = 1.0
	}
	tau := loss / float64(len(seq.lines)+1)
	if tau > c {
		tau = c
	}
	t.stepPerceptron(m, seq, tau)
}

// stepAROW approximates adaptive regularization of weights with a
// perceptron step at the fixed rate 1/(1+C2). No per-feature confidence
// or covariance is tracked, and the rate does not change between
// updates; see DESIGN.md.
func (t *Trainer) stepAROW(m *Model, seq trainingSequence) {
	r := t.C2
	if r <= 0 {
		r = 1.0
	}
	t.stepPerceptron(m, seq, 1/(1+r))
}

// stepGradient applies one step of conditional-log-likelihood gradient
// ascent (empirical feature counts minus model-expected feature
// counts, via forward-backward marginals), with L2 shrinkage — the
// maximum-entropy training rule crfsuite's lbfgs/l2sgd algorithms
// optimize in batch; this package applies it per-sequence (stochastic).
func (t *Trainer) stepGradient(m *Model, seq trainingSequence, rate float64) {
	n := len(seq.lines)
	if n == 0 {
		return
	}
	lineFeatures := make([][]string, n)
	stateScores := make([][numLabels]float64, n)
	for i, l := range seq.lines {
		lineFeatures[i] = activeFeatures(l)
		stateScores[i] = m.stateScores(lineFeatures[i])
	}
	logZ, alpha, beta := m.forwardBackward(stateScores)

	shrink := 1 - rate*t.shrinkage()
	for name, w := range m.StateWeights {
		for k := range w {
			w[k] *= shrink
		}
		m.StateWeights[name] = w
	}

	for i := 0; i < n; i++ {
		goldIdx := labelIndex(seq.labels[i])
		for c := 0; c < numLabels; c++ {
			marginal := expLogProb(alpha[i][c] + beta[i][c] - logZ)
			grad := -marginal
			if c == goldIdx {
				grad += 1
			}
			if grad == 0 {
				continue
			}
			for _, name := range lineFeatures[i] {
				w := m.StateWeights[name]
				w[c] += rate * grad
				m.StateWeights[name] = w
			}
		}
	}

	updateTransitionExpected(m, seq, rate)
}

func (t *Trainer) shrinkage() float64 {
	if t.C2 <= 0 {
		return 0.01
	}
	return 1 / (100 * t.C2)
}

func updateTransition(m *Model, labels []label.Label, i int, rate float64) {
	idx := labelIndex(labels[i])
	if i == 0 {
		m.Initial[idx] += rate
		return
	}
	prev := labelIndex(labels[i-1])
	m.Transition[prev][idx] += rate
}

// updateTransitionExpected adds half the step rate to the transition
// weight of every adjacent gold-label pair and to the initial weight of
// the first gold label. Unlike stepGradient's state update, model-expected
// counts are not subtracted.
func updateTransitionExpected(m *Model, seq trainingSequence, rate float64) {
	for i := 1; i < len(seq.labels); i++ {
		g, p := labelIndex(seq.labels[i-1]), labelIndex(seq.labels[i])
		m.Transition[g][p] += rate * 0.5
	}
	if len(seq.labels) > 0 {
		m.Initial[labelIndex(seq.labels[0])] += rate * 0.5
	}
}

func (m *Model) viterbiLabels(lines []features.Line) []label.Label {
	stateScores := make([][numLabels]float64, len(lines))
	for i, l := range lines {
		stateScores[i] = m.stateScores(activeFeatures(l))
	}
	return m.viterbi(stateScores)
}

func hammingLoss(a, b []label.Label) float64 {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return float64(n)
}

func expLogProb(logP float64) float64 {
	if logP > 0 {
		logP = 0
	}
	return math.Exp(logP)
}

func accumulate(sum, m *Model) {
	for c := 0; c < numLabels; c++ {
		sum.Initial[c] += m.Initial[c]
		for d := 0; d < numLabels; d++ {
			sum.Transition[c][d] += m.Transition[c][d]
		}
	}
	for name, w := range m.StateWeights {
		sw := sum.StateWeights[name]
		for k := range w {
			sw[k] += w[k]
		}
		sum.StateWeights[name] = sw
	}
}

func scale(m *Model, factor float64) {
	for c := 0; c < numLabels; c++ {
		m.Initial[c] *= factor
		for d := 0; d < numLabels; d++ {
			m.Transition[c][d] *= factor
		}
	}
	for name, w := range m.StateWeights {
		for k := range w {
			w[k] *= factor
		}
		m.StateWeights[name] = w
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
