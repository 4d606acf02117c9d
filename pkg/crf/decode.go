package crf

import (
	"math"

	"github.com/nkmr-lab/meichaku/pkg/features"
	"github.com/nkmr-lab/meichaku/pkg/label"
)

// Decoded is the result of decoding one email's line sequence.
type Decoded struct {
	Labels          []label.Label
	Confidence      []float64 // marginal probability of the chosen label at each position
	SequenceLogProb float64
}

// Decode runs Viterbi to find the highest-scoring label sequence for
// lines, then runs forward-backward over the same lattice to compute
// per-line marginal confidence and the decoded sequence's probability.
func (m *Model) Decode(lines []features.Line) Decoded {
	n := len(lines)
	if n == 0 {
		return Decoded{}
	}

	lineFeatures := make([][]string, n)
	stateScores := make([][numLabels]float64, n)
	for i, l := range lines {
		lineFeatures[i] = activeFeatures(l)
		stateScores[i] = m.stateScores(lineFeatures[i])
	}

	labels := m.viterbi(stateScores)
	logZ, alpha, beta := m.forwardBackward(stateScores)

	confidence := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := labelIndex(labels[i])
		logMarginal := alpha[i][idx] + beta[i][idx] - logZ
		confidence[i] = math.Exp(logMarginal)
	}

	seqScore := m.sequenceScore(stateScores, labels)

	return Decoded{
		Labels:          labels,
		Confidence:      confidence,
		SequenceLogProb: seqScore - logZ,
	}
}

func (m *Model) sequenceScore(stateScores [][numLabels]float64, labels []label.Label) float64 {
	score := 0.0
	prev := -1
	for i, l := range labels {
		idx := labelIndex(l)
		if prev == -1 {
			score += m.Initial[idx]
		} else {
			score += m.Transition[prev][idx]
		}
		score += stateScores[i][idx]
		prev = idx
	}
	return score
}

// viterbi finds the highest-scoring label path through the lattice
// defined by stateScores and the model's transition weights.
func (m *Model) viterbi(stateScores [][numLabels]float64) []label.Label {
	n := len(stateScores)
	delta := make([][numLabels]float64, n)
	back := make([][numLabels]int, n)

	for c := 0; c < numLabels; c++ {
		delta[0][c] = m.Initial[c] + stateScores[0][c]
		back[0][c] = -1
	}

	for i := 1; i < n; i++ {
		for c := 0; c < numLabels; c++ {
			best := math.Inf(-1)
			bestPrev := 0
			for p := 0; p < numLabels; p++ {
				v := delta[i-1][p] + m.Transition[p][c]
				if v > best {
					best = v
					bestPrev = p
				}
			}
			delta[i][c] = best + stateScores[i][c]
			back[i][c] = bestPrev
		}
	}

	last := 0
	best := math.Inf(-1)
	for c := 0; c < numLabels; c++ {
		if delta[n-1][c] > best {
			best = delta[n-1][c]
			last = c
		}
	}

	path := make([]int, n)
	path[n-1] = last
	for i := n - 1; i > 0; i-- {
		path[i-1] = back[i][path[i]]
	}

	labels := make([]label.Label, n)
	for i, idx := range path {
		labels[i] = label.All[idx]
	}
	return labels
}

// forwardBackward computes the log-space forward (alpha) and backward
// (beta) lattices and the log partition function logZ, for marginal
// probability queries.
func (m *Model) forwardBackward(stateScores [][numLabels]float64) (logZ float64, alpha, beta [][numLabels]float64) {
	n := len(stateScores)
	alpha = make([][numLabels]float64, n)
	beta = make([][numLabels]float64, n)

	for c := 0; c < numLabels; c++ {
		alpha[0][c] = m.Initial[c] + stateScores[0][c]
	}
	for i := 1; i < n; i++ {
		for c := 0; c < numLabels; c++ {
			sums := make([]float64, numLabels)
			for p := 0; p < numLabels; p++ {
				sums[p] = alpha[i-1][p] + m.Transition[p][c]
			}
			alpha[i][c] = logSumExp(sums) + stateScores[i][c]
		}
	}

	for c := 0; c < numLabels; c++ {
		beta[n-1][c] = 0
	}
	for i := n - 2; i >= 0; i-- {
		for c := 0; c < numLabels; c++ {
			sums := make([]float64, numLabels)
			for nxt := 0; nxt < numLabels; nxt++ {
				sums[nxt] = m.Transition[c][nxt] + stateScores[i+1][nxt] + beta[i+1][nxt]
			}
			beta[i][c] = logSumExp(sums)
		}
	}

	final := make([]float64, numLabels)
	copy(final, alpha[n-1][:])
	logZ = logSumExp(final)

	return logZ, alpha, beta
}

func logSumExp(xs []float64) float64 {
	max := math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}
