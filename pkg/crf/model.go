package crf

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/nkmr-lab/meichaku/pkg/label"
)

const numLabels = len(label.All)

// Model holds a linear-chain CRF's learned weights: a per-label initial
// (position-0) bias, a dense from-label×to-label transition matrix, and
// a sparse map from feature template name to a per-label weight vector.
type Model struct {
	Initial      [numLabels]float64          `json:"initial"`
	Transition   [numLabels][numLabels]float64 `json:"transition"`
	StateWeights map[string][numLabels]float64 `json:"state_weights"`
}

// NewModel returns an empty model ready for training.
func NewModel() *Model {
	return &Model{StateWeights: make(map[string][numLabels]float64)}
}

func labelIndex(l label.Label) int {
	for i, c := range label.All {
		if c == l {
			return i
		}
	}
	return -1
}

// stateScores returns, for a single line's active feature set, the
// per-label weighted sum of every active feature.
func (m *Model) stateScores(names []string) [numLabels]float64 {
	var scores [numLabels]float64
	for _, name := range names {
		w, ok := m.StateWeights[name]
		if !ok {
			continue
		}
		for i := 0; i < numLabels; i++ {
			scores[i] += w[i]
		}
	}
	return scores
}

func (m *Model) addStateGradient(names []string, labelIdx int, step float64) {
	for _, name := range names {
		w := m.StateWeights[name]
		w[labelIdx] += step
		m.StateWeights[name] = w
	}
}

// Save writes the model in the bundled JSON-based format to path.
func (m *Model) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crf: create model file: %w", err)
	}
	defer f.Close()
	return m.Encode(f)
}

// Encode writes the model to w.
func (m *Model) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(m)
}

// LoadModel reads a model previously written by Save.
func LoadModel(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("crf: open model file: %w", err)
	}
	defer f.Close()
	return DecodeModel(f)
}

// DecodeModel reads a model from r.
func DecodeModel(r io.Reader) (*Model, error) {
	var m Model
	dec := json.NewDecoder(r)
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("crf: decode model: %w", err)
	}
	if m.StateWeights == nil {
		m.StateWeights = make(map[string][numLabels]float64)
	}
	return &m, nil
}
