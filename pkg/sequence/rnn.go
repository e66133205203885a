package sequence

import (
	"errors"
	"fmt"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotLoaded is returned when a model is used before its weights are loaded
var ErrNotLoaded = errors.New("model weights not loaded")

type (
	// RNN is a single layer Elman network with a sigmoid output per step
	RNN struct {
		hiddenSize int
		weights    *rnnWeights
	}

	rnnWeights struct {
		InputSize  int         `json:"input_size"`
		HiddenSize int         `json:"hidden_size"`
		WXH        [][]float64 `json:"w_xh"` // hidden x input
		WHH        [][]float64 `json:"w_hh"` // hidden x hidden
		BH         []float64   `json:"b_h"`
		WHY        []float64   `json:"w_hy"`
		BY         float64     `json:"b_y"`
	}
)

// NewRNN returns an RNN whose weights must have hiddenSize units
func NewRNN(hiddenSize int) *RNN {
	return &RNN{hiddenSize: hiddenSize}
}

// Load reads the network weights from a JSON file
func (r *RNN) Load(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	weights := &rnnWeights{}
	if err := json.Unmarshal(raw, weights); err != nil {
		return fmt.Errorf("decoding model %s: %w", path, err)
	}

	if weights.HiddenSize != r.hiddenSize {
		return fmt.Errorf("%w: model %s has %d hidden units, rnn size is %d",
			ErrShape, path, weights.HiddenSize, r.hiddenSize)
	}
	if err := weights.validate(); err != nil {
		return fmt.Errorf("model %s: %w", path, err)
	}

	r.weights = weights
	return nil
}

func (w *rnnWeights) validate() error {
	if w.InputSize <= 0 || w.HiddenSize <= 0 {
		return fmt.Errorf("%w: input size %d, hidden size %d", ErrShape, w.InputSize, w.HiddenSize)
	}
	if !isMatrix(w.WXH, w.HiddenSize, w.InputSize) {
		return fmt.Errorf("%w: w_xh must be %d x %d", ErrShape, w.HiddenSize, w.InputSize)
	}
	if !isMatrix(w.WHH, w.HiddenSize, w.HiddenSize) {
		return fmt.Errorf("%w: w_hh must be %d x %d", ErrShape, w.HiddenSize, w.HiddenSize)
	}
	if len(w.BH) != w.HiddenSize || len(w.WHY) != w.HiddenSize {
		return fmt.Errorf("%w: b_h and w_hy must have %d entries", ErrShape, w.HiddenSize)
	}
	return nil
}

func isMatrix(m [][]float64, rows int, cols int) bool {
	if len(m) != rows {
		return false
	}
	for _, row := range m {
		if len(row) != cols {
			return false
		}
	}
	return true
}

// InputSize is the number of features the network expects per step
func (r *RNN) InputSize() int {
	if r.weights == nil {
		return 0
	}
	return r.weights.InputSize
}

// Output runs the network over every sequence of the batch
func (r *RNN) Output(x [][][]float64, lengths []int) ([][]float64, error) {
	if r.weights == nil {
		return nil, ErrNotLoaded
	}
	if len(x) != len(lengths) {
		return nil, fmt.Errorf("%w: %d sequences, %d lengths", ErrShape, len(x), len(lengths))
	}

	outputs := make([][]float64, len(x))
	for i, sequence := range x {
		if lengths[i] < 0 || lengths[i] > len(sequence) {
			return nil, fmt.Errorf("%w: sequence %d has length %d but %d steps",
				ErrShape, i, lengths[i], len(sequence))
		}

		outputs[i] = make([]float64, len(sequence))
		hidden := make([]float64, r.weights.HiddenSize)
		for k := 0; k < lengths[i]; k++ {
			if len(sequence[k]) != r.weights.InputSize {
				return nil, fmt.Errorf("%w: sequence %d step %d has %d features, model takes %d",
					ErrShape, i, k, len(sequence[k]), r.weights.InputSize)
			}
			hidden = r.step(sequence[k], hidden)
			outputs[i][k] = r.score(hidden)
		}
	}
	return outputs, nil
}

func (r *RNN) step(input []float64, hidden []float64) []float64 {
	w := r.weights
	next := make([]float64, w.HiddenSize)
	for j := range next {
		sum := w.BH[j]
		for k, v := range input {
			sum += w.WXH[j][k] * v
		}
		for k, h := range hidden {
			sum += w.WHH[j][k] * h
		}
		next[j] = math.Tanh(sum)
	}
	return next
}

func (r *RNN) score(hidden []float64) float64 {
	sum := r.weights.BY
	for j, h := range hidden {
		sum += r.weights.WHY[j] * h
	}
	return 1 / (1 + math.Exp(-sum))
}
