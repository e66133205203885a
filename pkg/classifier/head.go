package classifier

import (
	"errors"
	"fmt"
	"math"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrModelShape is returned when model weights do not fit together or do
// not fit the configured model options
var ErrModelShape = errors.New("model has an unexpected shape")

// softmaxHead is the linear classification layer applied to representations
type softmaxHead struct {
	Labels  []string    `json:"labels"`
	Weights [][]float64 `json:"weights"` // one row per label
	Bias    []float64   `json:"bias"`
}

func loadHead(path string) (*softmaxHead, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	head := &softmaxHead{}
	if err := json.Unmarshal(raw, head); err != nil {
		return nil, fmt.Errorf("decoding model %s: %w", path, err)
	}

	if err := head.validate(); err != nil {
		return nil, fmt.Errorf("model %s: %w", path, err)
	}
	return head, nil
}

func (h *softmaxHead) validate() error {
	if len(h.Labels) == 0 {
		return fmt.Errorf("%w: no labels", ErrModelShape)
	}
	if len(h.Weights) != len(h.Labels) || len(h.Bias) != len(h.Labels) {
		return fmt.Errorf("%w: %d labels, %d weight rows, %d biases",
			ErrModelShape, len(h.Labels), len(h.Weights), len(h.Bias))
	}
	for i, row := range h.Weights {
		if len(row) != len(h.Weights[0]) {
			return fmt.Errorf("%w: weight row %d has %d columns, expected %d",
				ErrModelShape, i, len(row), len(h.Weights[0]))
		}
	}
	return nil
}

// inputSize is the representation length the head accepts
func (h *softmaxHead) inputSize() int {
	return len(h.Weights[0])
}

func (h *softmaxHead) classify(rep []float64) ([]float64, error) {
	if len(rep) != h.inputSize() {
		return nil, fmt.Errorf("%w: representation of length %d, expected %d",
			ErrModelShape, len(rep), h.inputSize())
	}

	logits := make([]float64, len(h.Weights))
	maxLogit := math.Inf(-1)
	for i, row := range h.Weights {
		logit := h.Bias[i]
		for j, w := range row {
			logit += w * rep[j]
		}
		logits[i] = logit
		maxLogit = math.Max(maxLogit, logit)
	}

	// shift by the largest logit so exp cannot overflow
	var total float64
	for i := range logits {
		logits[i] = math.Exp(logits[i] - maxLogit)
		total += logits[i]
	}
	for i := range logits {
		logits[i] /= total
	}
	return logits, nil
}
