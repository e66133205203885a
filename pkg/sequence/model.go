package sequence

import (
	"fmt"

	"github.com/scottkelso/PoseidonML/config"
)

// Model scores every step of a batch of session sequences
type Model interface {
	Load(path string) error
	// InputSize is the number of features taken per step, zero until loaded
	InputSize() int
	// Output returns one score per padded step of every sequence. Steps past
	// a sequence's length score zero.
	Output(x [][][]float64, lengths []int) ([][]float64, error)
}

// New builds the sequence model backend selected in the config and loads
// its weights
func New(conf *config.Config) (Model, error) {
	var model Model
	switch conf.S.SequenceModel.Backend {
	case config.RNNSequenceModel:
		model = NewRNN(conf.S.Model.RNNSize)
	default:
		return nil, fmt.Errorf("unknown sequence model backend %q", conf.S.SequenceModel.Backend)
	}

	if err := model.Load(conf.S.SequenceModel.ModelPath); err != nil {
		return nil, err
	}
	return model, nil
}
