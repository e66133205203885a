// Package sequence turns aligned sessions into model input and scores them
// with a session sequence model.
package sequence

import (
	"errors"
	"fmt"
	"math"

	"github.com/scottkelso/PoseidonML/pkg/dataset"
	"github.com/scottkelso/PoseidonML/pkg/session"
)

// SessionFeatures is the number of session statistics appended to the
// representation of every step
const SessionFeatures = 4

// ErrShape is returned when input does not fit together or does not fit
// the model
var ErrShape = errors.New("unexpected input shape")

// Batch is a zero padded set of session sequences, one per capture
type Batch struct {
	// X is indexed by capture, step and feature
	X [][][]float64
	// Lengths holds the number of real steps of each capture
	Lengths []int
	// Sessions describe the real steps of each capture
	Sessions [][]session.Info
}

// Steps is the padded sequence length of the batch
func (b *Batch) Steps() int {
	if len(b.X) == 0 {
		return 0
	}
	return len(b.X[0])
}

// Features is the number of features of every step, zero for an empty batch
func (b *Batch) Features() int {
	if b.Steps() == 0 {
		return 0
	}
	return len(b.X[0][0])
}

// BuildBatch builds one sequence per capture from its pairs. Each step is
// the mean representation aligned to a session followed by the session's
// statistics. maxDuration scales session durations; a value <= 0 leaves
// the duration feature at zero.
func BuildBatch(captures [][]dataset.Pair, maxDuration float64) (*Batch, error) {
	batch := &Batch{
		X:        make([][][]float64, len(captures)),
		Lengths:  make([]int, len(captures)),
		Sessions: make([][]session.Info, len(captures)),
	}

	steps := 0
	featureSize := -1
	for i, pairs := range captures {
		batch.Lengths[i] = len(pairs)
		if len(pairs) > steps {
			steps = len(pairs)
		}

		batch.X[i] = make([][]float64, 0, len(pairs))
		batch.Sessions[i] = make([]session.Info, 0, len(pairs))
		for k, pair := range pairs {
			features := stepFeatures(pair, maxDuration)
			if featureSize < 0 {
				featureSize = len(features)
			} else if len(features) != featureSize {
				return nil, fmt.Errorf("%w: capture %d step %d has %d features, expected %d",
					ErrShape, i, k, len(features), featureSize)
			}
			batch.X[i] = append(batch.X[i], features)
			batch.Sessions[i] = append(batch.Sessions[i], pair.Info)
		}
	}

	if featureSize < 0 {
		featureSize = SessionFeatures
	}
	for i := range batch.X {
		for len(batch.X[i]) < steps {
			batch.X[i] = append(batch.X[i], make([]float64, featureSize))
		}
	}

	return batch, nil
}

func stepFeatures(pair dataset.Pair, maxDuration float64) []float64 {
	desc := session.Descriptor{Packets: pair.Packets}

	features := make([]float64, 0, len(pair.ModelOutputs.MeanRepresentation)+SessionFeatures)
	features = append(features, pair.ModelOutputs.MeanRepresentation...)

	var duration float64
	if maxDuration > 0 {
		duration = math.Min(desc.Duration()/maxDuration, 1)
	}

	var initiated float64
	if pair.Info.InitiatedBySource {
		initiated = 1
	}

	return append(features,
		math.Log1p(float64(len(pair.Packets))),
		math.Log1p(float64(desc.TotalBytes())),
		duration,
		initiated,
	)
}
