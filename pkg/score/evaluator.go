package score

import (
	"errors"
	"fmt"

	"github.com/scottkelso/PoseidonML/config"
	"github.com/scottkelso/PoseidonML/pkg/dataset"
	"github.com/scottkelso/PoseidonML/pkg/sequence"
	"github.com/scottkelso/PoseidonML/pkg/session"

	log "github.com/sirupsen/logrus"
)

// ErrNothingToScore is returned when none of the captures could be scored
var ErrNothingToScore = errors.New("no capture could be scored")

// Evaluator scores the sessions of captures with a sequence model
type Evaluator struct {
	assembler *dataset.Assembler
	model     sequence.Model
	scorer    *Scorer
	duration  float64
	log       *log.Logger
}

// NewEvaluator returns an Evaluator that assembles captures with assembler
// and scores them with model
func NewEvaluator(assembler *dataset.Assembler, model sequence.Model, conf *config.Config, logger *log.Logger) *Evaluator {
	return &Evaluator{
		assembler: assembler,
		model:     model,
		scorer:    NewScorer(),
		duration:  conf.S.Model.Duration,
		log:       logger,
	}
}

// Evaluate scores every session of the given captures. Each capture is one
// element of the model batch and its outputs are trimmed to its length
// before scoring. Captures that fail to assemble are logged and skipped.
func (e *Evaluator) Evaluate(captures []string) ([]Record, error) {
	var kept []string
	var pairs [][]dataset.Pair
	for _, capture := range captures {
		capturePairs, err := e.assembler.AssembleCapture(capture)
		if err != nil {
			e.log.WithFields(log.Fields{
				"Module":  "score",
				"capture": capture,
				"error":   err.Error(),
			}).Error("Skipping capture")
			continue
		}
		kept = append(kept, capture)
		pairs = append(pairs, capturePairs)
	}
	if len(kept) == 0 {
		return nil, ErrNothingToScore
	}

	batch, err := sequence.BuildBatch(pairs, e.duration)
	if err != nil {
		return nil, err
	}
	if batch.Steps() > 0 && batch.Features() != e.model.InputSize() {
		return nil, fmt.Errorf("%w: sessions have %d features, sequence model takes %d",
			sequence.ErrShape, batch.Features(), e.model.InputSize())
	}

	outputs, err := e.model.Output(batch.X, batch.Lengths)
	if err != nil {
		return nil, fmt.Errorf("running sequence model: %w", err)
	}
	if len(outputs) != len(kept) {
		return nil, fmt.Errorf("%w: model returned %d outputs for %d captures",
			ErrSessionMismatch, len(outputs), len(kept))
	}

	var records []Record
	for i, capture := range kept {
		length := batch.Lengths[i]
		if len(outputs[i]) != batch.Steps() {
			return nil, fmt.Errorf("%w: capture %s has %d padded steps but %d outputs",
				ErrSessionMismatch, capture, batch.Steps(), len(outputs[i]))
		}

		entries, err := e.scorer.Score(
			[][]float64{outputs[i][:length]},
			[][]session.Info{batch.Sessions[i]},
		)
		if err != nil {
			return nil, fmt.Errorf("capture %s: %w", capture, err)
		}

		for _, entry := range entries {
			records = append(records, Record{Capture: capture, Entry: entry})
		}

		e.log.WithFields(log.Fields{
			"Module":   "score",
			"capture":  capture,
			"sessions": length,
		}).Debug("Scored capture")
	}

	return records, nil
}

// Summary returns the maximum score and every entry scored so far
func (e *Evaluator) Summary() Summary {
	return e.scorer.Summary()
}
