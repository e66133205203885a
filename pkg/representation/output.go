package representation

import (
	"fmt"
)

// ModelOutput is the classifier output kept for one timestamp of a capture
type ModelOutput struct {
	Classification     []float64 `json:"classification" bson:"classification"`
	Representation     []float64 `json:"representation" bson:"representation"`
	MeanRepresentation []float64 `json:"mean_representation" bson:"mean_representation"`
}

// ClassifyFunc classifies an averaged representation
type ClassifyFunc func(rep []float64) ([]float64, error)

// Outputs holds the model outputs of a capture keyed by timestamp along
// with the ordered timestamps they were produced at
type Outputs struct {
	Timestamps []float64
	byTime     map[float64]ModelOutput
}

// At returns the model output recorded for the timestamp ts
func (o *Outputs) At(ts float64) (ModelOutput, bool) {
	out, ok := o.byTime[ts]
	return out, ok
}

// Len returns the number of timestamps folded
func (o *Outputs) Len() int {
	return len(o.Timestamps)
}

// Fold runs Average over the representations in order and classifies every
// running average. Representations must be given in non-decreasing time
// order; a step back in time aborts the fold with ErrOrderingViolation.
// When a timestamp repeats, the later output replaces the earlier one.
func Fold(reps [][]float64, timestamps []float64, timeConst float64, classify ClassifyFunc) (*Outputs, error) {
	if err := ValidateTimeConstant(timeConst); err != nil {
		return nil, err
	}
	if len(reps) != len(timestamps) {
		return nil, fmt.Errorf("%w: %d representations for %d timestamps",
			ErrDimensionMismatch, len(reps), len(timestamps))
	}

	outputs := &Outputs{
		Timestamps: make([]float64, 0, len(timestamps)),
		byTime:     make(map[float64]ModelOutput, len(timestamps)),
	}

	var prevRep []float64
	var prevTime float64
	for i, ts := range timestamps {
		rep := reps[i]
		newRep, newTime, err := Average(rep, ts, prevRep, prevTime, timeConst)
		if err != nil {
			return nil, fmt.Errorf("representation %d: %w", i, err)
		}

		preds, err := classify(newRep)
		if err != nil {
			return nil, fmt.Errorf("classifying representation %d: %w", i, err)
		}

		outputs.Timestamps = append(outputs.Timestamps, ts)
		outputs.byTime[ts] = ModelOutput{
			Classification:     preds,
			Representation:     append([]float64(nil), rep...),
			MeanRepresentation: append([]float64(nil), newRep...),
		}
		prevRep, prevTime = newRep, newTime
	}

	return outputs, nil
}
