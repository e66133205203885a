// Package representation smooths the per timestamp representations produced
// by the upstream classifier and aligns sessions to them.
package representation

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidTimeConstant is returned for a time constant that is not a
	// positive finite number. It is a configuration error.
	ErrInvalidTimeConstant = errors.New("time constant must be a positive number")

	// ErrOrderingViolation is returned when a representation is older than
	// the average it is folded into
	ErrOrderingViolation = errors.New("representation timestamps are not in increasing order")

	// ErrDimensionMismatch is returned when two representations differ in length
	ErrDimensionMismatch = errors.New("representation lengths differ")
)

// ValidateTimeConstant checks that timeConst can be used as an EWMA decay constant
func ValidateTimeConstant(timeConst float64) error {
	if timeConst <= 0 || math.IsNaN(timeConst) || math.IsInf(timeConst, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimeConstant, timeConst)
	}
	return nil
}

// Average folds rep, observed at ts, into the exponentially weighted moving
// average prevRep last updated at prevTs. A nil prevRep means there is no
// history and rep is returned as the average. The returned slice never
// aliases prevRep.
//
// The update weight is 1 - exp(-(ts-prevTs)/timeConst), so a larger time
// constant adapts more slowly.
func Average(rep []float64, ts float64, prevRep []float64, prevTs float64, timeConst float64) ([]float64, float64, error) {
	if err := ValidateTimeConstant(timeConst); err != nil {
		return nil, 0, err
	}

	if prevRep == nil {
		return rep, ts, nil
	}

	if len(rep) != len(prevRep) {
		return nil, 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(rep), len(prevRep))
	}

	deltaT := ts - prevTs
	if deltaT < 0 || math.IsNaN(deltaT) {
		return nil, 0, fmt.Errorf("%w: %v precedes %v", ErrOrderingViolation, ts, prevTs)
	}

	alpha := -math.Expm1(-deltaT / timeConst)

	newRep := make([]float64, len(rep))
	for i := range rep {
		newRep[i] = prevRep[i] + alpha*(rep[i]-prevRep[i])
	}
	return newRep, ts, nil
}
