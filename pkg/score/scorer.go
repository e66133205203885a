// Package score maps sequence model output back onto the sessions it was
// computed for.
package score

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/scottkelso/PoseidonML/pkg/session"
)

// ErrSessionMismatch is returned when a model output step has no session
var ErrSessionMismatch = errors.New("model output does not line up with sessions")

type (
	// Entry is the score of one session
	Entry struct {
		// Index counts sessions across every call to Score, starting at 1
		Index int     `json:"index"`
		Score string  `json:"score"`
		Value float64 `json:"-"`
		Flow  string  `json:"flow"`
	}

	// Summary is the state of a Scorer
	Summary struct {
		Max     float64 `json:"max"`
		Entries []Entry `json:"entries"`
	}

	// Scorer keeps a running index and maximum over every session it scores
	Scorer struct {
		mu      sync.Mutex
		count   int
		max     float64
		entries []Entry
	}
)

// NewScorer returns a Scorer with a maximum of zero
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score records one entry per step of every output. Step k of outputs[i]
// belongs to sessions[i][k]. When a step has no session nothing from the
// call is recorded.
func (s *Scorer) Score(outputs [][]float64, sessions [][]session.Info) ([]Entry, error) {
	if len(outputs) > len(sessions) {
		return nil, fmt.Errorf("%w: %d outputs for %d session lists", ErrSessionMismatch, len(outputs), len(sessions))
	}
	for i, output := range outputs {
		if len(output) > len(sessions[i]) {
			return nil, fmt.Errorf("%w: output %d has %d steps for %d sessions",
				ErrSessionMismatch, i, len(output), len(sessions[i]))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var recorded []Entry
	for i, output := range outputs {
		for k, value := range output {
			s.count++
			entry := Entry{
				Index: s.count,
				Score: strconv.FormatFloat(value, 'g', -1, 64),
				Value: value,
				Flow:  sessions[i][k].Flow(),
			}
			s.entries = append(s.entries, entry)
			recorded = append(recorded, entry)

			if value > s.max {
				s.max = value
			}
		}
	}
	return recorded, nil
}

// Max returns the largest score seen so far
func (s *Scorer) Max() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

// Summary returns the maximum score and a copy of every entry in index order
func (s *Scorer) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Summary{
		Max:     s.max,
		Entries: append([]Entry(nil), s.entries...),
	}
}
