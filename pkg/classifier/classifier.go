// Package classifier defines the upstream device classifier the dataset is
// built from and provides backends for it.
package classifier

import (
	"fmt"

	"github.com/scottkelso/PoseidonML/config"
	"github.com/scottkelso/PoseidonML/pkg/session"
)

type (
	// Capture is everything the classifier extracted from one capture
	Capture struct {
		// Representations holds one raw representation per timestamp
		Representations [][]float64
		// Timestamps are in non-decreasing order
		Timestamps []float64
		Sessions   []session.Descriptor
	}

	// Classifier produces representations for a capture and classifies them
	Classifier interface {
		GetRepresentation(capture string) (*Capture, error)
		ClassifyRepresentation(rep []float64) ([]float64, error)
	}
)

// New builds the classifier backend selected in the config
func New(conf *config.Config) (Classifier, error) {
	switch conf.S.Classifier.Backend {
	case config.ReplayClassifier:
		return NewReplay(conf)
	default:
		return nil, fmt.Errorf("unknown classifier backend %q", conf.S.Classifier.Backend)
	}
}
