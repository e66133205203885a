package dataset

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/scottkelso/PoseidonML/config"
	"github.com/scottkelso/PoseidonML/pkg/classifier"
	"github.com/scottkelso/PoseidonML/pkg/representation"
	"github.com/scottkelso/PoseidonML/pkg/session"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
	"github.com/vbauerster/mpb"
	"github.com/vbauerster/mpb/decor"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// ErrAlignment is logged for a session that cannot be aligned to a
	// representation
	ErrAlignment = errors.New("session cannot be aligned")

	// ErrCapturesFailed is returned alongside the partial dataset when one
	// or more captures could not be processed
	ErrCapturesFailed = errors.New("captures failed")
)

// Assembler builds datasets out of captures with the help of a classifier
type Assembler struct {
	classifier classifier.Classifier
	timeConst  float64
	log        *log.Logger
	progress   io.Writer
}

// NewAssembler validates the time constant and returns an Assembler
func NewAssembler(c classifier.Classifier, conf *config.Config, logger *log.Logger) (*Assembler, error) {
	if err := representation.ValidateTimeConstant(conf.S.Model.TimeConstant); err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	return &Assembler{
		classifier: c,
		timeConst:  conf.S.Model.TimeConstant,
		log:        logger,
	}, nil
}

// WithProgress draws a progress bar to w while assembling
func (a *Assembler) WithProgress(w io.Writer) *Assembler {
	a.progress = w
	return a
}

// Assemble processes every capture in order. A capture that fails is logged
// and left out; the dataset built from the others is still returned along
// with an error wrapping ErrCapturesFailed.
func (a *Assembler) Assemble(capturePaths []string) (Dataset, error) {
	data := make(Dataset, len(capturePaths))

	var p *mpb.Progress
	var bar *mpb.Bar
	if a.progress != nil {
		p = mpb.New(mpb.WithWidth(20), mpb.WithOutput(a.progress))
		bar = p.AddBar(int64(len(capturePaths)),
			mpb.PrependDecorators(
				decor.Name("\t[-] Assembling Dataset:", decor.WC{W: 30, C: decor.DidentRight}),
				decor.CountersNoUnit(" %d / %d ", decor.WCSyncWidth),
			),
			mpb.AppendDecorators(decor.Percentage()),
		)
	}

	failed := 0
	for _, capture := range capturePaths {
		a.log.WithFields(log.Fields{
			"Module":  "dataset",
			"capture": capture,
		}).Info("Working on capture")

		pairs, err := a.AssembleCapture(capture)
		if err != nil {
			a.log.WithFields(log.Fields{
				"Module":  "dataset",
				"capture": capture,
				"error":   err.Error(),
			}).Error("Skipping capture")
			failed++
		} else {
			data[capture] = pairs
		}

		if bar != nil {
			bar.IncrBy(1)
		}
	}
	if p != nil {
		p.Wait()
	}

	a.logSize(data)

	if failed > 0 {
		return data, fmt.Errorf("%w: %d of %d", ErrCapturesFailed, failed, len(capturePaths))
	}
	return data, nil
}

// AssembleCapture pairs every session of one capture with the model output
// of the latest representation preceding it.
//
// A capture without representations yields no pairs. Sessions without
// packets are logged and skipped.
func (a *Assembler) AssembleCapture(capture string) ([]Pair, error) {
	result, err := a.classifier.GetRepresentation(capture)
	if err != nil {
		return nil, fmt.Errorf("getting representations: %w", err)
	}

	outputs, err := representation.Fold(
		result.Representations, result.Timestamps, a.timeConst, a.classifier.ClassifyRepresentation,
	)
	if err != nil {
		return nil, err
	}

	source := session.Source(result.Sessions)
	sessions := session.Clean(result.Sessions, source)

	pairs := make([]Pair, 0, len(sessions))
	if outputs.Len() == 0 {
		if len(sessions) > 0 {
			a.log.WithFields(log.Fields{
				"Module":   "dataset",
				"capture":  capture,
				"sessions": len(sessions),
				"error":    representation.ErrNoRepresentations.Error(),
			}).Warn("Capture has sessions but no representations")
		}
		return pairs, nil
	}

	for _, sess := range sessions {
		pair, err := a.pair(sess, outputs)
		if err != nil {
			a.log.WithFields(log.Fields{
				"Module":  "dataset",
				"capture": capture,
				"key":     sess.Key,
				"error":   err.Error(),
			}).Error("Skipping session")
			continue
		}
		pairs = append(pairs, pair)
	}

	a.log.WithFields(log.Fields{
		"Module":  "dataset",
		"capture": capture,
		"source":  source,
		"pairs":   len(pairs),
	}).Debug("Assembled capture")

	return pairs, nil
}

func (a *Assembler) pair(sess session.Descriptor, outputs *representation.Outputs) (Pair, error) {
	firstTime, ok := sess.FirstPacketTime()
	if !ok {
		return Pair{}, fmt.Errorf("%w: session %s has no packets", ErrAlignment, sess.Key)
	}

	priorTime, err := representation.Align(firstTime, outputs.Timestamps)
	if err != nil {
		return Pair{}, fmt.Errorf("%w: %v", ErrAlignment, err)
	}

	modelOutputs, ok := outputs.At(priorTime)
	if !ok {
		return Pair{}, fmt.Errorf("%w: no model output at %v", ErrAlignment, priorTime)
	}

	return Pair{
		ModelOutputs: modelOutputs,
		Packets:      sess.Packets,
		Key:          sess.Key,
		Info:         sess.Info,
	}, nil
}

func (a *Assembler) logSize(data Dataset) {
	size, err := data.Size()
	if err != nil {
		a.log.WithFields(log.Fields{
			"Module": "dataset",
			"error":  err.Error(),
		}).Warn("Could not measure training data")
		return
	}

	a.log.WithFields(log.Fields{
		"Module":   "dataset",
		"captures": len(data),
	}).Infof("created training data of size %.3f mb", math.Round(float64(size)/1000)/1000)
}
