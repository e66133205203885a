package classifier

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/scottkelso/PoseidonML/config"
	"github.com/scottkelso/PoseidonML/pkg/session"
	"github.com/scottkelso/PoseidonML/util"
)

type (
	// Replay serves representations the upstream classifier recorded next
	// to each capture and classifies them with the linear head of the model
	Replay struct {
		suffix string
		head   *softmaxHead
	}

	// recording is the on disk layout of one capture's classifier output
	recording struct {
		Timestamps      []float64            `json:"timestamps"`
		Representations [][]float64          `json:"representations"`
		Sessions        []session.Descriptor `json:"sessions"`
	}
)

// NewReplay loads the classification head named in the config and checks
// it against the configured labels and state size
func NewReplay(conf *config.Config) (*Replay, error) {
	head, err := loadHead(conf.S.Classifier.ModelPath)
	if err != nil {
		return nil, err
	}

	if !util.StringSlicesEqual(head.Labels, conf.S.Model.Labels) {
		return nil, fmt.Errorf("%w: model labels %v do not match configured labels %v",
			config.ErrInvalidConfig, head.Labels, conf.S.Model.Labels)
	}

	stateSize := conf.S.Model.StateSize
	if stateSize > 0 && head.inputSize() != stateSize {
		return nil, fmt.Errorf("%w: model takes representations of length %d, state size is %d",
			config.ErrInvalidConfig, head.inputSize(), stateSize)
	}

	return &Replay{
		suffix: conf.S.Classifier.RecordingSuffix,
		head:   head,
	}, nil
}

// RecordingPath returns where the recording for capture is expected
func (r *Replay) RecordingPath(capture string) string {
	return capture + r.suffix
}

// GetRepresentation reads the recording for capture
func (r *Replay) GetRepresentation(capture string) (*Capture, error) {
	rec, err := r.readRecording(r.RecordingPath(capture))
	if err != nil {
		return nil, err
	}

	if len(rec.Representations) != len(rec.Timestamps) {
		return nil, fmt.Errorf("recording for %s: %d representations for %d timestamps",
			capture, len(rec.Representations), len(rec.Timestamps))
	}
	for i, rep := range rec.Representations {
		if len(rep) != r.head.inputSize() {
			return nil, fmt.Errorf("recording for %s: %w: representation %d has length %d, expected %d",
				capture, ErrModelShape, i, len(rep), r.head.inputSize())
		}
	}

	return &Capture{
		Representations: rec.Representations,
		Timestamps:      rec.Timestamps,
		Sessions:        rec.Sessions,
	}, nil
}

// ClassifyRepresentation returns the label probabilities for rep
func (r *Replay) ClassifyRepresentation(rep []float64) ([]float64, error) {
	return r.head.classify(rep)
}

// Labels returns the labels in the order of the classification vector
func (r *Replay) Labels() []string {
	return append([]string(nil), r.head.Labels...)
}

func (r *Replay) readRecording(path string) (*recording, error) {
	fileHandle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fileHandle.Close()

	var reader io.Reader = fileHandle
	if strings.HasSuffix(path, ".gz") {
		gzipReader, err := gzip.NewReader(fileHandle)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	rec := &recording{}
	if err := json.NewDecoder(reader).Decode(rec); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return rec, nil
}
