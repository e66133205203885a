// Package dataset pairs the sessions of each capture with the classifier
// output that governed them and persists the result as training data.
package dataset

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/scottkelso/PoseidonML/pkg/representation"
	"github.com/scottkelso/PoseidonML/pkg/session"
)

type (
	// Pair is a session together with the model outputs aligned to it
	Pair struct {
		ModelOutputs representation.ModelOutput `json:"model_outputs" bson:"model_outputs"`
		Packets      []session.Packet           `json:"packets" bson:"packets"`
		Key          string                     `json:"key" bson:"key"`
		Info         session.Info               `json:"info" bson:"info"`
	}

	// Dataset maps capture paths to the pairs built from them
	Dataset map[string][]Pair

	// CaptureSummary describes the pairs built for one capture
	CaptureSummary struct {
		Capture  string `json:"capture"`
		Pairs    int    `json:"pairs"`
		Packets  int    `json:"packets"`
		Sessions int    `json:"sessions"`
	}

	// Summary describes a dataset without its contents
	Summary struct {
		Captures []CaptureSummary `json:"captures"`
		Pairs    int              `json:"total_pairs"`
		Bytes    int64            `json:"bytes"`
	}
)

// Captures returns the capture paths of the dataset in lexical order
func (d Dataset) Captures() []string {
	captures := make([]string, 0, len(d))
	for capture := range d {
		captures = append(captures, capture)
	}
	sort.Strings(captures)
	return captures
}

// Encode writes the dataset to w as a gob stream
func (d Dataset) Encode(w io.Writer) error {
	return gob.NewEncoder(w).Encode(d)
}

// Size returns the number of bytes the encoded dataset takes up
func (d Dataset) Size() (int64, error) {
	counter := &countingWriter{}
	if err := d.Encode(counter); err != nil {
		return 0, err
	}
	return counter.n, nil
}

// Write stores the dataset at path
func (d Dataset) Write(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file '%s': %w", path, err)
	}
	defer file.Close()

	if err := d.Encode(file); err != nil {
		return fmt.Errorf("failed to encode dataset to gob for file '%s': %w", path, err)
	}
	return file.Close()
}

// Read loads a dataset stored with Write
func Read(path string) (Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data := Dataset{}
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode dataset '%s': %w", path, err)
	}
	return data, nil
}

// Summarize counts the pairs, sessions and packets of every capture
func (d Dataset) Summarize() (Summary, error) {
	size, err := d.Size()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{Bytes: size}
	for _, capture := range d.Captures() {
		pairs := d[capture]
		entry := CaptureSummary{Capture: capture, Pairs: len(pairs)}

		keys := make(map[string]struct{}, len(pairs))
		for _, pair := range pairs {
			entry.Packets += len(pair.Packets)
			keys[pair.Key] = struct{}{}
		}
		entry.Sessions = len(keys)

		summary.Pairs += entry.Pairs
		summary.Captures = append(summary.Captures, entry)
	}
	return summary, nil
}

// WriteSummary stores the dataset summary at path as indented JSON
func (d Dataset) WriteSummary(path string) error {
	summary, err := d.Summarize()
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}
	return file.Close()
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
