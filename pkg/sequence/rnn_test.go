package sequence

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/scottkelso/PoseidonML/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// one hidden unit that copies the first input feature
const testWeights = `{
	"input_size": 2,
	"hidden_size": 1,
	"w_xh": [[1, 0]],
	"w_hh": [[0.5]],
	"b_h": [0],
	"w_hy": [2],
	"b_y": -1
}`

func writeWeights(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func sigmoid(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}

func TestRNNOutput(t *testing.T) {
	model := NewRNN(1)
	require.NoError(t, model.Load(writeWeights(t, testWeights)))
	assert.Equal(t, 2, model.InputSize())

	x := [][][]float64{
		{{1, 7}, {0, 7}, {0, 0}},
		{{2, 0}, {0, 0}, {0, 0}},
	}
	outputs, err := model.Output(x, []int{2, 1})
	require.NoError(t, err)
	require.Len(t, outputs, 2)
	require.Len(t, outputs[0], 3)

	h1 := math.Tanh(1)
	h2 := math.Tanh(0.5 * h1)
	assert.InDelta(t, sigmoid(2*h1-1), outputs[0][0], 1e-12)
	assert.InDelta(t, sigmoid(2*h2-1), outputs[0][1], 1e-12)
	assert.Equal(t, 0.0, outputs[0][2])

	assert.InDelta(t, sigmoid(2*math.Tanh(2)-1), outputs[1][0], 1e-12)
	assert.Equal(t, []float64{0, 0}, outputs[1][1:])
}

func TestRNNNotLoaded(t *testing.T) {
	_, err := NewRNN(1).Output([][][]float64{{{1, 2}}}, []int{1})
	assert.Equal(t, ErrNotLoaded, err)
}

func TestRNNShapeErrors(t *testing.T) {
	model := NewRNN(1)
	require.NoError(t, model.Load(writeWeights(t, testWeights)))

	_, err := model.Output([][][]float64{{{1, 2, 3}}}, []int{1})
	assert.True(t, errors.Is(err, ErrShape))

	_, err = model.Output([][][]float64{{{1, 2}}}, []int{2})
	assert.True(t, errors.Is(err, ErrShape))

	_, err = model.Output([][][]float64{{{1, 2}}}, nil)
	assert.True(t, errors.Is(err, ErrShape))
}

func TestRNNLoadValidates(t *testing.T) {
	err := NewRNN(4).Load(writeWeights(t, testWeights))
	assert.True(t, errors.Is(err, ErrShape))

	err = NewRNN(1).Load(writeWeights(t, `{"input_size": 2, "hidden_size": 1, "w_xh": [[1]], "w_hh": [[0]], "b_h": [0], "w_hy": [1]}`))
	assert.True(t, errors.Is(err, ErrShape))

	err = NewRNN(1).Load(writeWeights(t, `not json`))
	assert.Error(t, err)

	err = NewRNN(1).Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewFromConfig(t *testing.T) {
	conf, err := config.LoadTestingConfig()
	require.NoError(t, err)
	conf.S.Model.RNNSize = 1
	conf.S.SequenceModel.ModelPath = writeWeights(t, testWeights)

	model, err := New(conf)
	require.NoError(t, err)
	assert.IsType(t, &RNN{}, model)

	conf.S.SequenceModel.Backend = "lstm"
	_, err = New(conf)
	assert.Error(t, err)
}
