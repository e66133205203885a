package classifier

import (
	"compress/gzip"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/scottkelso/PoseidonML/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHead = `{
	"labels": ["Workstation", "Server", "Printer"],
	"weights": [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
	"bias": [0, 0, 0]
}`

const testRecording = `{
	"timestamps": [0, 10, 25],
	"representations": [[1, 0, 0], [0, 1, 0], [0, 0, 1]],
	"sessions": [{
		"protocol": "06",
		"source": "192.168.1.2:5000",
		"destination": "8.8.8.8:443",
		"initiated_by_source": true,
		"key": "flow-1",
		"packets": [{"ts": 12, "length": 60}, {"ts": 13, "length": 1500}]
	}]
}`

func writeFile(t *testing.T, path string, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func testReplay(t *testing.T, head string) (*config.Config, *Replay, string) {
	t.Helper()
	dir := t.TempDir()

	conf, err := config.LoadTestingConfig()
	require.NoError(t, err)
	conf.S.Classifier.ModelPath = filepath.Join(dir, "model.json")
	writeFile(t, conf.S.Classifier.ModelPath, head)

	replay, err := NewReplay(conf)
	require.NoError(t, err)
	return conf, replay, dir
}

func TestReplayGetRepresentation(t *testing.T) {
	_, replay, dir := testReplay(t, testHead)
	capture := filepath.Join(dir, "capture.pcap")
	writeFile(t, replay.RecordingPath(capture), testRecording)

	result, err := replay.GetRepresentation(capture)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 25}, result.Timestamps)
	assert.Len(t, result.Representations, 3)
	require.Len(t, result.Sessions, 1)

	sess := result.Sessions[0]
	assert.Equal(t, "06", sess.Protocol)
	assert.Equal(t, "flow-1", sess.Key)
	assert.True(t, sess.InitiatedBySource)
	assert.Equal(t, 1560, sess.TotalBytes())
}

func TestReplayGzipRecording(t *testing.T) {
	conf, err := config.LoadTestingConfig()
	require.NoError(t, err)
	dir := t.TempDir()
	conf.S.Classifier.ModelPath = filepath.Join(dir, "model.json")
	conf.S.Classifier.RecordingSuffix = ".reps.json.gz"
	writeFile(t, conf.S.Classifier.ModelPath, testHead)

	replay, err := NewReplay(conf)
	require.NoError(t, err)

	capture := filepath.Join(dir, "capture.pcap")
	fileHandle, err := os.Create(replay.RecordingPath(capture))
	require.NoError(t, err)
	gzipWriter := gzip.NewWriter(fileHandle)
	_, err = gzipWriter.Write([]byte(testRecording))
	require.NoError(t, err)
	require.NoError(t, gzipWriter.Close())
	require.NoError(t, fileHandle.Close())

	result, err := replay.GetRepresentation(capture)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 10, 25}, result.Timestamps)
}

func TestReplayMissingRecording(t *testing.T) {
	_, replay, dir := testReplay(t, testHead)
	_, err := replay.GetRepresentation(filepath.Join(dir, "missing.pcap"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestReplayRejectsMalformedRecording(t *testing.T) {
	_, replay, dir := testReplay(t, testHead)

	capture := filepath.Join(dir, "short.pcap")
	writeFile(t, replay.RecordingPath(capture), `{"timestamps": [1, 2], "representations": [[1, 0, 0]]}`)
	_, err := replay.GetRepresentation(capture)
	assert.Error(t, err)

	capture = filepath.Join(dir, "narrow.pcap")
	writeFile(t, replay.RecordingPath(capture), `{"timestamps": [1], "representations": [[1, 0]]}`)
	_, err = replay.GetRepresentation(capture)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrModelShape))
}

func TestClassifyRepresentation(t *testing.T) {
	_, replay, _ := testReplay(t, testHead)

	probs, err := replay.ClassifyRepresentation([]float64{2, 0, 0})
	require.NoError(t, err)
	require.Len(t, probs, 3)

	var total float64
	for _, p := range probs {
		total += p
	}
	assert.InDelta(t, 1, total, 1e-12)

	denom := math.Exp(2) + 2
	assert.InDelta(t, math.Exp(2)/denom, probs[0], 1e-12)
	assert.InDelta(t, 1/denom, probs[1], 1e-12)
	assert.Equal(t, []string{"Workstation", "Server", "Printer"}, replay.Labels())

	_, err = replay.ClassifyRepresentation([]float64{1})
	assert.True(t, errors.Is(err, ErrModelShape))
}

func TestClassifyLargeLogits(t *testing.T) {
	_, replay, _ := testReplay(t, testHead)

	probs, err := replay.ClassifyRepresentation([]float64{1000, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 1, probs[0], 1e-12)
	assert.False(t, math.IsNaN(probs[1]))
}

func TestNewReplayValidatesModel(t *testing.T) {
	cases := map[string]string{
		"labels":     `{"labels": ["Server"], "weights": [[1, 0, 0]], "bias": [0]}`,
		"state size": `{"labels": ["Workstation", "Server", "Printer"], "weights": [[1], [0], [0]], "bias": [0, 0, 0]}`,
	}

	for name, head := range cases {
		conf, err := config.LoadTestingConfig()
		require.NoError(t, err)
		conf.S.Classifier.ModelPath = filepath.Join(t.TempDir(), "model.json")
		writeFile(t, conf.S.Classifier.ModelPath, head)

		_, err = NewReplay(conf)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, config.ErrInvalidConfig), name)
	}
}

func TestNewReplayMalformedModel(t *testing.T) {
	cases := []string{
		`{"labels": [], "weights": [], "bias": []}`,
		`{"labels": ["Workstation", "Server", "Printer"], "weights": [[1, 0, 0]], "bias": [0, 0, 0]}`,
		`{"labels": ["Workstation", "Server", "Printer"], "weights": [[1, 0, 0], [1], [1, 0, 0]], "bias": [0, 0, 0]}`,
	}

	for _, head := range cases {
		conf, err := config.LoadTestingConfig()
		require.NoError(t, err)
		conf.S.Classifier.ModelPath = filepath.Join(t.TempDir(), "model.json")
		writeFile(t, conf.S.Classifier.ModelPath, head)

		_, err = NewReplay(conf)
		require.Error(t, err, head)
		assert.True(t, errors.Is(err, ErrModelShape), head)
	}
}

func TestNewUnknownBackend(t *testing.T) {
	conf, err := config.LoadTestingConfig()
	require.NoError(t, err)
	conf.S.Classifier.Backend = "forest"
	_, err = New(conf)
	assert.Error(t, err)
}
