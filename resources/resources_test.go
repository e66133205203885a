package resources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scottkelso/PoseidonML/config"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerLevels(t *testing.T) {
	expected := map[int]log.Level{
		0: log.ErrorLevel,
		1: log.WarnLevel,
		2: log.InfoLevel,
		3: log.DebugLevel,
	}
	for level, exp := range expected {
		logger, err := initLogger(&config.LogStaticCfg{LogLevel: level})
		require.Nil(t, err)
		assert.Equal(t, exp, logger.Level)
		assert.Empty(t, logger.Hooks)
	}
}

func TestInitLoggerToFile(t *testing.T) {
	logDir := t.TempDir()
	logger, err := initLogger(&config.LogStaticCfg{LogLevel: 2, LogPath: logDir, LogToFile: true})
	require.Nil(t, err)
	logger.Out = os.Stderr
	logger.Info("written to file")

	runs, err := os.ReadDir(logDir)
	require.Nil(t, err)
	require.Len(t, runs, 1)
	contents, err := os.ReadFile(filepath.Join(logDir, runs[0].Name(), "info.log"))
	require.Nil(t, err)
	assert.Contains(t, string(contents), "written to file")
}

func TestInitResourcesWithoutDatabase(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.Nil(t, os.WriteFile(cfgPath, []byte(`{"rnn size": 4, "labels": ["a"], "time constant": 5}`), 0644))

	res, err := InitResources(cfgPath)
	require.Nil(t, err)
	defer res.Close()
	assert.Nil(t, res.DB)
	assert.Equal(t, 5.0, res.Config.S.Model.TimeConstant)
}

func TestInitResourcesBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	require.Nil(t, os.WriteFile(cfgPath, []byte(`{"rnn size": 4, "labels": ["a"], "time constant": 0}`), 0644))

	_, err := InitResources(cfgPath)
	assert.NotNil(t, err)
}
