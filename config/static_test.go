package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const staticConfigParserTestConfig = `
rnn size: 100
labels: [Workstation, Server]
time constant: 86400
state size: 32
duration: 900
MongoDB:
    ConnectionString: mongodb://localhost:27017
    AuthenticationMechanism: null
    SocketTimeout: 2
    TLS:
        Enable: false
        VerifyCertificate: false
        CAFile: aaaaa
    Database: PoseidonML
LogConfig:
    LogLevel: 2
    LogPath: /var/lib/poseidonml/logs
    LogToFile: true
    LogToDB: true
Classifier:
    Backend: replay
    ModelPath: /models/OneLayerModel.json
    RecordingSuffix: .reps.json
SequenceModel:
    Backend: rnn
    ModelPath: /models/SoSmodel.json
Dataset:
    CaptureExtension: .pcap
    OutputPath: /data/training_data.gob
`

var testConfigFullExp = StaticCfg{
	Model: ModelStaticCfg{
		RNNSize:      100,
		Labels:       []string{"Workstation", "Server"},
		TimeConstant: 86400,
		StateSize:    32,
		Duration:     900,
	},
	MongoDB: MongoDBStaticCfg{
		ConnectionString: "mongodb://localhost:27017",
		AuthMechanism:    "",
		SocketTimeout:    2 * time.Hour,
		TLS: TLSStaticCfg{
			Enabled:           false,
			VerifyCertificate: false,
			CAFile:            "aaaaa",
		},
		Database: "PoseidonML",
	},
	Log: LogStaticCfg{
		LogLevel:  2,
		LogPath:   "/var/lib/poseidonml/logs",
		LogToFile: true,
		LogToDB:   true,
	},
	Classifier: ClassifierStaticCfg{
		Backend:         "replay",
		ModelPath:       "/models/OneLayerModel.json",
		RecordingSuffix: ".reps.json",
	},
	SequenceModel: SequenceModelStaticCfg{
		Backend:   "rnn",
		ModelPath: "/models/SoSmodel.json",
	},
	Dataset: DatasetStaticCfg{
		CaptureExtension: ".pcap",
		OutputPath:       "/data/training_data.gob",
	},
}

// TestParseStaticConfig ensures that a yaml config
// string is correctly converted into a StaticCfg struct.
func TestParseStaticConfig(t *testing.T) {
	config := &StaticCfg{}
	err := parseStaticConfig([]byte(staticConfigParserTestConfig), config)

	assert.Nil(t, err)
	assert.Equal(t, testConfigFullExp, *config)
	assert.Nil(t, config.Validate())
}

// TestFilePathCleaning ensures that paths specified
// in a config file are cleaned up correctly.
func TestFilePathCleaning(t *testing.T) {
	testConfig := `
LogConfig:
    LogPath: /var/lib/poseidonml/incorrect/./../logs/
SequenceModel:
    ModelPath: /models//SoSmodel.json
`
	testConfigExp := StaticCfg{
		MongoDB: MongoDBStaticCfg{
			SocketTimeout: 2 * time.Hour,
		},
		Log: LogStaticCfg{
			LogPath: "/var/lib/poseidonml/logs",
		},
		SequenceModel: SequenceModelStaticCfg{
			ModelPath: "/models/SoSmodel.json",
		},
	}
	config := &StaticCfg{}
	err := parseStaticConfig([]byte(testConfig), config)

	assert.Nil(t, err)
	assert.Equal(t, testConfigExp, *config)
}
