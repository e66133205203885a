package config

import (
	"fmt"
	"math"
	"path/filepath"
	"reflect"
	"time"

	yaml "gopkg.in/yaml.v2"
)

const (
	// ReplayClassifier replays representations recorded by the upstream classifier
	ReplayClassifier = "replay"
	// RNNSequenceModel runs the session sequence model in process
	RNNSequenceModel = "rnn"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		Model         ModelStaticCfg         `yaml:",inline"`
		MongoDB       MongoDBStaticCfg       `yaml:"MongoDB"`
		Log           LogStaticCfg           `yaml:"LogConfig"`
		Classifier    ClassifierStaticCfg    `yaml:"Classifier"`
		SequenceModel SequenceModelStaticCfg `yaml:"SequenceModel"`
		Dataset       DatasetStaticCfg       `yaml:"Dataset"`
		Version       string                 `yaml:"-"`
		ExactVersion  string                 `yaml:"-"`
	}

	//ModelStaticCfg holds the model options shared with the python tooling.
	//The keys match the flat layout of opts/config.json.
	ModelStaticCfg struct {
		RNNSize      int      `yaml:"rnn size"`
		Labels       []string `yaml:"labels"`
		TimeConstant float64  `yaml:"time constant"`
		StateSize    int      `yaml:"state size"`
		Duration     float64  `yaml:"duration"`
	}

	//MongoDBStaticCfg contains the means for connecting to MongoDB
	MongoDBStaticCfg struct {
		ConnectionString string        `yaml:"ConnectionString"`
		AuthMechanism    string        `yaml:"AuthenticationMechanism"`
		SocketTimeout    time.Duration `yaml:"SocketTimeout"`
		TLS              TLSStaticCfg  `yaml:"TLS"`
		Database         string        `yaml:"Database" default:"poseidonml"`
	}

	//TLSStaticCfg contains the means for connecting to MongoDB over TLS
	TLSStaticCfg struct {
		Enabled           bool   `yaml:"Enable"`
		VerifyCertificate bool   `yaml:"VerifyCertificate"`
		CAFile            string `yaml:"CAFile"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath"`
		LogToFile bool   `yaml:"LogToFile"`
		LogToDB   bool   `yaml:"LogToDB"`
	}

	//ClassifierStaticCfg selects the representation classifier backend
	ClassifierStaticCfg struct {
		Backend         string `yaml:"Backend" default:"replay"`
		ModelPath       string `yaml:"ModelPath" default:"/models/OneLayerModel.json"`
		RecordingSuffix string `yaml:"RecordingSuffix" default:".reps.json"`
	}

	//SequenceModelStaticCfg selects the session sequence model backend
	SequenceModelStaticCfg struct {
		Backend   string `yaml:"Backend" default:"rnn"`
		ModelPath string `yaml:"ModelPath" default:"/models/SoSmodel.json"`
	}

	//DatasetStaticCfg controls capture discovery and dataset output
	DatasetStaticCfg struct {
		CaptureExtension string `yaml:"CaptureExtension" default:".pcap"`
		OutputPath       string `yaml:"OutputPath" default:"training_data.gob"`
	}
)

// parseStaticConfig parses the config file contents into the given
// StaticCfg. Fields missing from the file keep their current values.
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	err := yaml.Unmarshal(cfgFile, config)
	if err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// clean all filepaths
	for _, path := range []*string{
		&config.Log.LogPath,
		&config.Classifier.ModelPath,
		&config.SequenceModel.ModelPath,
		&config.Dataset.OutputPath,
	} {
		if *path != "" {
			*path = filepath.Clean(*path)
		}
	}

	// set the socket time out in hours
	if config.MongoDB.SocketTimeout == 0 {
		config.MongoDB.SocketTimeout = 2
	}
	config.MongoDB.SocketTimeout *= time.Hour

	return nil
}

// Validate checks the static config for values the pipeline cannot run with
func (s *StaticCfg) Validate() error {
	if err := s.Model.Validate(); err != nil {
		return err
	}

	if s.Log.LogLevel < 0 || s.Log.LogLevel > 3 {
		return fmt.Errorf("%w: LogLevel must be between 0 and 3, got %d", ErrInvalidConfig, s.Log.LogLevel)
	}

	if s.Classifier.Backend != ReplayClassifier {
		return fmt.Errorf("%w: unknown classifier backend %q", ErrInvalidConfig, s.Classifier.Backend)
	}

	if s.SequenceModel.Backend != RNNSequenceModel {
		return fmt.Errorf("%w: unknown sequence model backend %q", ErrInvalidConfig, s.SequenceModel.Backend)
	}

	return nil
}

// Validate checks the model options. "time constant", "rnn size" and
// "labels" are required; "state size" and "duration" are optional and
// disabled when zero.
func (m *ModelStaticCfg) Validate() error {
	if m.TimeConstant <= 0 || math.IsNaN(m.TimeConstant) || math.IsInf(m.TimeConstant, 0) {
		return fmt.Errorf("%w: \"time constant\" must be a positive number, got %v", ErrInvalidConfig, m.TimeConstant)
	}
	if m.RNNSize <= 0 {
		return fmt.Errorf("%w: \"rnn size\" is required and must be positive", ErrInvalidConfig)
	}
	if len(m.Labels) == 0 {
		return fmt.Errorf("%w: \"labels\" is required", ErrInvalidConfig)
	}
	if m.StateSize < 0 {
		return fmt.Errorf("%w: \"state size\" must not be negative, got %d", ErrInvalidConfig, m.StateSize)
	}
	if m.Duration < 0 || math.IsNaN(m.Duration) {
		return fmt.Errorf("%w: \"duration\" must not be negative, got %v", ErrInvalidConfig, m.Duration)
	}
	return nil
}
