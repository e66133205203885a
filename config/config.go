package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"

	"github.com/creasty/defaults"
)

// Version is filled at compile time with the git version of PoseidonML
var Version = "undefined"

// ExactVersion is filled at compile time with the git version of PoseidonML
var ExactVersion = "undefined"

// ErrInvalidConfig is wrapped by every configuration validation failure.
// Configuration errors are fatal and abort before any capture is processed.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
		T TableCfg
	}
)

// GetConfig retrieves a configuration in order of precedence
func GetConfig(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		return LoadConfig(cfgPath)
	}

	// Get the user's homedir
	user, err := user.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not get user info: %s\n", err.Error())
	} else {
		userCfg := filepath.Join(user.HomeDir, ".poseidonml", "config.yaml")
		if _, err := os.Stat(userCfg); err == nil {
			return LoadConfig(userCfg)
		}
	}

	// If none of the other configs have worked, go for the global config
	return LoadConfig("/etc/poseidonml/config.yaml")
}

// LoadConfig initializes a Config struct with values read
// from the given config file. The file may be YAML or the flat JSON
// layout used by opts/config.json.
func LoadConfig(cfgPath string) (*Config, error) {
	config := &Config{}

	// Initialize table config to the default values
	if err := defaults.Set(&config.T); err != nil {
		return nil, err
	}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	cfgFile, err := os.ReadFile(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := parseStaticConfig(cfgFile, &config.S); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", cfgPath, err)
	}

	config.S.Version = Version
	config.S.ExactVersion = ExactVersion

	if err := config.S.Validate(); err != nil {
		return nil, err
	}

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String && f.CanSet() {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
