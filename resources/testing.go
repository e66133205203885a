package resources

import (
	"testing"

	"github.com/scottkelso/PoseidonML/config"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// InitTestResources creates a resource bundle from the hard coded testing
// config. Log entries are captured by the returned hook rather than printed.
func InitTestResources(t *testing.T) (*Resources, *test.Hook) {
	conf, err := config.LoadTestingConfig()
	if err != nil {
		t.Fatal(err)
	}

	logger, hook := test.NewNullLogger()
	logger.Level = log.DebugLevel

	return &Resources{
		Config: conf,
		Log:    logger,
	}, hook
}
