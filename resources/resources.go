package resources

import (
	"fmt"

	"github.com/activecm/mgorus"
	"github.com/scottkelso/PoseidonML/config"
	"github.com/scottkelso/PoseidonML/database"
	log "github.com/sirupsen/logrus"
)

type (
	// Resources provides a data structure for passing system Resources
	Resources struct {
		Config *config.Config
		Log    *log.Logger
		DB     *database.DB // nil unless MongoDB.ConnectionString is set
	}
)

// InitResources grabs the configuration file and intitializes the configuration data
// returning a *Resources object which has all of the necessary configuration information
func InitResources(userConfig string) (*Resources, error) {
	conf, err := config.GetConfig(userConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Fire up the logging system
	log, err := initLogger(&conf.S.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare logger: %w", err)
	}

	// Scores are only persisted when a MongoDB server is configured
	var db *database.DB
	if conf.S.MongoDB.ConnectionString != "" {
		db, err = database.NewDB(conf, log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		//Begin logging to the database
		if conf.S.Log.LogToDB {
			log.Hooks.Add(
				mgorus.NewHookerFromSession(
					db.Session, conf.S.MongoDB.Database, conf.T.Log.LogTable,
				),
			)
		}
	}

	//bundle up the system resources
	r := &Resources{
		Config: conf,
		Log:    log,
		DB:     db,
	}
	return r, nil
}

// Close releases the database session, if any
func (r *Resources) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}
