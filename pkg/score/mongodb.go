package score

import (
	"time"

	"github.com/scottkelso/PoseidonML/config"
	"github.com/scottkelso/PoseidonML/database"

	"github.com/globalsign/mgo"
	log "github.com/sirupsen/logrus"
)

// documents per bulk insert
const bulkSize = 500

type repo struct {
	database *database.DB
	config   *config.Config
	log      *log.Logger
}

//NewMongoRepository create new repository
func NewMongoRepository(db *database.DB, conf *config.Config, logger *log.Logger) Repository {
	return &repo{
		database: db,
		config:   conf,
		log:      logger,
	}
}

func (r *repo) CreateIndexes() error {
	indexes := []mgo.Index{
		{Key: []string{"-score"}},
		{Key: []string{"run_id", "index"}, Unique: true},
	}
	err := r.database.CreateCollection(r.config.T.Score.ScoreTable, indexes)
	if err != nil {
		return err
	}

	runIndexes := []mgo.Index{
		{Key: []string{"run_id"}, Unique: true},
		{Key: []string{"-time"}},
	}
	return r.database.CreateCollection(r.config.T.Score.RunTable, runIndexes)
}

//InsertRun records the metadata of an evaluation run
func (r *repo) InsertRun(run RunInfo) error {
	ssn := r.database.Session.Copy()
	defer ssn.Close()

	if run.Time.IsZero() {
		run.Time = time.Now().UTC()
	}
	return ssn.DB(r.database.GetSelectedDB()).C(r.config.T.Score.RunTable).Insert(run)
}

//Insert stores the records of one evaluation run
func (r *repo) Insert(runID string, records []Record) error {
	ssn := r.database.Session.Copy()
	defer ssn.Close()

	coll := ssn.DB(r.database.GetSelectedDB()).C(r.config.T.Score.ScoreTable)
	now := time.Now().UTC()

	bulk := coll.Bulk()
	bulk.Unordered()
	count := 0
	for _, record := range records {
		bulk.Insert(scoreDoc{
			RunID:     runID,
			Capture:   record.Capture,
			Index:     record.Index,
			Score:     record.Value,
			Flow:      record.Flow,
			CreatedAt: now,
		})
		count++

		// keep each bulk well under the 16MB limit
		if count >= bulkSize {
			info, err := bulk.Run()
			if err != nil {
				r.log.WithFields(log.Fields{
					"Module": "score",
					"Info":   info,
				}).Error(err)
				return err
			}
			bulk = coll.Bulk()
			bulk.Unordered()
			count = 0
		}
	}

	if count > 0 {
		info, err := bulk.Run()
		if err != nil {
			r.log.WithFields(log.Fields{
				"Module": "score",
				"Info":   info,
			}).Error(err)
			return err
		}
	}

	r.log.WithFields(log.Fields{
		"Module":  "score",
		"run_id":  runID,
		"records": len(records),
	}).Debug("Stored scores")
	return nil
}
