// +build integration

package score

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/scottkelso/PoseidonML/database"
	"github.com/scottkelso/PoseidonML/resources"

	"github.com/globalsign/mgo/bson"
	"github.com/globalsign/mgo/dbtest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Server holds the dbtest DBServer
var Server dbtest.DBServer

func TestInsert(t *testing.T) {
	res, _ := resources.InitTestResources(t)
	res.DB = database.FromSession(Server.Session(), res.Config.S.MongoDB.Database, res.Log)
	defer res.DB.Close()

	testRepo := NewMongoRepository(res.DB, res.Config, res.Log)
	require.NoError(t, testRepo.CreateIndexes())

	runID := uuid.New().String()
	records := make([]Record, 0, bulkSize+10)
	for i := 1; i <= bulkSize+10; i++ {
		records = append(records, Record{
			Capture: "capture.pcap",
			Entry:   Entry{Index: i, Value: float64(i) / 1000, Flow: "TCP A to B"},
		})
	}
	require.NoError(t, testRepo.Insert(runID, records))

	ssn := res.DB.Session.Copy()
	defer ssn.Close()
	coll := ssn.DB(res.DB.GetSelectedDB()).C(res.Config.T.Score.ScoreTable)

	count, err := coll.Find(bson.M{"run_id": runID}).Count()
	require.NoError(t, err)
	assert.Equal(t, len(records), count)

	var top scoreDoc
	require.NoError(t, coll.Find(bson.M{"run_id": runID}).Sort("-score").One(&top))
	assert.Equal(t, bulkSize+10, top.Index)

	require.NoError(t, testRepo.InsertRun(RunInfo{
		RunID:    runID,
		Captures: []string{"capture.pcap"},
		Sessions: len(records),
		MaxScore: top.Score,
		Version:  res.Config.S.ExactVersion,
	}))

	var run RunInfo
	runs := ssn.DB(res.DB.GetSelectedDB()).C(res.Config.T.Score.RunTable)
	require.NoError(t, runs.Find(bson.M{"run_id": runID}).One(&run))
	assert.Equal(t, len(records), run.Sessions)
	assert.Equal(t, "v0.0.0+testing", run.Version)
	assert.False(t, run.Time.IsZero())

	// run ids are unique
	assert.Error(t, testRepo.InsertRun(RunInfo{RunID: runID}))
}

// TestMain wraps all tests with the needed initialized mock DB and fixtures
func TestMain(m *testing.M) {
	// Store temporary databases files in a temporary directory
	tempDir, _ := ioutil.TempDir("", "testing")
	Server.SetPath(tempDir)

	// Run the test suite
	retCode := m.Run()

	// Shut down the temporary server and removes data on disk.
	Server.Stop()

	// call with result of m.Run()
	os.Exit(retCode)
}
