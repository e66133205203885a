package score

import "time"

type (
	// Repository stores score records
	Repository interface {
		CreateIndexes() error
		Insert(runID string, records []Record) error
		InsertRun(run RunInfo) error
	}

	// RunInfo describes one evaluation run
	RunInfo struct {
		RunID    string    `bson:"run_id"`
		Captures []string  `bson:"captures"`
		Sessions int       `bson:"sessions"`
		MaxScore float64   `bson:"max_score"`
		Version  string    `bson:"version"` // PoseidonML version that scored the run
		Time     time.Time `bson:"time"`
	}

	// Record is an entry together with the capture it was scored from
	Record struct {
		Capture string
		Entry
	}

	// scoreDoc is the stored form of a Record
	scoreDoc struct {
		RunID     string    `bson:"run_id"`
		Capture   string    `bson:"capture"`
		Index     int       `bson:"index"`
		Score     float64   `bson:"score"`
		Flow      string    `bson:"flow"`
		CreatedAt time.Time `bson:"created_at"`
	}
)
