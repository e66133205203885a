package representation

import (
	"errors"
	"math"
	"sort"
)

// ErrNoRepresentations is returned when a session has to be aligned but the
// capture produced no representation timestamps
var ErrNoRepresentations = errors.New("no representations available")

// Align returns the latest timestamp strictly before sessionStart.
// When the session starts at or before every timestamp the first timestamp
// is used instead, as it is for a NaN sessionStart which no timestamp
// precedes. timestamps must be sorted in non-decreasing order.
func Align(sessionStart float64, timestamps []float64) (float64, error) {
	if len(timestamps) == 0 {
		return 0, ErrNoRepresentations
	}
	if math.IsNaN(sessionStart) {
		return timestamps[0], nil
	}

	// index of the first timestamp that does not precede the session
	idx := sort.Search(len(timestamps), func(i int) bool {
		return timestamps[i] >= sessionStart
	})

	if idx == 0 {
		return timestamps[0], nil
	}
	return timestamps[idx-1], nil
}
