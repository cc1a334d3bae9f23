package effect

import (
	"time"

	"github.com/rickb777/date/v2/timespan"
)

// TimeSpan is the interval type used to report how long an aggregation run
// stayed in flight.
type TimeSpan = timespan.TimeSpan

// NewTimeSpan returns the span between two instants.
func NewTimeSpan(from, to time.Time) TimeSpan {
	return timespan.BetweenTimes(from, to)
}
