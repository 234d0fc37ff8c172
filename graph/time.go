// Package graph implements a reactive time-series dataflow engine: a
// runtime that evaluates a directed graph of nodes whose edges carry
// typed, time-stamped streams.
package graph

import "time"

// Time is the engine's logical clock value. It aliases time.Time so that
// REAL_TIME mode can use wall-clock values directly, while SIMULATION mode
// is free to advance through arbitrary timestamps as fast as possible.
type Time = time.Time

// Duration is a span of logical time.
type Duration = time.Duration

// MinTD is the smallest representable tick: the unit used to order two
// events that occur at what would otherwise be the same logical instant.
const MinTD Duration = time.Nanosecond

// MinDT is the sentinel meaning "before any real time has elapsed". No
// valid engine time can compare less than this without also being equal
// to it.
var MinDT Time = time.Time{}

// MaxDT is the sentinel meaning "never". Schedulers use it to represent
// "no pending wakeup".
var MaxDT Time = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// timeLess reports whether a occurs strictly before b. It exists purely
// for readability at call sites that compare logical times.
func timeLess(a, b Time) bool { return a.Before(b) }

// minTime returns the earlier of two logical times.
func minTime(a, b Time) Time {
	if timeLess(b, a) {
		return b
	}
	return a
}
