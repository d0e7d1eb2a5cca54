package report

import (
	"sort"
	"time"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

// LowerBound returns the first index whose sample time is not before t.
// samples must be sorted by time.
func LowerBound(samples []model.Sample, t time.Time) int {
	return sort.Search(len(samples), func(i int) bool {
		return !samples[i].FixTime.Before(t)
	})
}

// UpperBound returns the first index whose sample time is after t.
func UpperBound(samples []model.Sample, t time.Time) int {
	return sort.Search(len(samples), func(i int) bool {
		return samples[i].FixTime.After(t)
	})
}

// NearestIndex returns the index of the sample closest in time to target,
// or -1 for an empty slice. On a tie the earlier sample wins.
func NearestIndex(samples []model.Sample, target time.Time) int {
	if len(samples) == 0 {
		return -1
	}
	idx := LowerBound(samples, target)
	if idx == 0 {
		return 0
	}
	if idx == len(samples) {
		return len(samples) - 1
	}
	before := target.Sub(samples[idx-1].FixTime)
	after := samples[idx].FixTime.Sub(target)
	if before <= after {
		return idx - 1
	}
	return idx
}
