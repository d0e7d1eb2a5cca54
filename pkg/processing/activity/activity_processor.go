package activity

import (
	"errors"
	"time"

	"github.com/quicktrack/fleetcontrol-service-go/pkg/model"
)

// ErrUnorderedInput is returned in strict mode when samples are not in
// non-decreasing time order.
var ErrUnorderedInput = errors.New("samples not in non-decreasing time order")

const secondsPerDay = 24 * 3600

// Segmenter converts an ordered sample stream of one vehicle into per-day
// active seconds and moving segments. A moving block opens on the first
// sample at or above MinSpeedKmh and is closed by a data gap, by a
// sufficiently long idle phase or by the end of the stream. Retained blocks
// are split at midnight so no segment ever crosses a day boundary.
type Segmenter struct {
	cfg    model.ActivityConfig
	strict bool
}

type Option func(s *Segmenter)

func WithConfig(cfg model.ActivityConfig) Option {
	return func(s *Segmenter) {
		s.cfg = cfg
	}
}

// WithStrictOrdering makes Segment fail with ErrUnorderedInput instead of
// silently producing unspecified results on out-of-order samples.
func WithStrictOrdering() Option {
	return func(s *Segmenter) {
		s.strict = true
	}
}

func NewSegmenter(opts ...Option) *Segmenter {
	ret := &Segmenter{}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Segment performs a single linear pass over samples.
// Samples must be in non-decreasing time order.
//
//nolint:gocognit // state machine is kept in one place on purpose
func (s *Segmenter) Segment(samples []model.Sample) (*model.DailyActivity, error) {
	ret := model.NewDailyActivity()

	var blockStart, lastMove, prevTime *time.Time

	flush := func() {
		if blockStart != nil && lastMove != nil {
			dur := int(lastMove.Sub(*blockStart).Seconds())
			if dur >= s.cfg.MinMovingSeconds {
				for _, part := range splitBlockByDay(*blockStart, *lastMove) {
					ret.SecondsByDay[part.day] += part.seconds
					ret.SegmentsByDay[part.day] = append(ret.SegmentsByDay[part.day],
						model.DaySegment{Day: part.day, StartSec: part.startSec, EndSec: part.endSec})
				}
			}
		}
		blockStart = nil
		lastMove = nil
	}

	for i := range samples {
		t := samples[i].FixTime
		if prevTime != nil {
			if s.strict && t.Before(*prevTime) {
				return nil, ErrUnorderedInput
			}
			// a data gap always force-ends a block: no reports means no movement
			if int(t.Sub(*prevTime).Seconds()) >= s.cfg.MinStopSeconds {
				flush()
			}
		}
		if samples[i].SpeedKmh >= s.cfg.MinSpeedKmh {
			if blockStart == nil {
				start := t
				blockStart = &start
			}
			move := t
			lastMove = &move
		} else if blockStart != nil {
			idle := int(t.Sub(*lastMove).Seconds())
			if idle >= s.cfg.MinStopSeconds {
				flush()
			} else if idle > s.cfg.StopToleranceSec {
				// hysteresis band: tolerate a brief dip below the speed
				// threshold without ending the block
			}
		}
		prev := t
		prevTime = &prev
	}
	flush()
	return ret, nil
}

type dayPart struct {
	day      string
	seconds  int
	startSec int
	endSec   int
}

// splitBlockByDay decomposes [start, end) at midnight boundaries.
// The emitted seconds sum up exactly to end-start.
func splitBlockByDay(start, end time.Time) []dayPart {
	out := make([]dayPart, 0, 1)
	cur := start
	for cur.Before(end) {
		dayStart := startOfDay(cur)
		dayEnd := dayStart.Add(secondsPerDay * time.Second)
		stop := dayEnd
		if end.Before(dayEnd) {
			stop = end
		}
		out = append(out, dayPart{
			day:      cur.Format(model.DayFormat),
			seconds:  int(stop.Sub(cur).Seconds()),
			startSec: int(cur.Sub(dayStart).Seconds()),
			endSec:   int(stop.Sub(dayStart).Seconds()),
		})
		cur = stop
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
